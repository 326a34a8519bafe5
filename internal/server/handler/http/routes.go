// Package http provides HTTP routing and handlers for the shelter API stub.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/middleware"
	"github.com/atinyakov/ShelterDesk/internal/models"
	"github.com/atinyakov/ShelterDesk/internal/service"
)

// NewRouter constructs the HTTP handler serving the shelter REST API.
//
// Routes:
//
//	POST /api/admin/login                  → authHandler.AdminLogin
//	POST /api/users/signup                 → authHandler.Signup
//	POST /api/users/login                  → authHandler.Login
//	GET|POST /api/<collection>             → list, create
//	PUT|DELETE /api/<collection>/{id}      → update, delete
//
// where <collection> is animals, medical, adoptions, donors, donations or
// volunteers. POST /api/adoptions and POST /api/donations also accept the
// public site forms.
//
// Middleware chain (applied in order):
//  1. RequestID   - tags each request
//  2. Logger      - logs each request
//  3. Recoverer   - turns panics into 500s
//  4. CORS        - allows any origin and answers preflights
//  5. AllowContentType("application/json") - rejects non-JSON bodies
func NewRouter(shelter *service.ShelterService, authHandler *AuthHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", authHandler.AdminLogin)
		r.Post("/users/signup", authHandler.Signup)
		r.Post("/users/login", authHandler.Login)

		r.Route("/animals", collectionRoutes[models.Animal](shelter.Animals, nil))
		r.Route("/medical", collectionRoutes[models.MedicalRecord](shelter.Medical, nil))
		r.Route("/adoptions", collectionRoutes[models.AdoptionApplication](shelter.Adoptions, &PublicForm{
			Match:  service.IsPublicAdoption,
			Submit: shelter.SubmitAdoption,
			Status: http.StatusCreated,
		}))
		r.Route("/donors", collectionRoutes[models.Donor](shelter.Donors, nil))
		r.Route("/donations", collectionRoutes[models.Donation](shelter.Donations, &PublicForm{
			Match:  service.IsPublicDonation,
			Submit: shelter.SubmitDonation,
			Status: http.StatusOK,
		}))
		r.Route("/volunteers", collectionRoutes[models.Volunteer](shelter.Volunteers, nil))
	})

	return r
}
