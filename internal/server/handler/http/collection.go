package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/ShelterDesk/internal/service"
)

// Collection defines the CRUD operations behind one /api/<name> resource.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, p service.Payload) (string, error)
	Update(ctx context.Context, id int64, p service.Payload) (string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// PublicForm routes POST bodies that came from a public site form to
// Submit instead of the admin create.
type PublicForm struct {
	// Match reports whether the body is a public form submission.
	Match func(service.Payload) bool
	// Submit records the submission and returns the reply message.
	Submit func(ctx context.Context, p service.Payload) (string, error)
	// Status is the success status code.
	Status int
}

// collectionRoutes mounts list, create, update and delete for c.
// form may be nil.
func collectionRoutes[T any](c Collection[T], form *PublicForm) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", listHandler(c))
		r.Post("/", createHandler(c, form))
		r.Put("/{id}", updateHandler(c))
		r.Delete("/{id}", deleteHandler(c))
	}
}

func listHandler[T any](c Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createHandler[T any](c Collection[T], form *PublicForm) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p service.Payload
		if !decode(w, r, &p) {
			return
		}
		if p == nil {
			p = service.Payload{}
		}

		create, status := c.Create, http.StatusCreated
		if form != nil && form.Match(p) {
			create, status = form.Submit, form.Status
		}
		msg, err := create(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResult(w, status, true, msg)
	}
}

func updateHandler[T any](c Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var p service.Payload
		if !decode(w, r, &p) {
			return
		}
		msg, err := c.Update(r.Context(), id, p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResult(w, http.StatusOK, true, msg)
	}
}

func deleteHandler[T any](c Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		msg, err := c.Delete(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResult(w, http.StatusOK, true, msg)
	}
}

// pathID parses the {id} segment. Non-numeric ids match no record.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeResult(w, http.StatusNotFound, false, "Not found.")
		return 0, false
	}
	return id, true
}
