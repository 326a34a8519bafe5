package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/ShelterDesk/internal/client/api"
	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/middleware"
	"github.com/atinyakov/ShelterDesk/internal/models"
	"github.com/atinyakov/ShelterDesk/internal/repository"
	"github.com/atinyakov/ShelterDesk/internal/service"
)

func newRouter() http.Handler {
	m := repository.NewMemory()
	shelter := service.NewShelterService(service.MemoryStore(m), nil)
	auth := service.NewAuthService(m, "admin", "password", nil, service.WithHashCost(bcrypt.MinCost))
	return NewRouter(shelter, &AuthHandler{AuthService: auth}, zap.NewNop())
}

func newClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(newRouter())
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

func TestAPI_AnimalsRoundTrip(t *testing.T) {
	ctx := context.Background()
	animals := newClient(t).Resources().Animals

	list, err := animals.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	res, err := animals.Create(ctx, api.Payload{"Name": "Milo", "Species": "Cat", "Status": "Available",
		"Featured": false, "imageURL": "milo.jpg"})
	require.NoError(t, err)
	assert.Equal(t, models.Result{Success: true, Message: "Animal added."}, res)

	list, err = animals.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID())
	assert.Equal(t, "milo.jpg", list[0].ImageURL)

	res, err = animals.Update(ctx, "1", api.Payload{"Status": "Adopted"})
	require.NoError(t, err)
	assert.Equal(t, "Animal updated.", res.Message)

	res, err = animals.Delete(ctx, "5")
	require.NoError(t, err, "a failed delete is a reply, not a transport error")
	assert.Equal(t, models.Result{Success: false, Message: "Animal not found."}, res)

	res, err = animals.Create(ctx, api.Payload{"Species": "Cat"})
	require.NoError(t, err)
	assert.Equal(t, models.Result{Success: false, Message: "Name is required."}, res)
}

func TestAPI_MedicalMissingAnimal(t *testing.T) {
	ctx := context.Background()
	medical := newClient(t).Resources().Medical

	res, err := medical.Create(ctx, api.Payload{"AnimalID": "99", "Date": "2024-05-01", "Description": "Checkup"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, failure.ReferencesAnimal(res.Message), res.Message)
}

func TestAPI_PublicForms(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	rs := c.Resources()

	_, err := rs.Animals.Create(ctx, api.Payload{"Name": "Rex", "Species": "Dog"})
	require.NoError(t, err)

	res, err := c.SubmitAdoption(ctx, models.PublicAdoption{Name: "Ann", AnimalID: "1", AnimalName: "Rex",
		Contact: "ann@example.com", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, models.Result{Success: true, Message: "Adoption application submitted!"}, res)

	apps, err := rs.Adoptions.List(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Ann", apps[0].Applicant())
	assert.Equal(t, models.AdoptionPending, apps[0].Status)

	res, err = c.SubmitAdoption(ctx, models.PublicAdoption{AnimalID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Missing field: adoptAnimalName", res.Message)

	res, err = c.SubmitDonation(ctx, models.PublicDonation{DonorName: "Bo", DonorContact: "bo@example.com", Amount: "20"})
	require.NoError(t, err)
	assert.Equal(t, models.Result{Success: true, Message: "Donation submitted. Thank you!"}, res)

	donors, err := rs.Donors.List(ctx)
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "bo@example.com", donors[0].Contact())

	donations, err := rs.Donations.List(ctx)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, "20.00", donations[0].Amount)
	assert.Equal(t, "Online", donations[0].Method)

	res, err = rs.Donations.Create(ctx, api.Payload{"DonorID": "1", "Amount": "5", "Method": "Cash"})
	require.NoError(t, err)
	assert.Equal(t, "Donation added.", res.Message)
}

func TestAPI_Auth(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	res, err := c.AdminLogin(ctx, "admin", "password")
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = c.AdminLogin(ctx, "admin", "guess")
	require.NoError(t, err)
	assert.Equal(t, models.Result{Success: false, Message: "Invalid username or password."}, res)

	res, err = c.UserSignup(ctx, models.Signup{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully. Please login.", res.Message)

	login, err := c.UserLogin(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, login.Success)
	require.NotNil(t, login.User)
	assert.Equal(t, "Ann", login.User.Name)

	login, err = c.UserLogin(ctx, "ann@example.com", "nope")
	require.NoError(t, err)
	assert.False(t, login.Success)
	assert.Nil(t, login.User)
}

func TestRouter_Plumbing(t *testing.T) {
	h := newRouter()

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		wantCode    int
		wantSubstr  string
	}{
		{"invalid JSON", http.MethodPost, "/api/donors", `not a json`, "application/json", http.StatusBadRequest, "invalid request"},
		{"non-JSON body", http.MethodPost, "/api/donors", `Name=Ann`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType, ""},
		{"non-numeric id", http.MethodPut, "/api/donors/abc", `{}`, "application/json", http.StatusNotFound, "Not found."},
		{"unknown record", http.MethodDelete, "/api/volunteers/3", "", "", http.StatusNotFound, "Volunteer not found."},
		{"created", http.MethodPost, "/api/volunteers", `{"Name":"Bo"}`, "application/json", http.StatusCreated, "Volunteer added."},
		{"public donation", http.MethodPost, "/api/donations", `{"donorName":"Bo","donationAmount":"5"}`, "application/json", http.StatusOK, "Thank you!"},
		{"empty list", http.MethodGet, "/api/medical", "", "", http.StatusOK, "[]"},
		{"preflight", http.MethodOptions, "/api/animals", "", "", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", tt.contentType)
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantSubstr)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}
