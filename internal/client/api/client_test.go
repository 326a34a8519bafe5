package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// roundTripperFunc lets a plain function stand in for the transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *Client {
	return New("http://example.com", WithHTTPClient(&http.Client{Transport: fn, Timeout: time.Second}))
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestList_Success(t *testing.T) {
	var gotPath, gotReqID string
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotReqID = req.Header.Get(RequestIDHeader)
		return jsonResponse(http.StatusOK, `[{"AnimalID":7,"Name":"Rex","Species":"Dog","Age":null,"Breed":null}]`), nil
	})

	animals, err := c.Resources().Animals.List(context.Background())
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, "7", animals[0].ID())
	assert.Nil(t, animals[0].Age)
	assert.Equal(t, "/api/animals", gotPath)
	assert.NotEmpty(t, gotReqID)
}

func TestList_StatusError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"success":false}`), nil
	})

	_, err := c.Resources().Donors.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.Network, failure.KindOf(err))
	assert.Contains(t, err.Error(), "API error: 500")
}

func TestList_InvalidJSON(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "not-json"), nil
	})

	_, err := c.Resources().Medical.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.Network, failure.KindOf(err))
	assert.Contains(t, err.Error(), "invalid response")
}

func TestList_NetworkError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	_, err := c.Resources().Volunteers.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.Network, failure.KindOf(err))
}

func TestWrite_DecodesEnvelopeOnErrorStatus(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "/api/animals/5", req.URL.Path)
		return jsonResponse(http.StatusNotFound, `{"success":false,"message":"Animal not found."}`), nil
	})

	res, err := c.Resources().Animals.Delete(context.Background(), "5")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Animal not found.", res.Message)
}

func TestWrite_SendsJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/donors/3", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ann", body["Name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Donor updated."}`))
	}))
	defer ts.Close()

	c := New(ts.URL + "/")
	res, err := c.Resources().Donors.Update(context.Background(), "3", Payload{"Name": "Ann", "ContactInfo": ""})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Donor updated.", res.Message)
}

func TestWrite_UndecodableBody(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "<html>bad gateway</html>"), nil
	})

	_, err := c.Resources().Donations.Create(context.Background(), Payload{"DonorID": "1"})
	require.Error(t, err)
	assert.Equal(t, failure.Network, failure.KindOf(err))
}

func TestUserLogin(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		assert.Equal(t, "ann@example.com", creds.Email)
		return jsonResponse(http.StatusOK,
			`{"success":true,"message":"Login successful","user":{"id":1,"name":"Ann","email":"ann@example.com"}}`), nil
	})

	res, err := c.UserLogin(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ann", res.User.Name)
}

func TestAdminLogin_Rejected(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/admin/login", req.URL.Path)
		return jsonResponse(http.StatusUnauthorized, `{"success":false,"message":"Invalid username or password."}`), nil
	})

	res, err := c.AdminLogin(context.Background(), "admin", "nope")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestSubmitAdoption_Keys(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "7", body["adoptAnimal"])
		assert.Equal(t, "Rex", body["adoptAnimalName"])
		assert.Equal(t, "Ann", body["adoptName"])
		return jsonResponse(http.StatusCreated, `{"success":true,"message":"Adoption application submitted!"}`), nil
	})

	res, err := c.SubmitAdoption(context.Background(), models.PublicAdoption{
		Name: "Ann", AnimalID: "7", AnimalName: "Rex", Contact: "ann@example.com", Address: "1 Main St",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
}

func TestNewHTTPClient_Plain(t *testing.T) {
	hc, err := NewHTTPClient(TLSFiles{}, 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, hc.Timeout)
}

func TestNewHTTPClient_BadCA(t *testing.T) {
	caPath := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(caPath, []byte("invalid pem"), 0600))

	_, err := NewHTTPClient(TLSFiles{CAFile: caPath}, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse CA cert")
}

func TestNewHTTPClient_MissingCA(t *testing.T) {
	_, err := NewHTTPClient(TLSFiles{CAFile: "nonexistent.pem"}, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewHTTPClient_TLSServer(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	caPath := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(caPath, ts.Certificate().Raw, 0600))
	// DER is not PEM; the loader must refuse it
	_, err := NewHTTPClient(TLSFiles{CAFile: caPath}, time.Second)
	require.Error(t, err)

	c := New(ts.URL, WithHTTPClient(ts.Client()))
	list, err := c.Resources().Animals.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
