package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

// Collection names as they appear under /api/.
const (
	Animals    = "animals"
	Medical    = "medical"
	Adoptions  = "adoptions"
	Donors     = "donors"
	Donations  = "donations"
	Volunteers = "volunteers"
)

// Resource is the CRUD surface of one collection.
//
// Write methods return the API's envelope as-is: a Result with Success false
// is a normal reply, not an error. The error return is reserved for
// transport and decoding failures (failure.Network).
type Resource[T any] struct {
	c    *Client
	name string
}

// NewResource binds a collection name such as "animals" to a record type.
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, name: name}
}

func (r *Resource[T]) path() string { return "/api/" + r.name }

func (r *Resource[T]) itemPath(id string) string { return r.path() + "/" + url.PathEscape(id) }

// List returns every record of the collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return getList[T](ctx, r.c, "list "+r.name, r.path())
}

// Create posts a new record.
func (r *Resource[T]) Create(ctx context.Context, p Payload) (models.Result, error) {
	return r.c.result(ctx, "create "+r.name, http.MethodPost, r.path(), p)
}

// Update replaces the record with the given id.
func (r *Resource[T]) Update(ctx context.Context, id string, p Payload) (models.Result, error) {
	return r.c.result(ctx, "update "+r.name, http.MethodPut, r.itemPath(id), p)
}

// Delete removes the record with the given id.
func (r *Resource[T]) Delete(ctx context.Context, id string) (models.Result, error) {
	return r.c.result(ctx, "delete "+r.name, http.MethodDelete, r.itemPath(id), nil)
}

// Resources groups the six admin collections.
type Resources struct {
	Animals    *Resource[models.Animal]
	Medical    *Resource[models.MedicalRecord]
	Adoptions  *Resource[models.AdoptionApplication]
	Donors     *Resource[models.Donor]
	Donations  *Resource[models.Donation]
	Volunteers *Resource[models.Volunteer]
}

// Resources returns typed handles for every admin collection.
func (c *Client) Resources() Resources {
	return Resources{
		Animals:    NewResource[models.Animal](c, Animals),
		Medical:    NewResource[models.MedicalRecord](c, Medical),
		Adoptions:  NewResource[models.AdoptionApplication](c, Adoptions),
		Donors:     NewResource[models.Donor](c, Donors),
		Donations:  NewResource[models.Donation](c, Donations),
		Volunteers: NewResource[models.Volunteer](c, Volunteers),
	}
}
