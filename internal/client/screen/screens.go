package screen

import (
	"context"

	"github.com/atinyakov/ShelterDesk/internal/client/api"
	"github.com/atinyakov/ShelterDesk/internal/client/cache"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// Screen is the action surface shared by every controller.
type Screen interface {
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Screens is the admin dashboard: one controller per collection.
type Screens struct {
	Animals    *Controller[models.Animal]
	Medical    *Controller[models.MedicalRecord]
	Adoptions  *Controller[models.AdoptionApplication]
	Donors     *Controller[models.Donor]
	Donations  *Controller[models.Donation]
	Volunteers *Controller[models.Volunteer]
}

// NewScreens builds the dashboard over the API resources. The animal list
// goes through c.
func NewScreens(res api.Resources, c *cache.Cache, v View, opts ...Option) *Screens {
	animals := CachedAnimals{Store: res.Animals, Cache: c}
	return &Screens{
		Animals:    NewController(AnimalEntity(c), Store[models.Animal](animals), v, opts...),
		Medical:    NewController(MedicalEntity(), Store[models.MedicalRecord](res.Medical), v, opts...),
		Adoptions:  NewController(AdoptionEntity(animals), Store[models.AdoptionApplication](res.Adoptions), v, opts...),
		Donors:     NewController(DonorEntity(), Store[models.Donor](res.Donors), v, opts...),
		Donations:  NewController(DonationEntity(res.Donors), Store[models.Donation](res.Donations), v, opts...),
		Volunteers: NewController(VolunteerEntity(), Store[models.Volunteer](res.Volunteers), v, opts...),
	}
}

// Names lists the screens in dashboard order.
func (s *Screens) Names() []string {
	return []string{api.Animals, api.Medical, api.Adoptions, api.Donors, api.Donations, api.Volunteers}
}

// Get returns the screen for a collection name such as "donors".
func (s *Screens) Get(name string) (Screen, bool) {
	switch name {
	case api.Animals:
		return s.Animals, true
	case api.Medical:
		return s.Medical, true
	case api.Adoptions:
		return s.Adoptions, true
	case api.Donors:
		return s.Donors, true
	case api.Donations:
		return s.Donations, true
	case api.Volunteers:
		return s.Volunteers, true
	}
	return nil, false
}
