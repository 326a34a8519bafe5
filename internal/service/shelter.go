package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
	"github.com/atinyakov/ShelterDesk/internal/repository"
)

// Table is the persistence of one record type.
type Table[T any] interface {
	// List returns every record ordered by key.
	List(ctx context.Context) ([]T, error)
	// Get returns the record with key id or repository.ErrNotFound.
	Get(ctx context.Context, id int64) (T, error)
	// Insert stores rec and returns its new key.
	Insert(ctx context.Context, rec T) (int64, error)
	// Update replaces the record with key id.
	Update(ctx context.Context, id int64, rec T) error
	// Delete removes the record with key id and its dependents.
	Delete(ctx context.Context, id int64) error
}

// DonorFinder looks donors up by name for the public donation form.
type DonorFinder interface {
	FindDonorByName(ctx context.Context, name string) (models.Donor, error)
}

// Store groups the tables the shelter service works on.
type Store struct {
	Animals    Table[models.Animal]
	Medical    Table[models.MedicalRecord]
	Adoptions  Table[models.AdoptionApplication]
	Donors     Table[models.Donor]
	Donations  Table[models.Donation]
	Volunteers Table[models.Volunteer]
	DonorNames DonorFinder
}

// Collection applies the CRUD rules of one record type.
type Collection[T any] struct {
	noun  string
	table Table[T]
	log   *zap.Logger

	create func(Payload) (T, error)
	patch  func(*T, Payload) error
}

// List returns every record.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	list, err := c.table.List(ctx)
	if err != nil {
		return nil, c.fail("list", err)
	}
	return list, nil
}

// Create validates p, stores a new record and returns the reply message.
func (c *Collection[T]) Create(ctx context.Context, p Payload) (string, error) {
	rec, err := c.create(p)
	if err != nil {
		return "", err
	}
	if _, err := c.table.Insert(ctx, rec); err != nil {
		return "", c.fail("create", err)
	}
	return c.noun + " added.", nil
}

// Update applies the fields present in p to record id.
func (c *Collection[T]) Update(ctx context.Context, id int64, p Payload) (string, error) {
	rec, err := c.table.Get(ctx, id)
	if err != nil {
		return "", c.fail("update", err)
	}
	if err := c.patch(&rec, p); err != nil {
		return "", err
	}
	if err := c.table.Update(ctx, id, rec); err != nil {
		return "", c.fail("update", err)
	}
	return c.noun + " updated.", nil
}

// Delete removes record id.
func (c *Collection[T]) Delete(ctx context.Context, id int64) (string, error) {
	if err := c.table.Delete(ctx, id); err != nil {
		return "", c.fail("delete", err)
	}
	return c.noun + " deleted.", nil
}

func (c *Collection[T]) fail(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &Error{Code: CodeNotFound, Message: c.noun + " not found.", Err: err}
	}
	c.log.Error("storage failure", zap.String("op", op), zap.String("entity", c.noun), zap.Error(err))
	return internal(err)
}

// ShelterService serves the six admin collections and the public forms.
type ShelterService struct {
	Animals    *Collection[models.Animal]
	Medical    *Collection[models.MedicalRecord]
	Adoptions  *Collection[models.AdoptionApplication]
	Donors     *Collection[models.Donor]
	Donations  *Collection[models.Donation]
	Volunteers *Collection[models.Volunteer]

	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewShelterService builds the service over store. log may be nil.
func NewShelterService(store Store, log *zap.Logger) *ShelterService {
	s := &ShelterService{store: store, log: logger.OrNop(log), now: time.Now}
	s.Animals = &Collection[models.Animal]{noun: "Animal", table: store.Animals, log: s.log,
		create: s.newAnimal, patch: s.patchAnimal}
	s.Medical = &Collection[models.MedicalRecord]{noun: "Medical record", table: store.Medical, log: s.log,
		create: s.newMedical, patch: patchMedical}
	s.Adoptions = &Collection[models.AdoptionApplication]{noun: "Adoption application", table: store.Adoptions, log: s.log,
		create: s.newAdoption, patch: patchAdoption}
	s.Donors = &Collection[models.Donor]{noun: "Donor", table: store.Donors, log: s.log,
		create: newDonor, patch: patchDonor}
	s.Donations = &Collection[models.Donation]{noun: "Donation", table: store.Donations, log: s.log,
		create: s.newDonation, patch: patchDonation}
	s.Volunteers = &Collection[models.Volunteer]{noun: "Volunteer", table: store.Volunteers, log: s.log,
		create: s.newVolunteer, patch: patchVolunteer}
	return s
}

func (s *ShelterService) today() string { return s.now().UTC().Format(dateLayout) }

// Public form fields of an adoption application, in the order they are
// checked.
var adoptionFormFields = []string{"adoptAnimal", "adoptAnimalName", "adoptName", "adoptContact", "adoptAddress"}

// IsPublicAdoption reports whether p came from the public adoption form
// rather than the admin console.
func IsPublicAdoption(p Payload) bool { return !p.Has("AnimalID") }

// SubmitAdoption records an application from the public form with status
// Pending.
func (s *ShelterService) SubmitAdoption(ctx context.Context, p Payload) (string, error) {
	for _, f := range adoptionFormFields {
		if !p.Truthy(f) {
			return "", invalid("Missing field: %s", f)
		}
	}
	animalID, err := p.ID("adoptAnimal")
	if err != nil {
		return "", err
	}
	app := models.AdoptionApplication{
		AnimalID:         animalID,
		AnimalName:       strings.TrimSpace(p.Text("adoptAnimalName")),
		ApplicantName:    strings.TrimSpace(p.Text("adoptName")),
		ApplicantContact: strings.TrimSpace(p.Text("adoptContact")),
		ApplicantAddress: strings.TrimSpace(p.Text("adoptAddress")),
		ApplicationDate:  s.today(),
		Status:           models.AdoptionPending,
	}
	if _, err := s.store.Adoptions.Insert(ctx, app); err != nil {
		return "", s.Adoptions.fail("submit", err)
	}
	return "Adoption application submitted!", nil
}

// IsPublicDonation reports whether p came from the public donation form
// rather than the admin console.
func IsPublicDonation(p Payload) bool { return !p.Has("DonorID") }

// SubmitDonation records a gift from the public form. The donor is found by
// name or created; a new contact replaces the stored one.
func (s *ShelterService) SubmitDonation(ctx context.Context, p Payload) (string, error) {
	name, contact := p.Text("donorName"), p.Text("donorContact")
	if name == "" || !p.Truthy("donationAmount") {
		return "", invalid("Name and amount are required.")
	}
	amount, err := parseAmount(p.Text("donationAmount"))
	if err != nil {
		return "", err
	}

	donor, err := s.store.DonorNames.FindDonorByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		donor = models.Donor{Name: name, ContactInfo: contact}
		if donor.DonorID, err = s.store.Donors.Insert(ctx, donor); err != nil {
			return "", s.Donors.fail("submit", err)
		}
	case err != nil:
		return "", s.Donors.fail("submit", err)
	case contact != "" && donor.ContactInfo != contact:
		donor.ContactInfo = contact
		if err := s.store.Donors.Update(ctx, donor.DonorID, donor); err != nil {
			return "", s.Donors.fail("submit", err)
		}
	}

	donation := models.Donation{
		DonorID:     donor.DonorID,
		ContactInfo: contact,
		Amount:      amount,
		Date:        s.today(),
		Method:      "Online",
	}
	if _, err := s.store.Donations.Insert(ctx, donation); err != nil {
		return "", s.Donations.fail("submit", err)
	}
	s.log.Info("donation received", zap.Int64("donor_id", donor.DonorID), zap.String("amount", amount))
	return "Donation submitted. Thank you!", nil
}

func (s *ShelterService) newAnimal(p Payload) (models.Animal, error) {
	if err := p.requireFields("Name", "Species"); err != nil {
		return models.Animal{}, err
	}
	a := models.Animal{
		Name:        p.Text("Name"),
		Species:     p.Text("Species"),
		Breed:       p.Text("Breed"),
		Gender:      p.Text("Gender"),
		Status:      p.Text("Status"),
		ArrivalDate: s.today(),
		Featured:    p.Flag("Featured"),
		Description: p.Text("Description"),
		ImageURL:    imageURL(p),
	}
	if a.Status == "" {
		a.Status = models.StatusAvailable
	}
	if err := setAge(&a, p); err != nil {
		return a, err
	}
	if p.Truthy("ArrivalDate") {
		d, err := p.Date("ArrivalDate")
		if err != nil {
			return a, err
		}
		a.ArrivalDate = d
	}
	return a, nil
}

func (s *ShelterService) patchAnimal(a *models.Animal, p Payload) error {
	for _, f := range []string{"Name", "Species"} {
		if p.Has(f) && !p.Truthy(f) {
			return invalid("%s is required.", f)
		}
	}
	setText(p, "Name", &a.Name)
	setText(p, "Species", &a.Species)
	setText(p, "Breed", &a.Breed)
	setText(p, "Gender", &a.Gender)
	setText(p, "Status", &a.Status)
	setText(p, "Description", &a.Description)
	if p.Has("Featured") {
		a.Featured = p.Flag("Featured")
	}
	if img := imageURL(p); img != "" {
		a.ImageURL = img
	}
	if p.Has("Age") {
		if err := setAge(a, p); err != nil {
			return err
		}
	}
	return setDate(p, "ArrivalDate", &a.ArrivalDate)
}

// imageURL returns the first non-empty image alias.
func imageURL(p Payload) string {
	for _, k := range []string{"ImageURL", "imageURL", "SampleImageURL"} {
		if v := p.Text(k); v != "" {
			return v
		}
	}
	return ""
}

func setAge(a *models.Animal, p Payload) error {
	if !p.Truthy("Age") {
		a.Age = nil
		return nil
	}
	age, err := p.Int("Age")
	if err != nil {
		return err
	}
	a.Age = &age
	return nil
}

func setText(p Payload, key string, dst *string) {
	if p.Has(key) {
		*dst = p.Text(key)
	}
}

// setDate updates dst when key holds a value; an empty value is ignored.
func setDate(p Payload, key string, dst *string) error {
	if !p.Truthy(key) {
		return nil
	}
	d, err := p.Date(key)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func setID(p Payload, key string, dst *int64) error {
	if !p.Truthy(key) {
		return nil
	}
	id, err := p.ID(key)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

func (s *ShelterService) newMedical(p Payload) (models.MedicalRecord, error) {
	var r models.MedicalRecord
	if err := p.requireFields("AnimalID", "Date", "Description"); err != nil {
		return r, err
	}
	if err := setID(p, "AnimalID", &r.AnimalID); err != nil {
		return r, err
	}
	if err := setDate(p, "Date", &r.Date); err != nil {
		return r, err
	}
	r.Description = p.Text("Description")
	r.VetName = p.Text("VetName")
	return r, nil
}

func patchMedical(r *models.MedicalRecord, p Payload) error {
	if err := setID(p, "AnimalID", &r.AnimalID); err != nil {
		return err
	}
	if err := setDate(p, "Date", &r.Date); err != nil {
		return err
	}
	setText(p, "Description", &r.Description)
	setText(p, "VetName", &r.VetName)
	return nil
}

func (s *ShelterService) newAdoption(p Payload) (models.AdoptionApplication, error) {
	var a models.AdoptionApplication
	if err := p.requireFields("AnimalID", "AnimalName", "ApplicantName", "ApplicantContact", "ApplicantAddress"); err != nil {
		return a, err
	}
	a.ApplicationDate = s.today()
	a.Status = models.AdoptionPending
	err := patchAdoption(&a, p)
	return a, err
}

func patchAdoption(a *models.AdoptionApplication, p Payload) error {
	if err := setID(p, "AnimalID", &a.AnimalID); err != nil {
		return err
	}
	setText(p, "AnimalName", &a.AnimalName)
	setText(p, "ApplicantName", &a.ApplicantName)
	setText(p, "ApplicantContact", &a.ApplicantContact)
	setText(p, "ApplicantAddress", &a.ApplicantAddress)
	if p.Truthy("Status") {
		a.Status = models.AdoptionStatus(p.Text("Status"))
	}
	return setDate(p, "ApplicationDate", &a.ApplicationDate)
}

func newDonor(p Payload) (models.Donor, error) {
	if err := p.requireFields("Name"); err != nil {
		return models.Donor{}, err
	}
	return models.Donor{Name: p.Text("Name"), ContactInfo: p.Text("ContactInfo")}, nil
}

func patchDonor(d *models.Donor, p Payload) error {
	if p.Has("Name") && !p.Truthy("Name") {
		return invalid("Name is required.")
	}
	setText(p, "Name", &d.Name)
	setText(p, "ContactInfo", &d.ContactInfo)
	return nil
}

func (s *ShelterService) newDonation(p Payload) (models.Donation, error) {
	d := models.Donation{Date: s.today()}
	if err := p.requireFields("DonorID", "Amount"); err != nil {
		return d, err
	}
	err := patchDonation(&d, p)
	return d, err
}

func patchDonation(d *models.Donation, p Payload) error {
	if err := setID(p, "DonorID", &d.DonorID); err != nil {
		return err
	}
	if p.Has("Amount") {
		amount, err := parseAmount(p.Text("Amount"))
		if err != nil {
			return err
		}
		d.Amount = amount
	}
	setText(p, "ContactInfo", &d.ContactInfo)
	setText(p, "Method", &d.Method)
	return setDate(p, "Date", &d.Date)
}

func (s *ShelterService) newVolunteer(p Payload) (models.Volunteer, error) {
	v := models.Volunteer{JoinDate: s.today()}
	if err := p.requireFields("Name"); err != nil {
		return v, err
	}
	err := patchVolunteer(&v, p)
	return v, err
}

func patchVolunteer(v *models.Volunteer, p Payload) error {
	if p.Has("Name") && !p.Truthy("Name") {
		return invalid("Name is required.")
	}
	setText(p, "Name", &v.Name)
	setText(p, "ContactInfo", &v.ContactInfo)
	setText(p, "AssignedTasks", &v.AssignedTasks)
	return setDate(p, "JoinDate", &v.JoinDate)
}

// MemoryStore returns the tables of an in-memory repository.
func MemoryStore(m *repository.Memory) Store {
	return Store{
		Animals:    m.Animals,
		Medical:    m.Medical,
		Adoptions:  m.Adoptions,
		Donors:     m.Donors,
		Donations:  m.Donations,
		Volunteers: m.Volunteers,
		DonorNames: m,
	}
}

// PostgresStore returns the tables of a PostgreSQL repository.
func PostgresStore(p *repository.Postgres) Store {
	return Store{
		Animals:    p.Animals,
		Medical:    p.Medical,
		Adoptions:  p.Adoptions,
		Donors:     p.Donors,
		Donations:  p.Donations,
		Volunteers: p.Volunteers,
		DonorNames: p,
	}
}
