package screen

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/atinyakov/ShelterDesk/internal/client/api"
	"github.com/atinyakov/ShelterDesk/internal/client/cache"
	"github.com/atinyakov/ShelterDesk/internal/client/validate"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// DefaultDescription is given to animals added from the console.
func DefaultDescription(species string) string {
	return fmt.Sprintf("A lovely %s looking for a forever home.", species)
}

// day trims a timestamp to its YYYY-MM-DD prefix.
func day(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func itoa(i int) string { return strconv.Itoa(i) }

// formTitle returns "Add X" or "Edit X".
func formTitle(name string, edit bool) (title, submit string) {
	if edit {
		return "Edit " + name, "Update"
	}
	return "Add " + name, "Add"
}

// AnimalEntity describes the animals screen. Writes and deletes invalidate
// c so the public pages never serve a stale list.
func AnimalEntity(c *cache.Cache) Entity[models.Animal] {
	return Entity[models.Animal]{
		Name:    "Animal",
		Title:   "Manage Animals",
		Columns: []string{"ID", "Name", "Species", "Breed", "Age", "Gender", "Status"},
		Row: func(_ int, a models.Animal) []string {
			age := ""
			if a.Age != nil {
				age = itoa(*a.Age)
			}
			return []string{a.ID(), a.Name, a.Species, a.Breed, age, a.Gender, a.Status}
		},
		ID: models.Animal.ID,
		Form: func(a *models.Animal) Form {
			var v models.Animal
			if a != nil {
				v = *a
			}
			age := ""
			if v.Age != nil {
				age = itoa(*v.Age)
			}
			title, submit := formTitle("Animal", a != nil)
			return Form{Title: title, Submit: submit, Fields: []Field{
				{Name: "Name", Label: "Name", Value: v.Name, Required: true},
				{Name: "Species", Label: "Species", Value: v.Species, Required: true},
				{Name: "Breed", Label: "Breed", Value: v.Breed},
				{Name: "Age", Label: "Age", Kind: Number, Value: age},
				{Name: "Gender", Label: "Gender", Value: v.Gender},
				{Name: "Status", Label: "Status", Value: v.Status, Placeholder: "Available, Adopted, etc."},
				{Name: "Featured", Label: "Featured on Homepage", Kind: Checkbox, Value: strconv.FormatBool(v.Featured)},
			}}
		},
		Payload: func(v Values, a *models.Animal) api.Payload {
			status := v.Get("Status")
			if status == "" {
				status = models.StatusAvailable
			}
			p := api.Payload{
				"Name":     v.Get("Name"),
				"Species":  v.Get("Species"),
				"Breed":    v.Get("Breed"),
				"Gender":   v.Get("Gender"),
				"Status":   status,
				"Featured": v.Bool("Featured"),
			}
			if age := v.Get("Age"); age != "" {
				p["Age"] = age
			}
			if a == nil {
				p["Description"] = DefaultDescription(v.Get("Species"))
				return p
			}
			if a.ImageURL != "" {
				p["ImageURL"] = a.ImageURL
				p["imageURL"] = a.ImageURLLower
				p["SampleImageURL"] = a.SampleImageURL
			}
			if a.Description != "" {
				p["Description"] = a.Description
			}
			return p
		},
		Schema:       validate.Animal,
		CanAdd:       true,
		DeletePrompt: "Are you sure you want to delete this animal?",
		LoadFailure:  "Failed to load animal data.",
		AfterWrite: func(ctx context.Context) error {
			c.Clear()
			_, err := c.Fetch(ctx, true)
			return err
		},
		AfterDelete: func(context.Context) { c.Clear() },
	}
}

// CachedAnimals serves the animal list through the cache and sends writes
// straight to the embedded store.
type CachedAnimals struct {
	Store[models.Animal]
	Cache *cache.Cache
}

// List returns the cached list, fetching when stale.
func (s CachedAnimals) List(ctx context.Context) ([]models.Animal, error) {
	return s.Cache.Fetch(ctx, false)
}

// MedicalEntity describes the medical records screen.
func MedicalEntity() Entity[models.MedicalRecord] {
	return Entity[models.MedicalRecord]{
		Name:    "Medical Record",
		Title:   "Manage Medical Records",
		Columns: []string{"RecordID", "AnimalID", "Date", "Description", "VetName"},
		Row: func(_ int, r models.MedicalRecord) []string {
			return []string{r.ID(), formatRef(r.AnimalID), day(r.Date), r.Description, r.VetName}
		},
		ID: models.MedicalRecord.ID,
		Form: func(r *models.MedicalRecord) Form {
			var v models.MedicalRecord
			if r != nil {
				v = *r
			}
			title, submit := formTitle("Medical Record", r != nil)
			return Form{Title: title, Submit: submit, Fields: []Field{
				{Name: "AnimalID", Label: "AnimalID", Kind: Number, Value: formatRef(v.AnimalID), Required: true},
				{Name: "Date", Label: "Date (YYYY-MM-DD)", Kind: Date, Value: day(v.Date), Required: true},
				{Name: "Description", Label: "Description", Value: v.Description, Required: true},
				{Name: "VetName", Label: "Vet Name", Value: v.VetName},
			}}
		},
		Payload: func(v Values, _ *models.MedicalRecord) api.Payload {
			return api.Payload{
				"AnimalID":    v.Get("AnimalID"),
				"Date":        v.Get("Date"),
				"Description": v.Get("Description"),
				"VetName":     v.Get("VetName"),
			}
		},
		Schema:        validate.Medical,
		CanAdd:        true,
		DeletePrompt:  "Are you sure you want to delete this medical record?",
		LoadFailure:   "Failed to load medical records.",
		FlagAnimalRef: true,
	}
}

// AdoptionEntity describes the adoption applications screen. Applications
// arrive through the public form, so the screen has no Add action. The
// animal ID and name are checked against animals before each update.
func AdoptionEntity(animals cache.Fetcher) Entity[models.AdoptionApplication] {
	return Entity[models.AdoptionApplication]{
		Name:  "Adoption Application",
		Title: "Manage Adoption Applications",
		Columns: []string{"ID", "Animal ID", "Animal Name", "Applicant Name", "Email",
			"Address", "Application Date", "Status"},
		Row: func(_ int, a models.AdoptionApplication) []string {
			return []string{a.ID(), formatRef(a.AnimalID), a.Animal(), a.Applicant(), a.Contact(),
				a.Address(), day(a.ApplicationDate), string(a.Status)}
		},
		ID: models.AdoptionApplication.ID,
		Form: func(a *models.AdoptionApplication) Form {
			var v models.AdoptionApplication
			if a != nil {
				v = *a
			}
			opts := make([]Choice, 0, len(models.AdoptionStatuses))
			for _, s := range models.AdoptionStatuses {
				opts = append(opts, Choice{Value: string(s), Label: string(s)})
			}
			status := string(v.Status)
			if status == "" {
				status = string(models.AdoptionPending)
			}
			title, submit := formTitle("Adoption Application", a != nil)
			return Form{Title: title, Submit: submit, Fields: []Field{
				{Name: "AnimalID", Label: "Animal ID", Kind: Number, Value: formatRef(v.AnimalID), Required: true},
				{Name: "AnimalName", Label: "Animal Name", Value: v.Animal(), Required: true},
				{Name: "ApplicantName", Label: "Applicant Name", Value: v.Applicant(), Required: true},
				{Name: "ApplicantContact", Label: "Email", Kind: Email, Value: v.Contact(), Required: true},
				{Name: "ApplicantAddress", Label: "Address", Value: v.Address(), Required: true},
				{Name: "Status", Label: "Status", Kind: Select, Value: status, Required: true, Choices: opts},
			}}
		},
		Payload: func(v Values, _ *models.AdoptionApplication) api.Payload {
			return api.Payload{
				"AnimalID":         v.Get("AnimalID"),
				"AnimalName":       v.Get("AnimalName"),
				"ApplicantName":    v.Get("ApplicantName"),
				"ApplicantContact": v.Get("ApplicantContact"),
				"ApplicantAddress": v.Get("ApplicantAddress"),
				"Status":           v.Get("Status"),
			}
		},
		Schema:        validate.Adoption,
		DeletePrompt:  "Are you sure you want to delete this adoption application?",
		LoadFailure:   "Failed to load adoption data.",
		EmptyMessage:  "No data found or error loading adoption applications.",
		FlagAnimalRef: true,
		Check: func(ctx context.Context, v Values) error {
			list, err := animals.List(ctx)
			if err != nil {
				list = nil
			}
			_, err = validate.Match(v.Get("AnimalID"), v.Get("AnimalName"), list,
				models.Animal.ID, func(a models.Animal) string { return a.Name })
			return err
		},
	}
}

// DonorEntity describes the donors screen.
func DonorEntity() Entity[models.Donor] {
	return Entity[models.Donor]{
		Name:    "Donor",
		Title:   "Manage Donors",
		Columns: []string{"#", "DonorID", "Name", "Contact Info"},
		Row: func(i int, d models.Donor) []string {
			return []string{itoa(i + 1), d.ID(), d.Name, d.Contact()}
		},
		ID: models.Donor.ID,
		Form: func(d *models.Donor) Form {
			var v models.Donor
			if d != nil {
				v = *d
			}
			title, submit := formTitle("Donor", d != nil)
			return Form{Title: title, Submit: submit, Fields: []Field{
				{Name: "Name", Label: "Name", Value: v.Name, Required: true},
				{Name: "ContactInfo", Label: "Contact Info", Value: v.Contact()},
			}}
		},
		Payload: func(v Values, _ *models.Donor) api.Payload {
			return api.Payload{"Name": v.Get("Name"), "ContactInfo": v.Get("ContactInfo")}
		},
		Schema:       validate.Donor,
		CanAdd:       true,
		DeletePrompt: "Delete this donor?",
		LoadFailure:  "Failed to load donors.",
	}
}

// donorDirectory is the donor list the donations screen joins against.
type donorDirectory struct {
	source interface {
		List(ctx context.Context) ([]models.Donor, error)
	}
	mu     sync.Mutex
	donors []models.Donor
}

func (d *donorDirectory) load(ctx context.Context) error {
	donors, err := d.source.List(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.donors = donors
	d.mu.Unlock()
	return nil
}

func (d *donorDirectory) snapshot() []models.Donor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.donors
}

func (d *donorDirectory) byID(id int64) *models.Donor {
	for _, donor := range d.snapshot() {
		if donor.DonorID == id {
			return &donor
		}
	}
	return nil
}

// DonationEntity describes the donations screen. Donors are loaded before
// every list; rows show the donor's name and contact, falling back to the
// donation's own snapshot.
func DonationEntity(donors interface {
	List(ctx context.Context) ([]models.Donor, error)
}) Entity[models.Donation] {
	dir := &donorDirectory{source: donors}
	return Entity[models.Donation]{
		Name:    "Donation",
		Title:   "Manage Donations",
		Columns: []string{"#", "DonationID", "Donor", "Contact Info", "Amount", "Date", "Method"},
		Row: func(i int, d models.Donation) []string {
			donor, contact := formatRef(d.DonorID), d.Contact()
			if dn := dir.byID(d.DonorID); dn != nil {
				donor, contact = dn.Name, dn.Contact()
			}
			return []string{itoa(i + 1), d.ID(), donor, contact, d.Amount, day(d.Date), d.Method}
		},
		ID: models.Donation.ID,
		Form: func(d *models.Donation) Form {
			var v models.Donation
			if d != nil {
				v = *d
			}
			opts := []Choice{{Value: "", Label: "Select"}}
			for _, dn := range dir.snapshot() {
				opts = append(opts, Choice{Value: dn.ID(), Label: dn.Name})
			}
			title, submit := formTitle("Donation", d != nil)
			return Form{Title: title, Submit: submit, Fields: []Field{
				{Name: "DonorID", Label: "Donor", Kind: Select, Value: formatRef(v.DonorID), Required: true, Choices: opts},
				{Name: "ContactInfo", Label: "Contact Info", Value: v.Contact()},
				{Name: "Amount", Label: "Amount", Kind: Number, Value: v.Amount, Required: true},
				{Name: "Date", Label: "Date", Kind: Date, Value: day(v.Date)},
				{Name: "Method", Label: "Method", Value: v.Method},
			}}
		},
		Payload: func(v Values, _ *models.Donation) api.Payload {
			return api.Payload{
				"DonorID":     v.Get("DonorID"),
				"ContactInfo": v.Get("ContactInfo"),
				"Amount":      v.Get("Amount"),
				"Date":        v.Get("Date"),
				"Method":      v.Get("Method"),
			}
		},
		Schema:       validate.Donation,
		CanAdd:       true,
		DeletePrompt: "Delete this donation?",
		LoadFailure:  "Failed to load donations.",
		Prepare:      dir.load,
	}
}

// VolunteerEntity describes the volunteers screen.
func VolunteerEntity() Entity[models.Volunteer] {
	return Entity[models.Volunteer]{
		Name:    "Volunteer",
		Title:   "Manage Volunteers",
		Columns: []string{"#", "VolunteerID", "Name", "ContactInfo", "JoinDate", "AssignedTasks"},
		Row: func(i int, v models.Volunteer) []string {
			return []string{itoa(i + 1), v.ID(), v.Name, v.ContactInfo, day(v.JoinDate), v.AssignedTasks}
		},
		ID: models.Volunteer.ID,
		Form: func(vol *models.Volunteer) Form {
			var v models.Volunteer
			if vol != nil {
				v = *vol
			}
			title, submit := formTitle("Volunteer", vol != nil)
			return Form{Title: title, Submit: submit, Fields: []Field{
				{Name: "Name", Label: "Name", Value: v.Name, Required: true},
				{Name: "ContactInfo", Label: "Contact Info", Value: v.ContactInfo},
				{Name: "JoinDate", Label: "Join Date", Kind: Date, Value: day(v.JoinDate)},
				{Name: "AssignedTasks", Label: "Assigned Tasks", Value: v.AssignedTasks},
			}}
		},
		Payload: func(v Values, _ *models.Volunteer) api.Payload {
			return api.Payload{
				"Name":          v.Get("Name"),
				"ContactInfo":   v.Get("ContactInfo"),
				"JoinDate":      v.Get("JoinDate"),
				"AssignedTasks": v.Get("AssignedTasks"),
			}
		},
		Schema:       validate.Volunteer,
		CanAdd:       true,
		DeletePrompt: "Delete this volunteer?",
		LoadFailure:  "Failed to load volunteers.",
	}
}

func formatRef(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
