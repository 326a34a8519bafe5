// Package models defines the shelter records exchanged with the API.
//
// Field names and JSON keys follow the API verbatim (AnimalID, Name, ...).
// Identifiers are assigned by the API and never set locally.
package models

import "strconv"

// Animal is a shelter animal as listed by GET /api/animals.
type Animal struct {
	// AnimalID is the API-assigned identifier.
	AnimalID int64 `json:"AnimalID,omitempty"`
	// Name is the display name shown on cards and forms.
	Name string `json:"Name"`
	// Species such as "Cat" or "Dog".
	Species string `json:"Species"`
	Breed   string `json:"Breed,omitempty"`
	// Age in years; nil when unknown.
	Age         *int   `json:"Age,omitempty"`
	Gender      string `json:"Gender,omitempty"`
	ArrivalDate string `json:"ArrivalDate,omitempty"`
	// Status is free text, e.g. "Available" or "Adopted".
	Status string `json:"Status,omitempty"`
	// Featured marks animals promoted on the home page.
	Featured    bool   `json:"Featured,omitempty"`
	Description string `json:"Description,omitempty"`

	// ImageURL, ImageURLLower and SampleImageURL are aliases of the same
	// image reference. The cache normalizes them to one value.
	ImageURL       string `json:"ImageURL,omitempty"`
	ImageURLLower  string `json:"imageURL,omitempty"`
	SampleImageURL string `json:"SampleImageURL,omitempty"`
}

// ID returns the identifier in the string form used for lookups.
func (a Animal) ID() string { return formatID(a.AnimalID) }

// StatusAvailable is the status of animals open for adoption.
const StatusAvailable = "Available"

// MedicalRecord is a vet visit or treatment entry for one animal.
type MedicalRecord struct {
	RecordID int64 `json:"RecordID,omitempty"`
	// AnimalID references an existing Animal.
	AnimalID    int64  `json:"AnimalID"`
	Date        string `json:"Date,omitempty"`
	Description string `json:"Description,omitempty"`
	VetName     string `json:"VetName,omitempty"`
}

// ID returns the record identifier as a string.
func (m MedicalRecord) ID() string { return formatID(m.RecordID) }

// AdoptionStatus is the review state of an application.
type AdoptionStatus string

const (
	// AdoptionPending is the initial state of every application.
	AdoptionPending AdoptionStatus = "Pending"
	// AdoptionApproved marks an accepted application.
	AdoptionApproved AdoptionStatus = "Approved"
	// AdoptionRejected marks a declined application.
	AdoptionRejected AdoptionStatus = "Rejected"
)

// AdoptionStatuses lists the states in display order.
var AdoptionStatuses = []AdoptionStatus{AdoptionPending, AdoptionApproved, AdoptionRejected}

// AdoptionApplication is a request to adopt one animal.
//
// AnimalID and AnimalName are both submitted and must agree. Older API
// replies carry the public form's keys (adoptName, ...) instead of the
// canonical ones; the accessor methods fall back to those.
type AdoptionApplication struct {
	ApplicationID    int64          `json:"ApplicationID,omitempty"`
	AnimalID         int64          `json:"AnimalID"`
	AnimalName       string         `json:"AnimalName,omitempty"`
	ApplicantName    string         `json:"ApplicantName,omitempty"`
	ApplicantContact string         `json:"ApplicantContact,omitempty"`
	ApplicantAddress string         `json:"ApplicantAddress,omitempty"`
	ApplicationDate  string         `json:"ApplicationDate,omitempty"`
	Status           AdoptionStatus `json:"Status,omitempty"`

	LegacyAnimalName string `json:"adoptAnimalName,omitempty"`
	LegacyName       string `json:"adoptName,omitempty"`
	LegacyContact    string `json:"adoptContact,omitempty"`
	LegacyAddress    string `json:"adoptAddress,omitempty"`
}

// ID returns the application identifier as a string.
func (a AdoptionApplication) ID() string { return formatID(a.ApplicationID) }

// Animal returns the animal name, preferring the canonical field.
func (a AdoptionApplication) Animal() string { return firstNonEmpty(a.AnimalName, a.LegacyAnimalName) }

// Applicant returns the applicant name.
func (a AdoptionApplication) Applicant() string { return firstNonEmpty(a.ApplicantName, a.LegacyName) }

// Contact returns the applicant e-mail.
func (a AdoptionApplication) Contact() string {
	return firstNonEmpty(a.ApplicantContact, a.LegacyContact)
}

// Address returns the applicant postal address.
func (a AdoptionApplication) Address() string {
	return firstNonEmpty(a.ApplicantAddress, a.LegacyAddress)
}

// PublicAdoption is the payload of the public adoption form.
type PublicAdoption struct {
	Name       string `json:"adoptName"`
	AnimalID   string `json:"adoptAnimal"`
	AnimalName string `json:"adoptAnimalName"`
	Contact    string `json:"adoptContact"`
	Address    string `json:"adoptAddress"`
}

// Donor is a person or organisation that gave to the shelter.
type Donor struct {
	DonorID       int64  `json:"DonorID,omitempty"`
	Name          string `json:"Name"`
	ContactInfo   string `json:"ContactInfo,omitempty"`
	LegacyContact string `json:"donorContact,omitempty"`
}

// ID returns the donor identifier as a string.
func (d Donor) ID() string { return formatID(d.DonorID) }

// Contact returns the contact info, preferring the canonical field.
func (d Donor) Contact() string { return firstNonEmpty(d.ContactInfo, d.LegacyContact) }

// Donation is a single gift made by a Donor.
type Donation struct {
	DonationID int64 `json:"DonationID,omitempty"`
	// DonorID references an existing Donor.
	DonorID int64 `json:"DonorID"`
	// ContactInfo is a snapshot taken when the donation was recorded.
	ContactInfo   string `json:"ContactInfo,omitempty"`
	LegacyContact string `json:"donorContact,omitempty"`
	// Amount is a decimal string such as "25.00".
	Amount string `json:"Amount,omitempty"`
	Date   string `json:"Date,omitempty"`
	Method string `json:"Method,omitempty"`
}

// ID returns the donation identifier as a string.
func (d Donation) ID() string { return formatID(d.DonationID) }

// Contact returns the snapshot contact info.
func (d Donation) Contact() string { return firstNonEmpty(d.ContactInfo, d.LegacyContact) }

// PublicDonation is the payload of the public donation form.
type PublicDonation struct {
	DonorName    string `json:"donorName"`
	DonorContact string `json:"donorContact"`
	Amount       string `json:"donationAmount"`
}

// Volunteer is a registered helper.
type Volunteer struct {
	VolunteerID   int64  `json:"VolunteerID,omitempty"`
	Name          string `json:"Name"`
	ContactInfo   string `json:"ContactInfo,omitempty"`
	JoinDate      string `json:"JoinDate,omitempty"`
	AssignedTasks string `json:"AssignedTasks,omitempty"`
}

// ID returns the volunteer identifier as a string.
func (v Volunteer) ID() string { return formatID(v.VolunteerID) }

// User is a logged-in member of the public site.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Account is a stored user with a password hash. It never leaves the API.
type Account struct {
	User
	PasswordHash string `json:"-"`
	RegisterDate string `json:"-"`
}

// Result is the envelope of every write response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResult is the response of the user login endpoint.
type LoginResult struct {
	Result
	User *User `json:"user,omitempty"`
}

// Credentials is the body of the login endpoints.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Signup is the body of POST /api/users/signup.
type Signup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
