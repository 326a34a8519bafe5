package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/client/cache"
	"github.com/atinyakov/ShelterDesk/internal/client/screen"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/client/validate"
	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// Adoption page texts.
const (
	MsgAdoptLoginRequired = "You must be logged in to submit an adoption application."
	MsgAnimalsLoadFailed  = "Error loading animals. Please try again later."
	MsgNoOtherAnimals     = "No other animals available at the moment."

	maxOtherAnimals = 4
)

// AdoptionAPI submits public adoption applications. *api.Client satisfies it.
type AdoptionAPI interface {
	SubmitAdoption(ctx context.Context, a models.PublicAdoption) (models.Result, error)
}

// AdoptionDraft holds the adoption form fields.
type AdoptionDraft struct {
	AnimalID   string
	AnimalName string
	Name       string
	Contact    string
	Address    string
}

// AdoptionPage is the adoption form as opened.
type AdoptionPage struct {
	Draft AdoptionDraft
	// Preview is the resolved animal, nil while the id and name disagree.
	Preview *models.Animal
	// NameError explains why the id and name disagree.
	NameError string
	// Others lists other available animals.
	Others []Card
	// Notice replaces Others when there is nothing to list or the animals
	// could not be loaded.
	Notice string
}

// AdoptionForm is the member-only adoption application form.
type AdoptionForm struct {
	animals *cache.Cache
	api     AdoptionAPI
	sess    *session.Session
	nav     *Navigator
	log     *zap.Logger
}

// NewAdoptionForm wires the form to the animal cache, the API and the session.
func NewAdoptionForm(c *cache.Cache, a AdoptionAPI, s *session.Session, nav *Navigator, log *zap.Logger) *AdoptionForm {
	return &AdoptionForm{animals: c, api: a, sess: s, nav: nav, log: logger.OrNop(log)}
}

// Open shows the form, optionally pre-filled from an adopt link's id and
// name. Visitors who are not logged in get ErrLoginRequired and are sent
// back here after they log in.
func (f *AdoptionForm) Open(ctx context.Context, id, name string) (AdoptionPage, error) {
	f.nav.Go(session.PageAdoption)
	if !f.sess.IsLoggedIn(ctx) {
		f.nav.RememberRedirect(session.PageAdoption)
		return AdoptionPage{}, ErrLoginRequired
	}

	var page AdoptionPage
	if u := f.sess.CurrentUser(ctx); u != nil {
		page.Draft.Name, page.Draft.Contact = u.Name, u.Email
	}

	list, err := f.animals.Fetch(ctx, false)
	if err != nil {
		f.log.Warn("load animals for adoption form", zap.Error(err))
		page.Notice = MsgAnimalsLoadFailed
		page.Draft.AnimalID, page.Draft.AnimalName = strings.TrimSpace(id), name
		return page, nil
	}

	if id = strings.TrimSpace(id); id != "" {
		page.Draft.AnimalID = id
		if a := find(list, id); a != nil {
			page.Draft.AnimalName = a.Name
		} else {
			page.Draft.AnimalName = name
		}
		page.Preview, page.NameError = resolve(list, page.Draft.AnimalID, page.Draft.AnimalName)
	}

	page.Others = others(list, page.Draft.AnimalID)
	if len(page.Others) == 0 {
		page.Notice = MsgNoOtherAnimals
	}
	return page, nil
}

// Resolve checks id and name against the animal list as the visitor types.
// It returns the animal to preview, or the reason the pair is rejected.
func (f *AdoptionForm) Resolve(ctx context.Context, id, name string) (*models.Animal, string) {
	list, err := f.animals.Fetch(ctx, false)
	if err != nil {
		list = nil
	}
	return resolve(list, id, name)
}

// Submit validates the draft and posts it. The logged-in member's name and
// e-mail replace whatever was typed. The returned message is what the form
// shows; a non-nil error classifies a failed submission.
func (f *AdoptionForm) Submit(ctx context.Context, d AdoptionDraft) (screen.Message, error) {
	u := f.sess.CurrentUser(ctx)
	if u == nil {
		return screen.Message{Text: MsgAdoptLoginRequired, Tone: screen.Failure}, ErrLoginRequired
	}

	list, err := f.animals.Fetch(ctx, false)
	if err != nil {
		list = nil
	}
	if _, err := matchAnimal(list, d.AnimalID, d.AnimalName); err != nil {
		return screen.Message{Text: validate.MsgMustMatch, Tone: screen.Failure}, err
	}

	payload := models.PublicAdoption{
		Name:       u.Name,
		AnimalID:   strings.TrimSpace(d.AnimalID),
		AnimalName: d.AnimalName,
		Contact:    u.Email,
		Address:    d.Address,
	}
	if err := validate.Payload(validate.PublicAdoption, payload); err != nil {
		return screen.Message{Text: missingField(err), Tone: screen.Failure}, err
	}

	res, err := f.api.SubmitAdoption(ctx, payload)
	return reply(f.log, "submit adoption", res, err)
}

// reply turns an API answer into a form's response line.
func reply(log *zap.Logger, op string, res models.Result, err error) (screen.Message, error) {
	if err != nil {
		log.Warn(op+" failed", zap.Error(err))
		return screen.Message{Text: failure.GenericSubmitFailure, Tone: screen.Failure}, err
	}
	text := res.Message
	if text == "" {
		text = failure.NoServerMessage
	}
	if !res.Success {
		return screen.Message{Text: text, Tone: screen.Failure}, failure.NewApplication(op, res.Message)
	}
	return screen.Message{Text: text, Tone: screen.Success}, nil
}

// Form renders the page's draft as a form.
func (p AdoptionPage) Form() screen.Form {
	d := p.Draft
	return screen.Form{Title: "Adoption Application", Submit: "Submit Application", Fields: []screen.Field{
		{Name: "adoptAnimal", Label: "Animal ID", Kind: screen.Number, Value: d.AnimalID, Required: true},
		{Name: "adoptAnimalName", Label: "Animal Name", Value: d.AnimalName, Required: true},
		{Name: "adoptName", Label: "Your Name", Value: d.Name, Required: true},
		{Name: "adoptContact", Label: "Email", Kind: screen.Email, Value: d.Contact, Required: true},
		{Name: "adoptAddress", Label: "Address", Value: d.Address, Required: true},
	}}
}

// DraftFrom reads a submitted adoption form.
func DraftFrom(v screen.Values) AdoptionDraft {
	return AdoptionDraft{
		AnimalID:   v.Get("adoptAnimal"),
		AnimalName: v.Get("adoptAnimalName"),
		Name:       v.Get("adoptName"),
		Contact:    v.Get("adoptContact"),
		Address:    v.Get("adoptAddress"),
	}
}

func matchAnimal(list []models.Animal, id, name string) (models.Animal, error) {
	return validate.Match(id, name, list, models.Animal.ID, func(a models.Animal) string { return a.Name })
}

func resolve(list []models.Animal, id, name string) (*models.Animal, string) {
	a, err := matchAnimal(list, id, name)
	if err != nil {
		var fe *failure.Error
		if errors.As(err, &fe) {
			return nil, fe.Message
		}
		return nil, err.Error()
	}
	return &a, ""
}

func find(list []models.Animal, id string) *models.Animal {
	for i := range list {
		if list[i].ID() == id {
			return &list[i]
		}
	}
	return nil
}

// others returns available animals other than the one with id, at most
// maxOtherAnimals of them.
func others(list []models.Animal, id string) []Card {
	var cards []Card
	for _, a := range list {
		if a.Status != models.StatusAvailable || a.ID() == id {
			continue
		}
		cards = append(cards, NewCard(a, false))
		if len(cards) == maxOtherAnimals {
			break
		}
	}
	return cards
}

// missingField words a schema failure the way the API does.
func missingField(err error) string {
	var fe *failure.Error
	if errors.As(err, &fe) && fe.Field != "" {
		return fmt.Sprintf("Missing field: %s", fe.Field)
	}
	return failure.UserMessage(err)
}
