package portal

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/client/screen"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/client/validate"
	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// Donation form texts, worded as the API words them.
const (
	MsgDonationRequired = "Name and amount are required."
	MsgDonationAmount   = "Invalid donation amount."
)

// DonationAPI submits public donations. *api.Client satisfies it.
type DonationAPI interface {
	SubmitDonation(ctx context.Context, d models.PublicDonation) (models.Result, error)
}

// DonationForm is the public donation form. It needs no login.
type DonationForm struct {
	api DonationAPI
	nav *Navigator
	log *zap.Logger
}

// NewDonationForm returns the form over a.
func NewDonationForm(a DonationAPI, nav *Navigator, log *zap.Logger) *DonationForm {
	return &DonationForm{api: a, nav: nav, log: logger.OrNop(log)}
}

// Open shows the empty form.
func (f *DonationForm) Open() screen.Form {
	f.nav.Go(session.PageDonation)
	return screen.Form{Title: "Make a Donation", Submit: "Donate", Fields: []screen.Field{
		{Name: "donorName", Label: "Your Name", Required: true},
		{Name: "donorContact", Label: "Email or Phone"},
		{Name: "donationAmount", Label: "Amount", Kind: screen.Number, Required: true},
	}}
}

// Submit checks and posts one donation.
func (f *DonationForm) Submit(ctx context.Context, v screen.Values) (screen.Message, error) {
	d := models.PublicDonation{
		DonorName:    v.Get("donorName"),
		DonorContact: v.Get("donorContact"),
		Amount:       v.Get("donationAmount"),
	}
	if err := validate.Payload(validate.PublicDonation, d); err != nil {
		text := MsgDonationRequired
		var fe *failure.Error
		if errors.As(err, &fe) && fe.Field == "donationAmount" && d.Amount != "" {
			text = MsgDonationAmount
		}
		return screen.Message{Text: text, Tone: screen.Failure}, err
	}

	res, err := f.api.SubmitDonation(ctx, d)
	return reply(f.log, "submit donation", res, err)
}
