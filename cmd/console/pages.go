package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/ShelterDesk/internal/client/portal"
	"github.com/atinyakov/ShelterDesk/internal/client/screen"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

func homeCmd(a func() *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show the featured animals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a().showHome(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of animals to show")
	return cmd
}

func (a *app) showHome(ctx context.Context, limit int) error {
	cards := a.home.Featured(ctx, limit)
	a.term.ShowNav(a.auth.Nav(ctx))
	a.term.ShowCards("Meet Our Animals", "No animals available at the moment.", cards)
	return nil
}

func adoptCmd(a func() *app) *cobra.Command {
	var id, name, link string
	cmd := &cobra.Command{
		Use:   "adopt",
		Short: "Apply to adopt an animal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if link != "" {
				var err error
				if id, name, err = portal.ParseAdoptLink(link); err != nil {
					return err
				}
			}
			return a().adopt(cmd.Context(), id, name)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "animal id")
	cmd.Flags().StringVar(&name, "name", "", "animal name")
	cmd.Flags().StringVar(&link, "link", "", "adopt link copied from an animal card")
	return cmd
}

func (a *app) adopt(ctx context.Context, id, name string) error {
	page, err := a.adoption.Open(ctx, id, name)
	if errors.Is(err, portal.ErrLoginRequired) {
		a.term.Alert(portal.MsgAdoptLoginRequired)
		if next, err := a.userLogin(ctx); err != nil || next != session.PageAdoption {
			return err
		}
		page, err = a.adoption.Open(ctx, id, name)
	}
	if err != nil {
		return reported(err)
	}

	a.term.ShowNav(a.auth.Nav(ctx))
	for {
		if page.NameError != "" {
			a.term.FlagField("adoptAnimalName", page.NameError)
		}
		a.term.ShowPreview(page.Preview)
		v, ok, err := a.term.ShowForm(ctx, page.Form())
		a.term.ClearFlags()
		if err != nil || !ok {
			return err
		}

		draft := portal.DraftFrom(v)
		msg, err := a.adoption.Submit(ctx, draft)
		a.term.ShowMessage(msg)
		if err == nil {
			break
		}
		if !retryable(err) {
			return reported(err)
		}
		page.Draft = draft
		page.Preview, page.NameError = a.adoption.Resolve(ctx, draft.AnimalID, draft.AnimalName)
	}

	a.term.ShowCards("Other Animals", page.Notice, page.Others)
	return nil
}

func donateCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "donate",
		Short: "Make a donation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a().donate(cmd.Context())
		},
	}
}

func (a *app) donate(ctx context.Context) error {
	form := a.donation.Open()
	a.term.ShowNav(a.auth.Nav(ctx))
	for {
		v, ok, err := a.term.ShowForm(ctx, form)
		if err != nil || !ok {
			return err
		}
		msg, err := a.donation.Submit(ctx, v)
		a.term.ShowMessage(msg)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return reported(err)
		}
		for i := range form.Fields {
			form.Fields[i].Value = v[form.Fields[i].Name]
		}
	}
}

func loginCmd(a func() *app) *cobra.Command {
	var admin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a member, or as the admin with --admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if admin {
				_, err := a().adminLogin(cmd.Context())
				return err
			}
			_, err := a().userLogin(cmd.Context())
			return err
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "log in to the admin dashboard")
	return cmd
}

// userLogin prompts for member credentials and returns the page to show
// next.
func (a *app) userLogin(ctx context.Context) (session.Page, error) {
	if a.nav.Current() != session.PageAdoption {
		a.nav.Go(session.PageLogin)
	}
	v, ok, err := a.term.ShowForm(ctx, screen.Form{Title: "Login", Submit: "Login", Fields: []screen.Field{
		{Name: "email", Label: "Email", Kind: screen.Email, Required: true},
		{Name: "password", Label: "Password", Required: true},
	}})
	if err != nil || !ok {
		return a.nav.Current(), err
	}
	msg, next, err := a.auth.UserLogin(ctx, v.Get("email"), v.Get("password"))
	a.term.ShowMessage(msg)
	return next, reported(err)
}

// adminLogin prompts for the admin credentials. It reports whether the
// admin is signed in afterwards.
func (a *app) adminLogin(ctx context.Context) (bool, error) {
	a.nav.Go(session.PageLogin)
	v, ok, err := a.term.ShowForm(ctx, screen.Form{Title: "Admin Login", Submit: "Login", Fields: []screen.Field{
		{Name: "username", Label: "Username", Required: true},
		{Name: "password", Label: "Password", Required: true},
	}})
	if err != nil || !ok {
		return false, err
	}
	msg, err := a.auth.AdminLogin(ctx, v.Get("username"), v.Get("password"))
	if err != nil {
		a.term.ShowMessage(msg)
		return false, reported(err)
	}
	if msg.Text != "" {
		a.term.ShowMessage(msg)
	}
	return true, nil
}

func signupCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a member account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a().signup(cmd.Context())
		},
	}
}

func (a *app) signup(ctx context.Context) error {
	v, ok, err := a.term.ShowForm(ctx, screen.Form{Title: "Sign Up", Submit: "Sign Up", Fields: []screen.Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "email", Label: "Email", Kind: screen.Email, Required: true},
		{Name: "password", Label: "Password", Required: true},
	}})
	if err != nil || !ok {
		return err
	}
	msg, err := a.auth.Signup(ctx, models.Signup{Name: v.Get("name"), Email: v.Get("email"), Password: v.Get("password")})
	a.term.ShowMessage(msg)
	return reported(err)
}

func logoutCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out whoever is signed in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			next, err := a().auth.Logout(cmd.Context())
			if err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			cmd.Printf("Signed out. Next: %s\n", next)
			return nil
		},
	}
}

// retryable reports whether the form should be shown again: the input was
// rejected before it reached the API.
func retryable(err error) bool {
	return failure.KindOf(err) == failure.Validation
}

// reported drops failures whose message the user has already seen.
func reported(err error) error {
	if err == nil || errors.Is(err, portal.ErrLoginRequired) || failure.KindOf(err) != failure.Unknown {
		return nil
	}
	return err
}
