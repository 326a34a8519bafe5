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

// Login form texts.
const (
	MsgAdminRejected   = "Invalid username or password."
	MsgCredentialsReq  = "Email and password required."
	MsgSignupFieldsReq = "Name, email and password are required."
	MsgInvalidEmail    = "Invalid email address."
)

// AuthAPI is the sign-in part of the API. *api.Client satisfies it.
type AuthAPI interface {
	AdminLogin(ctx context.Context, username, password string) (models.Result, error)
	UserLogin(ctx context.Context, email, password string) (models.LoginResult, error)
	UserSignup(ctx context.Context, s models.Signup) (models.Result, error)
}

// Auth signs members and the admin in and out.
type Auth struct {
	api  AuthAPI
	sess *session.Session
	nav  *Navigator
	log  *zap.Logger
}

// NewAuth wires sign-in to the API and the session.
func NewAuth(a AuthAPI, s *session.Session, nav *Navigator, log *zap.Logger) *Auth {
	return &Auth{api: a, sess: s, nav: nav, log: logger.OrNop(log)}
}

// AdminLogin checks the admin credentials and sets the admin flag. On
// success the admin dashboard is the current page.
func (a *Auth) AdminLogin(ctx context.Context, username, password string) (screen.Message, error) {
	res, err := a.api.AdminLogin(ctx, username, password)
	if err == nil && !res.Success && res.Message == "" {
		res.Message = MsgAdminRejected
	}
	msg, err := reply(a.log, "admin login", res, err)
	if err != nil {
		return msg, err
	}
	if err := a.sess.LoginAdmin(ctx); err != nil {
		return screen.Message{Text: failure.GenericSubmitFailure, Tone: screen.Failure}, err
	}
	a.nav.Go(session.PageAdmin)
	a.log.Info("admin logged in")
	return msg, nil
}

// UserLogin signs a member in by e-mail. On success the visitor returns to
// the page that asked for the login, or the home page.
func (a *Auth) UserLogin(ctx context.Context, email, password string) (screen.Message, session.Page, error) {
	current := a.nav.Current()
	if email == "" || password == "" {
		return screen.Message{Text: MsgCredentialsReq, Tone: screen.Failure}, current,
			failure.NewValidation(failure.Invalid, "email", MsgCredentialsReq)
	}

	res, err := a.api.UserLogin(ctx, email, password)
	msg, err := reply(a.log, "user login", res.Result, err)
	if err != nil {
		return msg, current, err
	}
	if res.User == nil {
		return screen.Message{Text: failure.GenericSubmitFailure, Tone: screen.Failure}, current,
			failure.NewApplication("user login", "login reply carries no user")
	}
	if err := a.sess.LoginUser(ctx, *res.User); err != nil {
		return screen.Message{Text: failure.GenericSubmitFailure, Tone: screen.Failure}, current, err
	}

	next := a.nav.TakeRedirect(session.PageHome)
	a.nav.Go(next)
	return msg, next, nil
}

// Signup registers a member. It does not log them in.
func (a *Auth) Signup(ctx context.Context, s models.Signup) (screen.Message, error) {
	if err := validate.Payload(validate.Signup, s); err != nil {
		text := MsgSignupFieldsReq
		var fe *failure.Error
		if errors.As(err, &fe) && fe.Field == "email" && s.Email != "" {
			text = MsgInvalidEmail
		}
		return screen.Message{Text: text, Tone: screen.Failure}, err
	}
	res, err := a.api.UserSignup(ctx, s)
	return reply(a.log, "user signup", res, err)
}

// Logout signs out whoever is signed in and moves to the page that
// follows.
func (a *Auth) Logout(ctx context.Context) (session.Page, error) {
	next, err := a.sess.Logout(ctx, a.nav.Current())
	if err != nil {
		return a.nav.Current(), err
	}
	a.nav.Go(next)
	return next, nil
}

// Nav returns the navigation bar for the current session.
func (a *Auth) Nav(ctx context.Context) session.Nav {
	return a.sess.Nav(ctx)
}
