// Package session keeps the console's login state: whether the admin is
// signed in and which site member, if any, is logged in.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// Storage keys.
const (
	KeyAdmin = "admin"
	KeyUser  = "user"

	adminTrue = "true"
)

// Page identifies a console screen for navigation decisions.
type Page string

const (
	PageHome     Page = "home"
	PageAdoption Page = "adoption"
	PageDonation Page = "donation"
	PageLogin    Page = "login"
	PageAdmin    Page = "admin"
)

// Session reads and writes login state in a Store.
type Session struct {
	store Store
	log   *zap.Logger
}

// New returns a Session over store.
func New(store Store, log *zap.Logger) *Session {
	return &Session{store: store, log: logger.OrNop(log)}
}

// CurrentUser returns the logged-in member, or nil. An unreadable entry
// counts as logged out.
func (s *Session) CurrentUser(ctx context.Context) *models.User {
	raw, ok, err := s.store.Get(ctx, KeyUser)
	if err != nil {
		s.log.Warn("session read failed", zap.String("key", KeyUser), zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn("session user is not valid JSON", zap.Error(err))
		return nil
	}
	return &u
}

// IsLoggedIn reports whether a site member is logged in.
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	return s.CurrentUser(ctx) != nil
}

// IsAdmin reports whether the admin flag is set.
func (s *Session) IsAdmin(ctx context.Context) bool {
	v, ok, err := s.store.Get(ctx, KeyAdmin)
	if err != nil {
		s.log.Warn("session read failed", zap.String("key", KeyAdmin), zap.Error(err))
		return false
	}
	return ok && v == adminTrue
}

// IsAnyLoggedIn reports whether a member or the admin is signed in.
func (s *Session) IsAnyLoggedIn(ctx context.Context) bool {
	return s.IsLoggedIn(ctx) || s.IsAdmin(ctx)
}

// LoginUser stores the member's name and e-mail.
func (s *Session) LoginUser(ctx context.Context, u models.User) error {
	b, err := json.Marshal(models.User{Name: u.Name, Email: u.Email})
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	return s.store.Set(ctx, KeyUser, string(b))
}

// LoginAdmin sets the admin flag.
func (s *Session) LoginAdmin(ctx context.Context) error {
	return s.store.Set(ctx, KeyAdmin, adminTrue)
}

// LogoutUser clears the member and returns the page to show next: the
// adoption form sends the visitor home, any other page is redisplayed.
func (s *Session) LogoutUser(ctx context.Context, current Page) (Page, error) {
	if err := s.store.Remove(ctx, KeyUser); err != nil {
		return current, err
	}
	if current == PageAdoption {
		return PageHome, nil
	}
	return current, nil
}

// LogoutAdmin clears the admin flag. The next page is always home.
func (s *Session) LogoutAdmin(ctx context.Context) (Page, error) {
	if err := s.store.Remove(ctx, KeyAdmin); err != nil {
		return PageAdmin, err
	}
	return PageHome, nil
}

// Role says who the navigation bar is rendered for.
type Role int

const (
	Guest Role = iota
	Member
	Admin
)

// Nav is the navigation bar view model.
type Nav struct {
	Role Role
	// Label replaces the "Login" link text.
	Label string
	// Target is the page the label links to; empty for a member.
	Target Page
	// ShowLogout is true when anyone is signed in.
	ShowLogout bool
}

// Nav builds the navigation bar. A logged-in member takes precedence over
// the admin flag.
func (s *Session) Nav(ctx context.Context) Nav {
	if u := s.CurrentUser(ctx); u != nil {
		return Nav{Role: Member, Label: u.Name, ShowLogout: true}
	}
	if s.IsAdmin(ctx) {
		return Nav{Role: Admin, Label: "Admin", Target: PageAdmin, ShowLogout: true}
	}
	return Nav{Role: Guest, Label: "Login", Target: PageLogin}
}

// Logout signs out whoever the navigation bar shows.
func (s *Session) Logout(ctx context.Context, current Page) (Page, error) {
	switch s.Nav(ctx).Role {
	case Member:
		return s.LogoutUser(ctx, current)
	case Admin:
		return s.LogoutAdmin(ctx)
	default:
		return current, nil
	}
}
