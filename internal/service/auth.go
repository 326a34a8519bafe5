package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
	"github.com/atinyakov/ShelterDesk/internal/repository"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// CreateUser stores a new account and returns its id.
	// Returns repository.ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, a models.Account) (int64, error)
	// UserByEmail returns the account or repository.ErrNotFound.
	UserByEmail(ctx context.Context, email string) (models.Account, error)
}

// AuthService checks the fixed admin credentials and manages public site
// accounts.
type AuthService struct {
	repo          UserRepository
	adminUser     string
	adminPassword string
	hashCost      int
	log           *zap.Logger
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithHashCost sets the bcrypt cost of new password hashes.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

// NewAuthService constructs an AuthService. log may be nil.
func NewAuthService(repo UserRepository, adminUser, adminPassword string, log *zap.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:          repo,
		adminUser:     adminUser,
		adminPassword: adminPassword,
		hashCost:      bcrypt.DefaultCost,
		log:           logger.OrNop(log),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AdminLogin checks c against the configured admin credentials.
func (s *AuthService) AdminLogin(c models.Credentials) error {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		return &Error{Code: CodeUnauthorized, Message: "Invalid username or password."}
	}
	return nil
}

// Signup registers a new account with a hashed password.
func (s *AuthService) Signup(ctx context.Context, in models.Signup) (string, error) {
	for _, f := range []struct{ name, value string }{
		{"name", in.Name}, {"email", in.Email}, {"password", in.Password},
	} {
		if f.value == "" {
			return "", invalid("%s is required.", f.name)
		}
	}

	_, err := s.repo.UserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return "", invalid("Email already registered. Please login.")
	case !errors.Is(err, repository.ErrNotFound):
		return "", s.fail("signup", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return "", s.fail("signup", err)
	}
	acc := models.Account{User: models.User{Name: in.Name, Email: in.Email}, PasswordHash: string(hash)}
	if _, err := s.repo.CreateUser(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", invalid("Email already registered. Please login.")
		}
		return "", s.fail("signup", err)
	}
	return "User registered successfully. Please login.", nil
}

// Login returns the account matching email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, invalid("Email and password required.")
	}
	rejected := &Error{Code: CodeUnauthorized, Message: "Invalid email or password."}

	acc, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, rejected
	}
	if err != nil {
		return models.User{}, s.fail("login", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return models.User{}, rejected
	}
	return acc.User, nil
}

func (s *AuthService) fail(op string, err error) error {
	s.log.Error("auth failure", zap.String("op", op), zap.Error(err))
	return internal(err)
}
