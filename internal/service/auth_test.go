package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/ShelterDesk/internal/models"
	"github.com/atinyakov/ShelterDesk/internal/repository"
)

type mockUserRepo struct {
	CreateUserFunc  func(ctx context.Context, a models.Account) (int64, error)
	UserByEmailFunc func(ctx context.Context, email string) (models.Account, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, a models.Account) (int64, error) {
	return m.CreateUserFunc(ctx, a)
}

func (m *mockUserRepo) UserByEmail(ctx context.Context, email string) (models.Account, error) {
	return m.UserByEmailFunc(ctx, email)
}

func newAuth(repo UserRepository) *AuthService {
	return NewAuthService(repo, "admin", "password", nil, WithHashCost(bcrypt.MinCost))
}

func TestAdminLogin(t *testing.T) {
	s := newAuth(repository.NewMemory())

	assert.NoError(t, s.AdminLogin(models.Credentials{Username: "admin", Password: "password"}))
	requireCode(t, s.AdminLogin(models.Credentials{Username: "admin", Password: "nope"}),
		CodeUnauthorized, "Invalid username or password.")
	requireCode(t, s.AdminLogin(models.Credentials{}), CodeUnauthorized, "Invalid username or password.")
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newAuth(repository.NewMemory())

	msg, err := s.Signup(ctx, models.Signup{Name: "Ann", Email: "ann@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully. Please login.", msg)

	_, err = s.Signup(ctx, models.Signup{Name: "Ann", Email: "ann@example.com", Password: "other"})
	requireCode(t, err, CodeInvalid, "Email already registered. Please login.")

	u, err := s.Login(ctx, "ann@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: 1, Name: "Ann", Email: "ann@example.com"}, u)

	_, err = s.Login(ctx, "ann@example.com", "wrong")
	requireCode(t, err, CodeUnauthorized, "Invalid email or password.")
	_, err = s.Login(ctx, "bo@example.com", "s3cret")
	requireCode(t, err, CodeUnauthorized, "Invalid email or password.")
	_, err = s.Login(ctx, "", "s3cret")
	requireCode(t, err, CodeInvalid, "Email and password required.")
}

func TestSignup_MissingFields(t *testing.T) {
	s := newAuth(repository.NewMemory())
	_, err := s.Signup(context.Background(), models.Signup{Name: "Ann", Password: "x"})
	requireCode(t, err, CodeInvalid, "email is required.")
}

func TestSignup_StoresHash(t *testing.T) {
	var stored models.Account
	repo := &mockUserRepo{
		UserByEmailFunc: func(context.Context, string) (models.Account, error) {
			return models.Account{}, repository.ErrNotFound
		},
		CreateUserFunc: func(_ context.Context, a models.Account) (int64, error) {
			stored = a
			return 1, nil
		},
	}
	_, err := newAuth(repo).Signup(context.Background(), models.Signup{Name: "Ann", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw")))
}

func TestSignup_RepositoryErrors(t *testing.T) {
	repo := &mockUserRepo{
		UserByEmailFunc: func(context.Context, string) (models.Account, error) {
			return models.Account{}, repository.ErrNotFound
		},
		CreateUserFunc: func(context.Context, models.Account) (int64, error) {
			return 0, repository.ErrDuplicate
		},
	}
	_, err := newAuth(repo).Signup(context.Background(), models.Signup{Name: "Ann", Email: "a@b.c", Password: "pw"})
	requireCode(t, err, CodeInvalid, "Email already registered. Please login.")

	repo.UserByEmailFunc = func(context.Context, string) (models.Account, error) {
		return models.Account{}, errors.New("db down")
	}
	_, err = newAuth(repo).Signup(context.Background(), models.Signup{Name: "Ann", Email: "a@b.c", Password: "pw"})
	requireCode(t, err, CodeInternal, "Error: db down")

	_, err = newAuth(repo).Login(context.Background(), "a@b.c", "pw")
	requireCode(t, err, CodeInternal, "Error: db down")
}
