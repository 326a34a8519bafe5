package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func stores(t *testing.T) map[string]Store {
	client, _ := setupRedis(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "session.json")),
		"redis":  NewRedisStore(client, ""),
	}
}

func TestSession_UserLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(store, nil)

			assert.Nil(t, s.CurrentUser(ctx))
			assert.False(t, s.IsAnyLoggedIn(ctx))

			require.NoError(t, s.LoginUser(ctx, models.User{ID: 4, Name: "Ann", Email: "ann@example.com"}))
			u := s.CurrentUser(ctx)
			require.NotNil(t, u)
			assert.Equal(t, "Ann", u.Name)
			assert.Equal(t, "ann@example.com", u.Email)
			assert.Zero(t, u.ID)
			assert.True(t, s.IsLoggedIn(ctx))
			assert.False(t, s.IsAdmin(ctx))

			next, err := s.LogoutUser(ctx, PageAdoption)
			require.NoError(t, err)
			assert.Equal(t, PageHome, next)
			assert.False(t, s.IsLoggedIn(ctx))
		})
	}
}

func TestSession_AdminLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(store, nil)

			require.NoError(t, s.LoginAdmin(ctx))
			assert.True(t, s.IsAdmin(ctx))
			assert.True(t, s.IsAnyLoggedIn(ctx))

			next, err := s.LogoutAdmin(ctx)
			require.NoError(t, err)
			assert.Equal(t, PageHome, next)
			assert.False(t, s.IsAdmin(ctx))
		})
	}
}

func TestLogoutUser_StaysOnOtherPages(t *testing.T) {
	s := New(NewMemoryStore(), nil)
	ctx := context.Background()
	require.NoError(t, s.LoginUser(ctx, models.User{Name: "Ann"}))

	next, err := s.LogoutUser(ctx, PageDonation)
	require.NoError(t, err)
	assert.Equal(t, PageDonation, next)
}

func TestIsAdmin_OnlyExactTrue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyAdmin, "yes"))

	assert.False(t, New(store, nil).IsAdmin(ctx))
}

func TestCurrentUser_CorruptEntry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyUser, "{not json"))

	assert.Nil(t, New(store, nil).CurrentUser(ctx))
}

func TestNav(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore(), nil)

	assert.Equal(t, Nav{Role: Guest, Label: "Login", Target: PageLogin}, s.Nav(ctx))

	require.NoError(t, s.LoginAdmin(ctx))
	assert.Equal(t, Nav{Role: Admin, Label: "Admin", Target: PageAdmin, ShowLogout: true}, s.Nav(ctx))

	require.NoError(t, s.LoginUser(ctx, models.User{Name: "Ann"}))
	assert.Equal(t, Nav{Role: Member, Label: "Ann", ShowLogout: true}, s.Nav(ctx))

	// the member is signed out first, the admin flag survives
	_, err := s.Logout(ctx, PageHome)
	require.NoError(t, err)
	assert.Equal(t, Admin, s.Nav(ctx).Role)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Set(ctx, KeyAdmin, "true"))

	v, ok, err := NewFileStore(path).Get(ctx, KeyAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json"), 0600))

	_, _, err := NewFileStore(path).Get(context.Background(), KeyUser)
	assert.Error(t, err)
}

func TestRedisStore_Prefix(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()
	store := NewRedisStore(client, "kiosk1:")

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Set(ctx, KeyAdmin, "true"))

	got, err := mr.Get("kiosk1:admin")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	require.NoError(t, store.Remove(ctx, KeyAdmin))
	assert.False(t, mr.Exists("kiosk1:admin"))
	assert.Zero(t, mr.TTL("kiosk1:admin"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	client, mr := setupRedis(t)
	mr.Close()

	s := New(NewRedisStore(client, ""), nil)
	assert.False(t, s.IsAdmin(context.Background()))
	assert.Error(t, s.LoginAdmin(context.Background()))
}
