// Package cache holds the read-through animal list cache shared by the
// admin console and the public pages.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// DefaultTTL is how long a fetched list is served without re-fetching.
const DefaultTTL = 60 * time.Second

// DefaultFeaturedLimit caps the home page listing.
const DefaultFeaturedLimit = 5

// Fetcher loads the full animal list from the API.
type Fetcher interface {
	List(ctx context.Context) ([]models.Animal, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]models.Animal, error)

// List calls f.
func (f FetcherFunc) List(ctx context.Context) ([]models.Animal, error) { return f(ctx) }

// Cache is a time-boxed copy of the animal list.
//
// The list is replaced as a whole on every successful fetch and never
// patched. Concurrent misses each go to the network.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	onHome  func() bool
	log     *zap.Logger

	mu        sync.Mutex
	animals   []models.Animal
	lastFetch time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithHomePage reports whether the caller is currently on the home page.
// Every fetch made from the home page goes to the network.
func WithHomePage(onHome func() bool) Option {
	return func(c *Cache) { c.onHome = onHome }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) { c.log = logger.OrNop(log) }
}

// New returns an empty cache in front of f.
func New(f Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: f,
		ttl:     DefaultTTL,
		now:     time.Now,
		onHome:  func() bool { return false },
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the animal list, going to the network when force is set,
// when on the home page, when nothing is cached, or when the cached list is
// at least TTL old. A failed fetch falls back to the cached list, however
// old; with nothing cached the error is returned.
//
// Forced and home-page fetches do not drop the cached list first: the list
// is replaced only once the new one arrives, so they fall back to it too.
// Call Clear to make a failed fetch return its error.
func (c *Cache) Fetch(ctx context.Context, force bool) ([]models.Animal, error) {
	now := c.now()
	home := c.onHome()

	c.mu.Lock()
	cached := c.animals
	fresh := cached != nil && now.Sub(c.lastFetch) < c.ttl
	c.mu.Unlock()

	if !force && !home && fresh {
		c.log.Debug("using cached animal data", zap.Int("count", len(cached)))
		return cached, nil
	}

	c.log.Debug("fetching fresh animal data", zap.Bool("force", force), zap.Bool("home", home))
	animals, err := c.fetcher.List(ctx)
	if err != nil {
		c.mu.Lock()
		cached = c.animals
		c.mu.Unlock()
		if cached != nil {
			c.log.Warn("animal fetch failed, serving cached list", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	if animals == nil {
		animals = []models.Animal{}
	}
	for i := range animals {
		normalizeImage(&animals[i])
	}

	c.mu.Lock()
	c.animals, c.lastFetch = animals, now
	c.mu.Unlock()
	return animals, nil
}

// Clear drops the cached list so the next Fetch goes to the network.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.animals, c.lastFetch = nil, time.Time{}
	c.mu.Unlock()
	c.log.Debug("animal cache cleared")
}

// IsEmpty reports whether no list is cached.
func (c *Cache) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.animals == nil
}

// ByID returns the animal with the given id, or nil when it is absent or
// the list cannot be loaded.
func (c *Cache) ByID(ctx context.Context, id string) *models.Animal {
	animals, err := c.Fetch(ctx, false)
	if err != nil {
		c.log.Warn("error getting animal by id", zap.String("id", id), zap.Error(err))
		return nil
	}
	for i := range animals {
		if animals[i].ID() == id {
			a := animals[i]
			return &a
		}
	}
	return nil
}

// Featured returns up to limit animals for the home page: those marked
// Featured first, then available ones. A load failure yields an empty list.
func (c *Cache) Featured(ctx context.Context, limit int) []models.Animal {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	animals, err := c.Fetch(ctx, false)
	if err != nil {
		c.log.Warn("error getting featured animals", zap.Error(err))
		return []models.Animal{}
	}

	featured := make([]models.Animal, 0, limit)
	for _, a := range animals {
		if a.Featured {
			featured = append(featured, a)
		}
	}
	for _, a := range animals {
		if len(featured) >= limit {
			break
		}
		if !a.Featured && a.Status == models.StatusAvailable {
			featured = append(featured, a)
		}
	}
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

// normalizeImage copies the first non-empty image alias into all three.
func normalizeImage(a *models.Animal) {
	url := a.ImageURL
	if url == "" {
		url = a.ImageURLLower
	}
	if url == "" {
		url = a.SampleImageURL
	}
	a.ImageURL, a.ImageURLLower, a.SampleImageURL = url, url, url
}
