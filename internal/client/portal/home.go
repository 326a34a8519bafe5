package portal

import (
	"context"

	"github.com/atinyakov/ShelterDesk/internal/client/cache"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
)

// Home is the landing page.
type Home struct {
	cache *cache.Cache
	nav   *Navigator
}

// NewHome returns the home page over c. The cache should be built with
// cache.WithHomePage(nav.OnHome) so the listing is always fresh.
func NewHome(c *cache.Cache, nav *Navigator) *Home {
	return &Home{cache: c, nav: nav}
}

// Featured shows the home page and returns up to limit cards, featured
// animals first. A limit below one means cache.DefaultFeaturedLimit.
func (h *Home) Featured(ctx context.Context, limit int) []Card {
	h.nav.Go(session.PageHome)
	if limit < 1 {
		limit = cache.DefaultFeaturedLimit
	}
	animals := h.cache.Featured(ctx, limit)
	cards := make([]Card, 0, len(animals))
	for _, a := range animals {
		cards = append(cards, NewCard(a, false))
	}
	return cards
}
