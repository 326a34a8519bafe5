package console

import (
	"fmt"
	"strings"

	"github.com/atinyakov/ShelterDesk/internal/client/portal"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// ShowNav renders the navigation bar.
func (t *Terminal) ShowNav(n session.Nav) {
	items := []string{"home", "adopt", "donate", n.Label}
	if n.ShowLogout {
		items = append(items, "logout")
	}
	t.println(t.styles.Muted.Render(strings.Join(items, " | ")))
}

// ShowCards renders animal cards under title, or empty when there are none.
func (t *Terminal) ShowCards(title, empty string, cards []portal.Card) {
	if title != "" {
		t.println(t.styles.Title.Render(title))
	}
	if len(cards) == 0 && empty != "" {
		t.println(t.styles.Muted.Render(empty))
		return
	}
	for _, c := range cards {
		name := t.styles.Header.UnsetPadding().Render(c.Name)
		if c.Featured {
			name += " " + t.styles.Success.Render("[Featured]")
		}
		t.println(fmt.Sprintf("#%s %s", c.ID, name))
		t.println("  " + c.Kind)
		t.println("  " + c.Text)
		for _, d := range c.Details {
			t.println(fmt.Sprintf("  %s: %s", d.Label, d.Value))
		}
		t.println(t.styles.Muted.Render("  Adopt Me: " + c.AdoptLink))
	}
}

// ShowPreview renders the animal an adoption form is for.
func (t *Terminal) ShowPreview(a *models.Animal) {
	if a == nil {
		return
	}
	t.println(t.styles.Success.Render("You're adopting: " + a.Name))
	species := a.Species
	if species == "" {
		species = "Unknown"
	}
	t.println("  Species: " + species)
	if a.Breed != "" {
		t.println("  Breed: " + a.Breed)
	}
	if a.Age != nil && *a.Age != 0 {
		t.println(fmt.Sprintf("  Age: %d", *a.Age))
	}
	if a.Gender != "" {
		t.println("  Gender: " + a.Gender)
	}
	if a.Description != "" {
		t.println("  Description: " + a.Description)
	}
}
