// Package portal implements the public side of the shelter site: the home
// page listing, animal cards, the adoption and donation forms, and member
// and admin sign-in.
package portal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// ErrLoginRequired is returned when a member-only page is opened or
// submitted by a visitor who is not logged in.
var ErrLoginRequired = errors.New("portal: login required")

// Navigator tracks the page the visitor is on. The animal cache asks it
// whether the home page is showing.
type Navigator struct {
	mu       sync.Mutex
	page     session.Page
	redirect session.Page
}

// NewNavigator starts on the home page.
func NewNavigator() *Navigator {
	return &Navigator{page: session.PageHome}
}

// Go records p as the current page.
func (n *Navigator) Go(p session.Page) {
	n.mu.Lock()
	n.page = p
	n.mu.Unlock()
}

// Current returns the current page.
func (n *Navigator) Current() session.Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

// OnHome reports whether the home page is showing.
func (n *Navigator) OnHome() bool {
	return n.Current() == session.PageHome
}

// RememberRedirect stores the page to return to after the next login.
func (n *Navigator) RememberRedirect(p session.Page) {
	n.mu.Lock()
	n.redirect = p
	n.mu.Unlock()
}

// TakeRedirect returns and forgets the stored page, or fallback if none.
func (n *Navigator) TakeRedirect(fallback session.Page) session.Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.redirect
	n.redirect = ""
	if p == "" {
		return fallback
	}
	return p
}

// Card is the display model of one animal.
type Card struct {
	ID       string
	Name     string
	Kind     string
	Text     string
	Featured bool
	// Details holds Age, Gender and Status when the card is detailed.
	Details []Detail
	// AdoptLink opens the adoption form for this animal.
	AdoptLink string
}

// Detail is one labelled line of a detailed card.
type Detail struct {
	Label string
	Value string
}

const unknown = "Unknown"

// NewCard builds the card for a. Missing values read "Unknown".
func NewCard(a models.Animal, detailed bool) Card {
	kind := a.Species
	if kind == "" {
		kind = unknown
	}
	if a.Breed != "" {
		kind += " (" + a.Breed + ")"
	}

	text := a.Description
	if text == "" {
		species := "pet"
		if a.Species != "" {
			species = strings.ToLower(a.Species)
		}
		text = fmt.Sprintf("A lovely %s looking for a forever home.", species)
	}

	c := Card{
		ID:        a.ID(),
		Name:      a.Name,
		Kind:      kind,
		Text:      text,
		Featured:  a.Featured,
		AdoptLink: AdoptLink(a),
	}
	if detailed {
		age := unknown
		if a.Age != nil && *a.Age != 0 {
			age = fmt.Sprint(*a.Age)
		}
		c.Details = []Detail{
			{Label: "Age", Value: age},
			{Label: "Gender", Value: orUnknown(a.Gender)},
			{Label: "Status", Value: orUnknown(a.Status)},
		}
	}
	return c
}

// AdoptLink returns the adoption page reference for a, in the form
// "adoption?id=<id>&name=<escaped name>".
func AdoptLink(a models.Animal) string {
	return "adoption?id=" + a.ID() + "&name=" + url.QueryEscape(a.Name)
}

// ParseAdoptLink extracts the id and name from an AdoptLink value.
func ParseAdoptLink(link string) (id, name string, err error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", "", fmt.Errorf("parse adopt link: %w", err)
	}
	q := u.Query()
	return q.Get("id"), q.Get("name"), nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
