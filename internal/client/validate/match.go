// Package validate holds the client-side checks run before a write is sent:
// the animal ID/name agreement and the JSON Schema payload checks.
package validate

import (
	"fmt"
	"strings"

	"github.com/atinyakov/ShelterDesk/internal/failure"
)

const (
	// MsgIDNotFound is shown when no record has the typed id.
	MsgIDNotFound = "Animal ID not found."
	// MsgMustMatch is shown when a form is submitted with a failed match.
	MsgMustMatch = "Animal ID and Name must match."
)

// Match resolves id among records and checks that name agrees with the
// resolved record's name, ignoring case and surrounding space. It returns
// the resolved record so callers can preview it.
//
// A missing id yields a failure.NotFound validation error; a name that
// does not agree yields failure.Mismatch naming the correct name.
func Match[T any](id, name string, records []T, idOf, nameOf func(T) string) (T, error) {
	var zero T
	id = strings.TrimSpace(id)

	for _, r := range records {
		if idOf(r) != id {
			continue
		}
		want := nameOf(r)
		if !strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(name)) {
			return zero, failure.NewValidation(failure.Mismatch, "AnimalName",
				fmt.Sprintf("Animal name does not match Animal ID (%s).", want))
		}
		return r, nil
	}
	return zero, failure.NewValidation(failure.NotFound, "AnimalName", MsgIDNotFound)
}
