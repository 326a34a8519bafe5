package failure

import "strings"

// animalReferenceTokens are the fragments the API uses when a write names an
// animal that does not exist. The API has no structured error codes yet.
var animalReferenceTokens = []string{"animal", "foreign key", "not present", "not found"}

// ReferencesAnimal reports whether a failure message points at the AnimalID
// field. Matching is a case-insensitive substring test.
func ReferencesAnimal(message string) bool {
	m := strings.ToLower(message)
	for _, tok := range animalReferenceTokens {
		if strings.Contains(m, tok) {
			return true
		}
	}
	return false
}
