package validate

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/atinyakov/ShelterDesk/internal/failure"
)

// Schema is a compiled JSON Schema for one write payload.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// MustSchema compiles src and panics on a malformed schema. It is meant
// for the package-level schemas below.
func MustSchema(name, src string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("validate: compile %s schema: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

// Name returns the schema's label, e.g. "animal".
func (s *Schema) Name() string { return s.name }

// Payload checks payload against s. The first violation, by field name,
// becomes a failure.Invalid validation error naming the field.
func Payload(s *Schema, payload any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	sort.SliceStable(errs, func(i, j int) bool {
		fi, fj := fieldOf(errs[i]), fieldOf(errs[j])
		if fi != fj {
			return fi < fj
		}
		return missing(errs[i]) && !missing(errs[j])
	})
	first := errs[0]
	field := fieldOf(first)

	var msg string
	switch {
	case missing(first):
		msg = fmt.Sprintf("%s is required.", field)
	case first.Type() == "enum":
		msg = fmt.Sprintf("%s must be one of %v.", field, first.Details()["allowed"])
	default:
		msg = fmt.Sprintf("%s is invalid.", field)
	}
	return failure.NewValidation(failure.Invalid, field, msg)
}

// fieldOf returns the property a schema error refers to. For "required"
// errors gojsonschema reports the parent object, so the property name
// comes from the details.
func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	return e.Field()
}

func missing(e gojsonschema.ResultError) bool {
	return e.Type() == "required" || e.Type() == "string_gte"
}
