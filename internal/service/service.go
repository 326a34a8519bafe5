// Package service holds the API stub's business rules: required fields,
// partial updates, the reply messages of the shelter API, and accounts.
// Persistence is delegated to the repository interfaces declared here.
package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Code classifies a rejected request.
type Code int

const (
	// CodeInvalid is a malformed or incomplete request.
	CodeInvalid Code = iota + 1
	// CodeUnauthorized is a failed login.
	CodeUnauthorized
	// CodeNotFound is a request for a missing record.
	CodeNotFound
	// CodeInternal is a storage failure.
	CodeInternal
)

// Error is a rejected request. Message is sent to the client verbatim.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func invalid(format string, args ...any) *Error {
	return &Error{Code: CodeInvalid, Message: fmt.Sprintf(format, args...)}
}

func internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Error: " + err.Error(), Err: err}
}

// dateLayout is the API's date format.
const dateLayout = "2006-01-02"

// Payload is a decoded JSON request body. The console sends every field as
// a string; numbers and booleans are accepted too.
type Payload map[string]any

// Has reports whether key was sent, even as null.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Text returns the value of key as a string; "" when missing or null.
func (p Payload) Text(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Truthy reports whether key holds a non-empty, non-zero, non-false value.
func (p Payload) Truthy(key string) bool {
	switch v := p[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}

// Flag reads a checkbox value: true, "true", "on", "y" or 1.
func (p Payload) Flag(key string) bool {
	if v, ok := p[key].(string); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "y", "yes", "1":
			return true
		}
		return false
	}
	return p.Truthy(key)
}

// ID parses key as a record identifier.
func (p Payload) ID(key string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(p.Text(key)), 10, 64)
	if err != nil {
		return 0, invalid("Error: %s must be a whole number.", key)
	}
	return id, nil
}

// Int parses key as an integer.
func (p Payload) Int(key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(p.Text(key)))
	if err != nil {
		return 0, invalid("Error: %s must be a whole number.", key)
	}
	return n, nil
}

// Date parses key as YYYY-MM-DD and returns it normalized.
func (p Payload) Date(key string) (string, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(p.Text(key)))
	if err != nil {
		return "", invalid("Error: %s must be a date in YYYY-MM-DD format.", key)
	}
	return d.Format(dateLayout), nil
}

// requireFields returns "<field> is required." for the first falsy field.
func (p Payload) requireFields(fields ...string) error {
	for _, f := range fields {
		if !p.Truthy(f) {
			return invalid("%s is required.", f)
		}
	}
	return nil
}

// parseAmount validates a donation amount and formats it with two decimals.
func parseAmount(s string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e8 {
		return "", invalid("Invalid donation amount.")
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}
