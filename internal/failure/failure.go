// Package failure defines the error taxonomy shared by the console:
// network failures, application failures reported by the API, and
// client-side validation failures.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors outside the taxonomy.
	Unknown Kind = iota
	// Network means the request could not be sent or its reply not parsed.
	Network
	// Application means the API answered with success=false.
	Application
	// Validation means a client-side pre-check rejected the input.
	Validation
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case Application:
		return "application"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Reason refines a Validation failure.
type Reason string

const (
	// NotFound means the identifier matched no record.
	NotFound Reason = "not_found"
	// Mismatch means the identifier and name resolve to different records.
	Mismatch Reason = "mismatch"
	// Invalid means the payload broke a field constraint.
	Invalid Reason = "invalid"
)

// Messages shown when the API gave no usable message.
const (
	GenericWriteFailure  = "An error occurred. Please try again."
	GenericSubmitFailure = "Submission failed. Please try again later."
	NoServerMessage      = "No server message."
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "list animals".
	Op string
	// Message is safe to show to the user.
	Message string
	// Reason is set for Validation failures.
	Reason Reason
	// Field names the offending form field, if known.
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "" && e.Err != nil:
		fmt.Fprintf(&b, "%s: %v", e.Message, e.Err)
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		fmt.Fprintf(&b, "%s failure", e.Kind)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewNetwork wraps a transport or decoding error.
func NewNetwork(op string, err error) *Error {
	return &Error{Kind: Network, Op: op, Err: err}
}

// NewApplication records a success=false reply. An empty server message is
// replaced by the generic submit failure text.
func NewApplication(op, message string) *Error {
	if strings.TrimSpace(message) == "" {
		message = GenericSubmitFailure
	}
	return &Error{Kind: Application, Op: op, Message: message}
}

// NewValidation records a rejected pre-check.
func NewValidation(reason Reason, field, message string) *Error {
	return &Error{Kind: Validation, Reason: reason, Field: field, Message: message}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// ReasonOf returns the validation Reason of err, or "".
func ReasonOf(err error) Reason {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ""
}

// UserMessage returns the text to display for err.
func UserMessage(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return GenericWriteFailure
	}
	if fe.Kind == Network {
		return GenericWriteFailure
	}
	return fe.Message
}
