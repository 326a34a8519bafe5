// Package screen implements the admin console's CRUD screens: one generic
// controller driven by a per-entity descriptor, rendering through a View.
package screen

import (
	"context"
	"strings"
)

// Tone colours a message.
type Tone int

const (
	Info Tone = iota
	Success
	Failure
)

// Message is a line of feedback in the form area or content banner.
type Message struct {
	Text string
	Tone Tone
}

// Row is one table line. ID is the record id the row's actions act on.
type Row struct {
	ID    string
	Cells []string
}

// Table is a rendered record list.
type Table struct {
	Title   string
	Columns []string
	Rows    []Row
	// AddLabel is empty when the screen has no Add action.
	AddLabel string
}

// FieldKind selects the input widget.
type FieldKind int

const (
	Text FieldKind = iota
	Number
	Date
	Email
	Select
	Checkbox
)

// Choice is one option of a Select field.
type Choice struct {
	Value string
	Label string
}

// Field is one form input.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Value       string
	Required    bool
	Placeholder string
	Choices     []Choice
}

// Form is an add or edit form.
type Form struct {
	Title  string
	Submit string
	Fields []Field
}

// WithValues returns a copy of f whose fields hold v's entries.
func (f Form) WithValues(v Values) Form {
	out := f
	out.Fields = make([]Field, len(f.Fields))
	copy(out.Fields, f.Fields)
	for i := range out.Fields {
		if val, ok := v[out.Fields[i].Name]; ok {
			out.Fields[i].Value = val
		}
	}
	return out
}

// Values are submitted form values by field name.
type Values map[string]string

// Get returns the trimmed value of name.
func (v Values) Get(name string) string { return strings.TrimSpace(v[name]) }

// Bool interprets a checkbox value.
func (v Values) Bool(name string) bool {
	switch strings.ToLower(v.Get(name)) {
	case "true", "on", "yes", "y", "1":
		return true
	}
	return false
}

// View renders screens and collects input. The terminal console is one
// implementation; tests use a scripted fake.
type View interface {
	// ShowTable replaces the content area with a table.
	ShowTable(t Table)
	// ShowBanner replaces the content area with a single message.
	ShowBanner(m Message)
	// ShowForm displays f and blocks until it is submitted or cancelled.
	// ok is false on cancel.
	ShowForm(ctx context.Context, f Form) (v Values, ok bool, err error)
	// ShowMessage writes to the open form's message line.
	ShowMessage(m Message)
	// FlagField marks a form field as invalid with an inline hint.
	FlagField(field, hint string)
	// ClearFlags removes every field flag.
	ClearFlags()
	// Confirm asks a yes/no question and blocks for the answer.
	Confirm(ctx context.Context, prompt string) (bool, error)
	// Alert shows a message the user must acknowledge.
	Alert(msg string)
}
