// Package console renders the shelter screens in a terminal: lipgloss
// tables and banners, line-based form prompts and y/N confirmations.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/atinyakov/ShelterDesk/internal/client/screen"
)

// Colours of the shelter site.
var (
	SuccessColor = lipgloss.Color("#429d7a")
	FailureColor = lipgloss.Color("#a04889")
	FlagColor    = lipgloss.Color("#e5a50a")
	MutedColor   = lipgloss.Color("#7d8590")
)

// CancelInput aborts the form being filled.
const CancelInput = "."

// ErrInputClosed is returned when the input ends mid-prompt.
var ErrInputClosed = errors.New("console: input closed")

// Styles holds the terminal styles.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Info    lipgloss.Style
	Flag    lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).MarginTop(1),
		Success: r.NewStyle().Foreground(SuccessColor),
		Failure: r.NewStyle().Foreground(FailureColor),
		Info:    r.NewStyle(),
		Flag:    r.NewStyle().Foreground(FlagColor),
		Muted:   r.NewStyle().Foreground(MutedColor),
		Header:  r.NewStyle().Bold(true).Padding(0, 1),
		Cell:    r.NewStyle().Padding(0, 1),
	}
}

// Terminal implements screen.View over a line reader and a writer.
type Terminal struct {
	out    io.Writer
	styles Styles

	in    *bufio.Scanner
	once  sync.Once
	lines chan string

	mu    sync.Mutex
	flags map[string]string
}

// New returns a terminal reading from in and writing to out. Colours are
// used only when out is a terminal.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
		in:     bufio.NewScanner(in),
		flags:  make(map[string]string),
	}
}

// readLine returns the next input line. A cancelled ctx abandons the wait;
// the pending line is kept for the next read.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.once.Do(func() {
		t.lines = make(chan string)
		go func() {
			defer close(t.lines)
			for t.in.Scan() {
				t.lines <- t.in.Text()
			}
		}()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return strings.TrimRight(line, "\r"), nil
	}
}

func (t *Terminal) println(s string) {
	_, _ = fmt.Fprintln(t.out, s)
}

func (t *Terminal) style(tone screen.Tone) lipgloss.Style {
	switch tone {
	case screen.Success:
		return t.styles.Success
	case screen.Failure:
		return t.styles.Failure
	default:
		return t.styles.Info
	}
}

// ShowTable renders a table with an action hint below it.
func (t *Terminal) ShowTable(tb screen.Table) {
	t.println(t.styles.Title.Render(tb.Title))

	rows := make([][]string, 0, len(tb.Rows))
	for _, r := range tb.Rows {
		rows = append(rows, r.Cells)
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tb.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.Header
			}
			return t.styles.Cell
		})
	t.println(tbl.String())

	actions := "edit <id> | delete <id>"
	if tb.AddLabel != "" {
		actions = "add (" + tb.AddLabel + ") | " + actions
	}
	t.println(t.styles.Muted.Render(actions))
}

// ShowBanner replaces the content area with m.
func (t *Terminal) ShowBanner(m screen.Message) {
	t.println(t.style(m.Tone).Render(m.Text))
}

// ShowMessage writes the form's response line.
func (t *Terminal) ShowMessage(m screen.Message) {
	t.println(t.style(m.Tone).Render(m.Text))
}

// FlagField marks field; the hint is shown next to it on the next prompt.
func (t *Terminal) FlagField(field, hint string) {
	t.mu.Lock()
	t.flags[field] = hint
	t.mu.Unlock()
	t.println(t.styles.Flag.Render(fmt.Sprintf("! %s: %s", field, hint)))
}

// ClearFlags removes every field mark.
func (t *Terminal) ClearFlags() {
	t.mu.Lock()
	t.flags = make(map[string]string)
	t.mu.Unlock()
}

func (t *Terminal) flag(field string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags[field]
}

// Alert writes a standalone notice.
func (t *Terminal) Alert(msg string) {
	t.println(t.styles.Failure.Bold(true).Render(msg))
}

// Confirm asks a y/N question. Anything but y or yes declines.
func (t *Terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	_, _ = fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	line, err := t.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Prompt asks for one value.
func (t *Terminal) Prompt(ctx context.Context, label string) (string, error) {
	_, _ = fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ShowForm prompts for each field in turn. An empty answer keeps the shown
// value; CancelInput or the end of input cancels the form.
func (t *Terminal) ShowForm(ctx context.Context, f screen.Form) (screen.Values, bool, error) {
	t.println(t.styles.Title.Render(f.Title))
	t.println(t.styles.Muted.Render(fmt.Sprintf("Enter keeps the value in brackets, %q cancels.", CancelInput)))

	values := make(screen.Values, len(f.Fields))
	for _, field := range f.Fields {
		if hint := t.flag(field.Name); hint != "" {
			t.println(t.styles.Flag.Render("  " + hint))
		}
		v, ok, err := t.askField(ctx, field)
		if errors.Is(err, ErrInputClosed) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		values[field.Name] = v
	}
	return values, true, nil
}

func (t *Terminal) askField(ctx context.Context, f screen.Field) (string, bool, error) {
	label := f.Label
	if f.Required {
		label += " *"
	}
	if f.Kind == screen.Select {
		for i, o := range f.Choices {
			t.println(t.styles.Muted.Render(fmt.Sprintf("  %d) %s", i+1, o.Label)))
		}
	}
	current := f.Value
	switch {
	case f.Kind == screen.Checkbox:
		label += " (y/n)"
		if b, err := strconv.ParseBool(current); err == nil {
			current = "n"
			if b {
				current = "y"
			}
		}
	case f.Placeholder != "" && current == "":
		label += " (" + f.Placeholder + ")"
	}
	if current != "" {
		label += " [" + current + "]"
	}

	_, _ = fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.readLine(ctx)
	if err != nil {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == CancelInput {
		return "", false, nil
	}
	if line == "" {
		return current, true, nil
	}
	if f.Kind == screen.Select {
		return pickChoice(f.Choices, line), true, nil
	}
	return line, true, nil
}

// pickChoice accepts a choice value, label or list number, in that order.
func pickChoice(opts []screen.Choice, in string) string {
	for _, o := range opts {
		if o.Value != "" && (strings.EqualFold(o.Value, in) || strings.EqualFold(o.Label, in)) {
			return o.Value
		}
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(opts) {
		return opts[n-1].Value
	}
	return in
}
