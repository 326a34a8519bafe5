package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ShelterDesk/internal/client/portal"
	"github.com/atinyakov/ShelterDesk/internal/client/screen"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

var _ screen.View = (*Terminal)(nil)

func newTerminal(input string) (*Terminal, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out), out
}

func donorForm() screen.Form {
	return screen.Form{Title: "Edit Donor", Submit: "Update", Fields: []screen.Field{
		{Name: "Name", Label: "Name", Value: "Ann", Required: true},
		{Name: "ContactInfo", Label: "Contact Info"},
	}}
}

func TestShowForm_KeepsAndReplacesValues(t *testing.T) {
	term, out := newTerminal("\nann@example.com\n")

	v, ok, err := term.ShowForm(context.Background(), donorForm())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, screen.Values{"Name": "Ann", "ContactInfo": "ann@example.com"}, v)
	assert.Contains(t, out.String(), "Name * [Ann]: ")
	assert.Contains(t, out.String(), "Edit Donor")
}

func TestShowForm_Cancel(t *testing.T) {
	term, _ := newTerminal(".\n")
	v, ok, err := term.ShowForm(context.Background(), donorForm())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)

	term, _ = newTerminal("Bo\n")
	_, ok, err = term.ShowForm(context.Background(), donorForm())
	require.NoError(t, err)
	assert.False(t, ok, "end of input cancels")
}

func TestShowForm_SelectAndCheckbox(t *testing.T) {
	f := screen.Form{Title: "Donation", Fields: []screen.Field{
		{Name: "DonorID", Label: "Donor", Kind: screen.Select, Choices: []screen.Choice{
			{Value: "", Label: "Select"}, {Value: "4", Label: "Ann"}, {Value: "9", Label: "Bo"},
		}},
		{Name: "Status", Label: "Status", Kind: screen.Select, Value: "Pending", Choices: []screen.Choice{
			{Value: "Pending", Label: "Pending"}, {Value: "Approved", Label: "Approved"},
		}},
		{Name: "Featured", Label: "Featured", Kind: screen.Checkbox, Value: "true"},
		{Name: "Other", Label: "Other", Kind: screen.Select, Choices: []screen.Choice{
			{Value: "", Label: "Select"}, {Value: "4", Label: "Ann"}, {Value: "9", Label: "Bo"},
		}},
	}}
	term, out := newTerminal("bo\n2\n\n4\n")

	v, ok, err := term.ShowForm(context.Background(), f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "9", v["DonorID"])
	assert.Equal(t, "Approved", v["Status"])
	assert.Equal(t, "y", v["Featured"])
	assert.True(t, v.Bool("Featured"))
	assert.Equal(t, "4", v["Other"], "a matching value wins over the list number")
	assert.Contains(t, out.String(), "2) Ann")
}

func TestPickChoice(t *testing.T) {
	choices := []screen.Choice{{Value: "", Label: "Select"}, {Value: "4", Label: "Ann"}, {Value: "9", Label: "Bo"}}
	tests := []struct {
		in, want string
	}{
		{"9", "9"},
		{"ann", "4"},
		{"2", "4"},
		{"1", ""},
		{"Zed", "Zed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pickChoice(choices, tt.in), tt.in)
	}
}

func TestShowForm_ShowsFlags(t *testing.T) {
	term, out := newTerminal("\n\n")
	term.FlagField("ContactInfo", "Invalid Animal ID: This animal does not exist.")
	out.Reset()

	_, _, err := term.ShowForm(context.Background(), donorForm())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Invalid Animal ID")

	term.ClearFlags()
	out.Reset()
	_, ok, err := term.ShowForm(context.Background(), donorForm())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, out.String(), "Invalid Animal ID")
}

func TestShowForm_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := New(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := term.ShowForm(ctx, donorForm())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		term, out := newTerminal(tt.in)
		ok, err := term.Confirm(context.Background(), "Delete this donor?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, tt.in)
		assert.Contains(t, out.String(), "Delete this donor? [y/N]: ")
	}

	term, _ := newTerminal("")
	_, err := term.Confirm(context.Background(), "?")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestShowTable(t *testing.T) {
	term, out := newTerminal("")
	term.ShowTable(screen.Table{
		Title:    "Manage Donors",
		Columns:  []string{"#", "DonorID", "Name"},
		Rows:     []screen.Row{{ID: "4", Cells: []string{"1", "4", "Ann"}}},
		AddLabel: "Add Donor",
	})

	s := out.String()
	assert.Contains(t, s, "Manage Donors")
	assert.Contains(t, s, "DonorID")
	assert.Contains(t, s, "Ann")
	assert.Contains(t, s, "add (Add Donor)")
}

func TestMessagesAndAlerts(t *testing.T) {
	term, out := newTerminal("")
	term.ShowBanner(screen.Message{Text: "Failed to load donors.", Tone: screen.Failure})
	term.ShowMessage(screen.Message{Text: "Donor added.", Tone: screen.Success})
	term.Alert("Donor not found.")

	s := out.String()
	assert.Contains(t, s, "Failed to load donors.")
	assert.Contains(t, s, "Donor added.")
	assert.Contains(t, s, "Donor not found.")
}

func TestShowCardsAndNav(t *testing.T) {
	term, out := newTerminal("")
	term.ShowNav(session.Nav{Role: session.Member, Label: "Ann", ShowLogout: true})
	term.ShowCards("Featured", "", []portal.Card{
		portal.NewCard(models.Animal{AnimalID: 2, Name: "Tom", Species: "Cat", Featured: true}, true),
	})
	term.ShowCards("Other Animals", "No other animals available at the moment.", nil)
	term.ShowPreview(&models.Animal{Name: "Tom", Species: "Cat", Gender: "Male"})

	s := out.String()
	assert.Contains(t, s, "home | adopt | donate | Ann | logout")
	assert.Contains(t, s, "#2 Tom")
	assert.Contains(t, s, "[Featured]")
	assert.Contains(t, s, "A lovely cat looking for a forever home.")
	assert.Contains(t, s, "Age: Unknown")
	assert.Contains(t, s, "adoption?id=2&name=Tom")
	assert.Contains(t, s, "No other animals available at the moment.")
	assert.Contains(t, s, "You're adopting: Tom")
	assert.Contains(t, s, "Gender: Male")
}
