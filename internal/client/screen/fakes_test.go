package screen

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/atinyakov/ShelterDesk/internal/client/api"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// scriptedView records everything rendered and answers forms and
// confirmations from queues. An exhausted form queue cancels the form.
type scriptedView struct {
	forms    []Values
	confirms []bool

	tables   []Table
	banners  []Message
	messages []Message
	flags    map[string]string
	alerts   []string
	shown    []Form
}

func newScriptedView() *scriptedView {
	return &scriptedView{flags: make(map[string]string)}
}

func (v *scriptedView) ShowTable(t Table)    { v.tables = append(v.tables, t) }
func (v *scriptedView) ShowBanner(m Message) { v.banners = append(v.banners, m) }

func (v *scriptedView) ShowForm(_ context.Context, f Form) (Values, bool, error) {
	v.shown = append(v.shown, f)
	if len(v.forms) == 0 {
		return nil, false, nil
	}
	next := v.forms[0]
	v.forms = v.forms[1:]
	return next, true, nil
}

func (v *scriptedView) ShowMessage(m Message)        { v.messages = append(v.messages, m) }
func (v *scriptedView) FlagField(field, hint string) { v.flags[field] = hint }
func (v *scriptedView) ClearFlags()                  { v.flags = make(map[string]string) }
func (v *scriptedView) Alert(msg string)             { v.alerts = append(v.alerts, msg) }

func (v *scriptedView) Confirm(context.Context, string) (bool, error) {
	if len(v.confirms) == 0 {
		return false, nil
	}
	next := v.confirms[0]
	v.confirms = v.confirms[1:]
	return next, nil
}

func (v *scriptedView) lastTable() *Table {
	if len(v.tables) == 0 {
		return nil
	}
	return &v.tables[len(v.tables)-1]
}

func (v *scriptedView) lastMessage() Message {
	if len(v.messages) == 0 {
		return Message{}
	}
	return v.messages[len(v.messages)-1]
}

// memStore is an in-memory collection that logs each call.
type memStore[T any] struct {
	mu      sync.Mutex
	records []T
	calls   []string
	listErr error

	// create/update/delete answer with these when set
	createRes *models.Result
	updateRes *models.Result
	deleteRes *models.Result
	writeErr  error

	onCreate func(p api.Payload) T
	payloads []api.Payload
}

func (s *memStore[T]) log(call string) {
	s.calls = append(s.calls, call)
}

func (s *memStore[T]) List(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log("list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *memStore[T]) Create(_ context.Context, p api.Payload) (models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log("create")
	s.payloads = append(s.payloads, p)
	if s.writeErr != nil {
		return models.Result{}, s.writeErr
	}
	if s.createRes != nil {
		return *s.createRes, nil
	}
	if s.onCreate != nil {
		s.records = append(s.records, s.onCreate(p))
	}
	return models.Result{Success: true, Message: "Added."}, nil
}

func (s *memStore[T]) Update(_ context.Context, id string, p api.Payload) (models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log("update " + id)
	s.payloads = append(s.payloads, p)
	if s.writeErr != nil {
		return models.Result{}, s.writeErr
	}
	if s.updateRes != nil {
		return *s.updateRes, nil
	}
	return models.Result{Success: true, Message: "Updated."}, nil
}

func (s *memStore[T]) Delete(_ context.Context, id string) (models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log("delete " + id)
	if s.writeErr != nil {
		return models.Result{}, s.writeErr
	}
	if s.deleteRes != nil {
		return *s.deleteRes, nil
	}
	return models.Result{Success: true, Message: "Deleted."}, nil
}

func (s *memStore[T]) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *memStore[T]) count(call string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

var errNetwork = errors.New("connection refused")

func intPtr(i int) *int { return &i }

func nextAnimalID(records []models.Animal) int64 {
	var max int64
	for _, a := range records {
		if a.AnimalID > max {
			max = a.AnimalID
		}
	}
	return max + 1
}

func animalFromPayload(s *memStore[models.Animal]) func(p api.Payload) models.Animal {
	return func(p api.Payload) models.Animal {
		a := models.Animal{
			AnimalID: nextAnimalID(s.records),
			Name:     p["Name"].(string),
			Species:  p["Species"].(string),
			Status:   p["Status"].(string),
		}
		if age, ok := p["Age"].(string); ok {
			n, _ := strconv.Atoi(age)
			a.Age = &n
		}
		return a
	}
}
