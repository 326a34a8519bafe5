package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/client/api"
	"github.com/atinyakov/ShelterDesk/internal/client/validate"
	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// DefaultRefreshDelay is the pause between a write confirmation and the
// re-list, long enough to read the confirmation.
const DefaultRefreshDelay = 800 * time.Millisecond

// InvalidAnimalHint flags the AnimalID field when the API rejects the
// referenced animal.
const InvalidAnimalHint = "Invalid Animal ID: This animal does not exist."

var (
	// ErrAddNotSupported is returned by Add on screens without an Add action.
	ErrAddNotSupported = errors.New("screen: add is not supported here")
	// ErrUnknownRecord is returned by Edit for an id that is not listed.
	ErrUnknownRecord = errors.New("screen: no such record")
)

// Store is the remote collection behind a screen. *api.Resource satisfies it.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, p api.Payload) (models.Result, error)
	Update(ctx context.Context, id string, p api.Payload) (models.Result, error)
	Delete(ctx context.Context, id string) (models.Result, error)
}

// Entity describes how one record type is listed, edited and written.
type Entity[T any] struct {
	// Name is the singular noun used in titles, e.g. "Animal".
	Name string
	// Title heads the table, e.g. "Manage Animals".
	Title string
	Columns []string
	Row     func(i int, r T) []string
	ID      func(r T) string
	// Form builds the add form (r == nil) or the edit form.
	Form func(r *T) Form
	// Payload turns submitted values into the write body.
	Payload func(v Values, r *T) api.Payload
	Schema  *validate.Schema

	// CanAdd enables the Add action.
	CanAdd bool
	// DeletePrompt is the delete confirmation question.
	DeletePrompt string
	// LoadFailure replaces the content when listing fails.
	LoadFailure string
	// EmptyMessage, when set, replaces an empty table.
	EmptyMessage string
	// FlagAnimalRef routes API failures that reference an animal to the
	// AnimalID field instead of the message line.
	FlagAnimalRef bool

	// Prepare runs before every list, e.g. to load lookup data.
	Prepare func(ctx context.Context) error
	// Check runs after schema validation and before the write.
	Check func(ctx context.Context, v Values) error
	// AfterWrite runs after a successful add or edit, before the re-list.
	AfterWrite func(ctx context.Context) error
	// AfterDelete runs after every delete attempt, before the re-list.
	AfterDelete func(ctx context.Context)
}

// Options tune a Controller.
type Options struct {
	RefreshDelay time.Duration
	Log          *zap.Logger
}

// Option sets an Options field.
type Option func(*Options)

// WithRefreshDelay overrides DefaultRefreshDelay. Zero re-lists immediately.
func WithRefreshDelay(d time.Duration) Option {
	return func(o *Options) { o.RefreshDelay = d }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) { o.Log = log }
}

// Controller runs the list/add/edit/delete actions of one screen. Each
// action runs to completion, including the re-list that follows a write.
type Controller[T any] struct {
	entity Entity[T]
	store  Store[T]
	view   View
	delay  time.Duration
	log    *zap.Logger

	mu   sync.Mutex
	last []T
}

// NewController wires an entity descriptor to its store and a view.
func NewController[T any](e Entity[T], s Store[T], v View, opts ...Option) *Controller[T] {
	o := Options{RefreshDelay: DefaultRefreshDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		entity: e,
		store:  s,
		view:   v,
		delay:  o.RefreshDelay,
		log:    logger.OrNop(o.Log).With(zap.String("screen", e.Name)),
	}
}

// List fetches every record and renders the table. On failure the content
// is replaced by the load-failure banner; no partial table is shown.
func (c *Controller[T]) List(ctx context.Context) error {
	records, err := c.load(ctx)
	if err != nil {
		c.log.Warn("list failed", zap.Error(err))
		c.view.ShowBanner(Message{Text: c.loadFailure(), Tone: Failure})
		return err
	}

	if len(records) == 0 && c.entity.EmptyMessage != "" {
		c.view.ShowBanner(Message{Text: c.entity.EmptyMessage, Tone: Failure})
		return nil
	}

	t := Table{Title: c.entity.Title, Columns: c.entity.Columns, Rows: make([]Row, 0, len(records))}
	if c.entity.CanAdd {
		t.AddLabel = "Add " + c.entity.Name
	}
	for i, r := range records {
		t.Rows = append(t.Rows, Row{ID: c.entity.ID(r), Cells: c.entity.Row(i, r)})
	}
	c.view.ShowTable(t)
	return nil
}

func (c *Controller[T]) load(ctx context.Context) ([]T, error) {
	if c.entity.Prepare != nil {
		if err := c.entity.Prepare(ctx); err != nil {
			return nil, err
		}
	}
	records, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.last = records
	c.mu.Unlock()
	return records, nil
}

func (c *Controller[T]) loadFailure() string {
	if c.entity.LoadFailure != "" {
		return c.entity.LoadFailure
	}
	return fmt.Sprintf("Failed to load %s data.", c.entity.Name)
}

// Add opens an empty form and submits it as a new record.
func (c *Controller[T]) Add(ctx context.Context) error {
	if !c.entity.CanAdd {
		return ErrAddNotSupported
	}
	return c.submit(ctx, nil)
}

// Edit opens the form pre-filled from the listed record with id.
func (c *Controller[T]) Edit(ctx context.Context, id string) error {
	r, err := c.find(ctx, id)
	if err != nil {
		return err
	}
	return c.submit(ctx, r)
}

func (c *Controller[T]) find(ctx context.Context, id string) (*T, error) {
	c.mu.Lock()
	records := c.last
	c.mu.Unlock()

	if records == nil {
		var err error
		if records, err = c.load(ctx); err != nil {
			c.view.ShowBanner(Message{Text: c.loadFailure(), Tone: Failure})
			return nil, err
		}
	}
	for i := range records {
		if c.entity.ID(records[i]) == id {
			r := records[i]
			return &r, nil
		}
	}
	c.view.Alert(fmt.Sprintf("%s %s not found.", c.entity.Name, id))
	return nil, fmt.Errorf("%w: %s %s", ErrUnknownRecord, c.entity.Name, id)
}

// submit shows the form until a write succeeds or the user cancels.
func (c *Controller[T]) submit(ctx context.Context, existing *T) error {
	form := c.entity.Form(existing)
	for {
		values, ok, err := c.view.ShowForm(ctx, form)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		form = form.WithValues(values)
		c.view.ClearFlags()

		done, err := c.write(ctx, existing, values)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	if c.entity.AfterWrite != nil {
		if err := c.entity.AfterWrite(ctx); err != nil {
			c.log.Warn("post-write hook failed", zap.Error(err))
		}
	}
	if err := sleep(ctx, c.delay); err != nil {
		return err
	}
	return c.List(ctx)
}

// write validates and sends one submission. done reports a successful
// write; a non-nil error aborts the form (context cancellation only).
func (c *Controller[T]) write(ctx context.Context, existing *T, values Values) (done bool, err error) {
	payload := c.entity.Payload(values, existing)

	if c.entity.Schema != nil {
		if err := validate.Payload(c.entity.Schema, payload); err != nil {
			c.showValidation(err)
			return false, nil
		}
	}
	if c.entity.Check != nil {
		if err := c.entity.Check(ctx, values); err != nil {
			c.showValidation(err)
			return false, nil
		}
	}

	var res models.Result
	if existing == nil {
		res, err = c.store.Create(ctx, payload)
	} else {
		res, err = c.store.Update(ctx, c.entity.ID(*existing), payload)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		c.log.Warn("write failed", zap.Error(err))
		c.view.ShowMessage(Message{Text: failure.UserMessage(err), Tone: Failure})
		return false, nil
	}

	if !res.Success {
		appErr := failure.NewApplication("write "+c.entity.Name, res.Message)
		c.log.Info("write rejected", zap.String("message", appErr.Message))
		if c.entity.FlagAnimalRef && failure.ReferencesAnimal(res.Message) {
			c.view.FlagField("AnimalID", InvalidAnimalHint)
			return false, nil
		}
		c.view.ShowMessage(Message{Text: appErr.Message, Tone: Failure})
		return false, nil
	}

	c.view.ShowMessage(Message{Text: res.Message, Tone: Success})
	return true, nil
}

func (c *Controller[T]) showValidation(err error) {
	var fe *failure.Error
	if !errors.As(err, &fe) {
		c.view.ShowMessage(Message{Text: failure.UserMessage(err), Tone: Failure})
		return
	}
	if fe.Field != "" {
		c.view.FlagField(fe.Field, fe.Message)
	}
	switch failure.ReasonOf(err) {
	case failure.NotFound, failure.Mismatch:
		c.view.ShowMessage(Message{Text: validate.MsgMustMatch, Tone: Failure})
	default:
		c.view.ShowMessage(Message{Text: fe.Message, Tone: Failure})
	}
}

// Delete asks for confirmation, deletes the record, reports the API's
// answer and re-lists. The list is refreshed whether or not the delete
// succeeded.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	ok, err := c.view.Confirm(ctx, c.entity.DeletePrompt)
	if err != nil || !ok {
		return err
	}

	res, err := c.store.Delete(ctx, id)
	switch {
	case err != nil:
		c.log.Warn("delete failed", zap.String("id", id), zap.Error(err))
		c.view.Alert(failure.UserMessage(err))
	case res.Message == "":
		c.view.Alert(failure.NoServerMessage)
	default:
		c.view.Alert(res.Message)
	}

	if c.entity.AfterDelete != nil {
		c.entity.AfterDelete(ctx)
	}
	return c.List(ctx)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
