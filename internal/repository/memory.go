package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

// Memory keeps every table in process memory. All tables share one lock, so
// reference checks and cascading deletes see a consistent state.
type Memory struct {
	mu sync.RWMutex

	Animals    *MemoryTable[models.Animal]
	Medical    *MemoryTable[models.MedicalRecord]
	Adoptions  *MemoryTable[models.AdoptionApplication]
	Donors     *MemoryTable[models.Donor]
	Donations  *MemoryTable[models.Donation]
	Volunteers *MemoryTable[models.Volunteer]

	users   map[string]models.Account
	userSeq int64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	m := &Memory{users: make(map[string]models.Account)}
	m.Animals = newMemoryTable(&m.mu, "animal", func(a *models.Animal) *int64 { return &a.AnimalID })
	m.Medical = newMemoryTable(&m.mu, "medical_record", func(r *models.MedicalRecord) *int64 { return &r.RecordID })
	m.Adoptions = newMemoryTable(&m.mu, "adoption_application", func(a *models.AdoptionApplication) *int64 { return &a.ApplicationID })
	m.Donors = newMemoryTable(&m.mu, "donor", func(d *models.Donor) *int64 { return &d.DonorID })
	m.Donations = newMemoryTable(&m.mu, "donation", func(d *models.Donation) *int64 { return &d.DonationID })
	m.Volunteers = newMemoryTable(&m.mu, "volunteer", func(v *models.Volunteer) *int64 { return &v.VolunteerID })

	m.Medical.refs = func(r models.MedicalRecord) error { return m.Animals.present(r.AnimalID) }
	m.Adoptions.refs = func(a models.AdoptionApplication) error { return m.Animals.present(a.AnimalID) }
	m.Donations.refs = func(d models.Donation) error { return m.Donors.present(d.DonorID) }

	m.Animals.cascade = func(id int64) {
		m.Medical.deleteWhere(func(r models.MedicalRecord) bool { return r.AnimalID == id })
		m.Adoptions.deleteWhere(func(a models.AdoptionApplication) bool { return a.AnimalID == id })
	}
	m.Donors.cascade = func(id int64) {
		m.Donations.deleteWhere(func(d models.Donation) bool { return d.DonorID == id })
	}
	return m
}

// FindDonorByName returns the oldest donor with exactly this name.
func (m *Memory) FindDonorByName(_ context.Context, name string) (models.Donor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.Donors.sorted() {
		if d.Name == name {
			return d, nil
		}
	}
	return models.Donor{}, fmt.Errorf("donor %q: %w", name, ErrNotFound)
}

// CreateUser stores a new account. Emails are unique.
func (m *Memory) CreateUser(_ context.Context, a models.Account) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[a.Email]; ok {
		return 0, fmt.Errorf("user %q: %w", a.Email, ErrDuplicate)
	}
	m.userSeq++
	a.ID = m.userSeq
	m.users[a.Email] = a
	return a.ID, nil
}

// UserByEmail returns the account registered with email.
func (m *Memory) UserByEmail(_ context.Context, email string) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.users[email]
	if !ok {
		return models.Account{}, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return a, nil
}

// MemoryTable is one table of a Memory store. Keys are assigned in
// increasing order starting at 1 and never reused.
type MemoryTable[T any] struct {
	mu   *sync.RWMutex
	name string
	rows map[int64]T
	seq  int64
	key  func(*T) *int64

	// refs and cascade run with the lock held.
	refs    func(T) error
	cascade func(id int64)
}

func newMemoryTable[T any](mu *sync.RWMutex, name string, key func(*T) *int64) *MemoryTable[T] {
	return &MemoryTable[T]{mu: mu, name: name, rows: make(map[int64]T), key: key}
}

// List returns every row ordered by key.
func (t *MemoryTable[T]) List(_ context.Context) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sorted(), nil
}

// Get returns the row with key id.
func (t *MemoryTable[T]) Get(_ context.Context, id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, t.notFound(id)
	}
	return row, nil
}

// Insert stores rec under a new key and returns it.
func (t *MemoryTable[T]) Insert(_ context.Context, rec T) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.refs != nil {
		if err := t.refs(rec); err != nil {
			return 0, err
		}
	}
	t.seq++
	*t.key(&rec) = t.seq
	t.rows[t.seq] = rec
	return t.seq, nil
}

// Update replaces the row with key id.
func (t *MemoryTable[T]) Update(_ context.Context, id int64, rec T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return t.notFound(id)
	}
	if t.refs != nil {
		if err := t.refs(rec); err != nil {
			return err
		}
	}
	*t.key(&rec) = id
	t.rows[id] = rec
	return nil
}

// Delete removes the row with key id and every row depending on it.
func (t *MemoryTable[T]) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return t.notFound(id)
	}
	delete(t.rows, id)
	if t.cascade != nil {
		t.cascade(id)
	}
	return nil
}

func (t *MemoryTable[T]) sorted() []T {
	keys := make([]int64, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[int64])
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.rows[k])
	}
	return out
}

func (t *MemoryTable[T]) present(id int64) error {
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%w: %s %d is not present", ErrReference, t.name, id)
	}
	return nil
}

func (t *MemoryTable[T]) deleteWhere(match func(T) bool) {
	for k, row := range t.rows {
		if match(row) {
			delete(t.rows, k)
		}
	}
}

func (t *MemoryTable[T]) notFound(id int64) error {
	return fmt.Errorf("%s %d: %w", t.name, id, ErrNotFound)
}
