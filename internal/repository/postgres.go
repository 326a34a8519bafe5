package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// tableSpec maps one record type onto a table.
type tableSpec[T any] struct {
	table string
	key   string
	// fields are the select expressions following the key.
	fields []string
	// cols are the writable columns, in the order values returns them.
	cols   []string
	scan   func(rowScanner) (T, error)
	values func(T) []any
}

// PostgresTable runs the CRUD queries of one table.
type PostgresTable[T any] struct {
	db   *sql.DB
	name string

	listQuery   string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string

	scan   func(rowScanner) (T, error)
	values func(T) []any
}

func newPostgresTable[T any](db *sql.DB, s tableSpec[T]) *PostgresTable[T] {
	sel := fmt.Sprintf("SELECT %s, %s FROM %s", s.key, strings.Join(s.fields, ", "), s.table)

	params := make([]string, len(s.cols))
	sets := make([]string, len(s.cols))
	for i, c := range s.cols {
		params[i] = fmt.Sprintf("$%d", i+1)
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}

	return &PostgresTable[T]{
		db:          db,
		name:        s.table,
		listQuery:   sel + " ORDER BY " + s.key,
		getQuery:    sel + " WHERE " + s.key + " = $1",
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s", s.table, strings.Join(s.cols, ", "), strings.Join(params, ", "), s.key),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", s.table, strings.Join(sets, ", "), s.key),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", s.table, s.key),
		scan:        s.scan,
		values:      s.values,
	}
}

// List returns every row ordered by key.
func (t *PostgresTable[T]) List(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.listQuery)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

// Get returns the row with key id.
func (t *PostgresTable[T]) Get(ctx context.Context, id int64) (T, error) {
	rec, err := t.scan(t.db.QueryRowContext(ctx, t.getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%s %d: %w", t.name, id, ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("get %s: %w", t.name, err)
	}
	return rec, nil
}

// Insert stores rec and returns its new key.
func (t *PostgresTable[T]) Insert(ctx context.Context, rec T) (int64, error) {
	var id int64
	if err := t.db.QueryRowContext(ctx, t.insertQuery, t.values(rec)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.name, mapError(err))
	}
	return id, nil
}

// Update replaces the row with key id.
func (t *PostgresTable[T]) Update(ctx context.Context, id int64, rec T) error {
	args := append([]any{id}, t.values(rec)...)
	res, err := t.db.ExecContext(ctx, t.updateQuery, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, mapError(err))
	}
	return t.affected(res, id)
}

// Delete removes the row with key id. Dependent rows go with it.
func (t *PostgresTable[T]) Delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, t.deleteQuery, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return t.affected(res, id)
}

func (t *PostgresTable[T]) affected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", t.name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", t.name, id, ErrNotFound)
	}
	return nil
}

// mapError translates constraint violations into the package errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "foreign_key_violation":
		return fmt.Errorf("%w: %s", ErrReference, pqErr.Detail)
	case "unique_violation":
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Detail)
	}
	return err
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Postgres is the PostgreSQL store. The schema comes from db.Schema.
type Postgres struct {
	db *sql.DB

	Animals    *PostgresTable[models.Animal]
	Medical    *PostgresTable[models.MedicalRecord]
	Adoptions  *PostgresTable[models.AdoptionApplication]
	Donors     *PostgresTable[models.Donor]
	Donations  *PostgresTable[models.Donation]
	Volunteers *PostgresTable[models.Volunteer]
}

// NewPostgres binds every table to db.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:         db,
		Animals:    newPostgresTable(db, animalTable),
		Medical:    newPostgresTable(db, medicalTable),
		Adoptions:  newPostgresTable(db, adoptionTable),
		Donors:     newPostgresTable(db, donorTable),
		Donations:  newPostgresTable(db, donationTable),
		Volunteers: newPostgresTable(db, volunteerTable),
	}
}

// FindDonorByName returns the oldest donor with exactly this name.
func (p *Postgres) FindDonorByName(ctx context.Context, name string) (models.Donor, error) {
	d, err := scanDonor(p.db.QueryRowContext(ctx,
		`SELECT donor_id, name, COALESCE(contact_info, '') FROM donor WHERE name = $1 ORDER BY donor_id LIMIT 1`,
		name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("donor %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return d, fmt.Errorf("find donor: %w", err)
	}
	return d, nil
}

// CreateUser stores a new account. Emails are unique.
func (p *Postgres) CreateUser(ctx context.Context, a models.Account) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING user_id`,
		a.Name, a.Email, a.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", mapError(err))
	}
	return id, nil
}

// UserByEmail returns the account registered with email.
func (p *Postgres) UserByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, password, to_char(register_date, 'YYYY-MM-DD') FROM users WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.RegisterDate)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return a, fmt.Errorf("get user: %w", err)
	}
	return a, nil
}

var animalTable = tableSpec[models.Animal]{
	table: "animal",
	key:   "animal_id",
	fields: []string{"name", "species", "COALESCE(breed, '')", "age", "COALESCE(gender, '')",
		"to_char(arrival_date, 'YYYY-MM-DD')", "status", "featured", "COALESCE(description, '')",
		"COALESCE(image_url, '')"},
	cols: []string{"name", "species", "breed", "age", "gender", "arrival_date", "status", "featured",
		"description", "image_url"},
	scan: func(s rowScanner) (models.Animal, error) {
		var a models.Animal
		var age sql.NullInt64
		err := s.Scan(&a.AnimalID, &a.Name, &a.Species, &a.Breed, &age, &a.Gender, &a.ArrivalDate,
			&a.Status, &a.Featured, &a.Description, &a.ImageURL)
		if age.Valid {
			v := int(age.Int64)
			a.Age = &v
		}
		return a, err
	},
	values: func(a models.Animal) []any {
		var age any
		if a.Age != nil {
			age = int64(*a.Age)
		}
		return []any{a.Name, a.Species, nullable(a.Breed), age, nullable(a.Gender), a.ArrivalDate,
			a.Status, a.Featured, nullable(a.Description), nullable(a.ImageURL)}
	},
}

var medicalTable = tableSpec[models.MedicalRecord]{
	table:  "medical_record",
	key:    "record_id",
	fields: []string{"animal_id", "to_char(date, 'YYYY-MM-DD')", "COALESCE(description, '')", "COALESCE(vet_name, '')"},
	cols:   []string{"animal_id", "date", "description", "vet_name"},
	scan: func(s rowScanner) (models.MedicalRecord, error) {
		var r models.MedicalRecord
		err := s.Scan(&r.RecordID, &r.AnimalID, &r.Date, &r.Description, &r.VetName)
		return r, err
	},
	values: func(r models.MedicalRecord) []any {
		return []any{r.AnimalID, r.Date, nullable(r.Description), nullable(r.VetName)}
	},
}

var adoptionTable = tableSpec[models.AdoptionApplication]{
	table: "adoption_application",
	key:   "application_id",
	fields: []string{"animal_id", "animal_name", "applicant_name", "applicant_contact", "applicant_address",
		"to_char(application_date, 'YYYY-MM-DD')", "status"},
	cols: []string{"animal_id", "animal_name", "applicant_name", "applicant_contact", "applicant_address",
		"application_date", "status"},
	scan: func(s rowScanner) (models.AdoptionApplication, error) {
		var a models.AdoptionApplication
		err := s.Scan(&a.ApplicationID, &a.AnimalID, &a.AnimalName, &a.ApplicantName, &a.ApplicantContact,
			&a.ApplicantAddress, &a.ApplicationDate, &a.Status)
		return a, err
	},
	values: func(a models.AdoptionApplication) []any {
		return []any{a.AnimalID, a.AnimalName, a.ApplicantName, a.ApplicantContact, a.ApplicantAddress,
			a.ApplicationDate, string(a.Status)}
	},
}

var donorTable = tableSpec[models.Donor]{
	table:  "donor",
	key:    "donor_id",
	fields: []string{"name", "COALESCE(contact_info, '')"},
	cols:   []string{"name", "contact_info"},
	scan:   scanDonor,
	values: func(d models.Donor) []any { return []any{d.Name, nullable(d.ContactInfo)} },
}

func scanDonor(s rowScanner) (models.Donor, error) {
	var d models.Donor
	err := s.Scan(&d.DonorID, &d.Name, &d.ContactInfo)
	return d, err
}

var donationTable = tableSpec[models.Donation]{
	table: "donation",
	key:   "donation_id",
	fields: []string{"donor_id", "COALESCE(contact_info, '')", "amount::text", "to_char(date, 'YYYY-MM-DD')",
		"COALESCE(method, '')"},
	cols: []string{"donor_id", "contact_info", "amount", "date", "method"},
	scan: func(s rowScanner) (models.Donation, error) {
		var d models.Donation
		err := s.Scan(&d.DonationID, &d.DonorID, &d.ContactInfo, &d.Amount, &d.Date, &d.Method)
		return d, err
	},
	values: func(d models.Donation) []any {
		return []any{d.DonorID, nullable(d.ContactInfo), d.Amount, d.Date, nullable(d.Method)}
	},
}

var volunteerTable = tableSpec[models.Volunteer]{
	table: "volunteer",
	key:   "volunteer_id",
	fields: []string{"name", "COALESCE(contact_info, '')", "to_char(join_date, 'YYYY-MM-DD')",
		"COALESCE(assigned_tasks, '')"},
	cols: []string{"name", "contact_info", "join_date", "assigned_tasks"},
	scan: func(s rowScanner) (models.Volunteer, error) {
		var v models.Volunteer
		err := s.Scan(&v.VolunteerID, &v.Name, &v.ContactInfo, &v.JoinDate, &v.AssignedTasks)
		return v, err
	},
	values: func(v models.Volunteer) []any {
		return []any{v.Name, nullable(v.ContactInfo), v.JoinDate, nullable(v.AssignedTasks)}
	},
}
