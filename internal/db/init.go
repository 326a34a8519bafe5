// Package db opens the PostgreSQL database behind the API stub and creates
// the shelter tables.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Schema creates every shelter table. Deleting an animal removes its
// medical records and adoption applications; deleting a donor removes
// their donations.
const Schema = `
CREATE TABLE IF NOT EXISTS animal (
    animal_id    SERIAL PRIMARY KEY,
    name         VARCHAR(100) NOT NULL,
    species      VARCHAR(50) NOT NULL,
    breed        VARCHAR(100),
    age          INTEGER,
    gender       VARCHAR(10),
    arrival_date DATE NOT NULL DEFAULT CURRENT_DATE,
    status       VARCHAR(20) NOT NULL DEFAULT 'Available',
    featured     BOOLEAN NOT NULL DEFAULT FALSE,
    description  TEXT,
    image_url    TEXT
);

CREATE TABLE IF NOT EXISTS medical_record (
    record_id   SERIAL PRIMARY KEY,
    animal_id   INTEGER NOT NULL REFERENCES animal(animal_id) ON DELETE CASCADE,
    date        DATE NOT NULL DEFAULT CURRENT_DATE,
    description TEXT,
    vet_name    VARCHAR(100)
);

CREATE TABLE IF NOT EXISTS adoption_application (
    application_id    SERIAL PRIMARY KEY,
    animal_id         INTEGER NOT NULL REFERENCES animal(animal_id) ON DELETE CASCADE,
    animal_name       VARCHAR(100) NOT NULL,
    applicant_name    VARCHAR(100) NOT NULL,
    applicant_contact VARCHAR(100) NOT NULL,
    applicant_address VARCHAR(200) NOT NULL,
    application_date  DATE NOT NULL DEFAULT CURRENT_DATE,
    status            VARCHAR(20) NOT NULL DEFAULT 'Pending'
);

CREATE TABLE IF NOT EXISTS donor (
    donor_id     SERIAL PRIMARY KEY,
    name         VARCHAR(100) NOT NULL,
    contact_info VARCHAR(150)
);

CREATE TABLE IF NOT EXISTS donation (
    donation_id  SERIAL PRIMARY KEY,
    donor_id     INTEGER NOT NULL REFERENCES donor(donor_id) ON DELETE CASCADE,
    contact_info VARCHAR(150),
    amount       NUMERIC(10, 2) NOT NULL,
    date         DATE NOT NULL DEFAULT CURRENT_DATE,
    method       VARCHAR(50)
);

CREATE TABLE IF NOT EXISTS volunteer (
    volunteer_id   SERIAL PRIMARY KEY,
    name           VARCHAR(100) NOT NULL,
    contact_info   VARCHAR(150),
    join_date      DATE NOT NULL DEFAULT CURRENT_DATE,
    assigned_tasks VARCHAR(250)
);

CREATE TABLE IF NOT EXISTS users (
    user_id       SERIAL PRIMARY KEY,
    name          VARCHAR(100) NOT NULL,
    email         VARCHAR(150) NOT NULL UNIQUE,
    password      VARCHAR(256) NOT NULL,
    register_date DATE NOT NULL DEFAULT CURRENT_DATE
);
`

// pingTimeout bounds the initial connectivity check.
const pingTimeout = 5 * time.Second

// InitPostgres connects to dsn and applies Schema.
func InitPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies Schema on an open database.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
