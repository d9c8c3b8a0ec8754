/*
Package sqlite provides a SQLite-backed Persister for the drug list.

PURPOSE:
  The alternative to the JSON file for installations that prefer a real
  database (concurrent tooling, backups via .dump, ad-hoc queries).
  Implements the same reserve.Persister contract: atomic load/save of the
  whole ordered list.

SCHEMA:
  drugs: one row per drug, ordered by position. Every Rational column is
  TEXT in the canonical "n/d" encoding (rational.Rational implements
  driver.Valuer / sql.Scanner), so quantities round-trip exactly.
  Components are a JSON TEXT column; they are opaque to SQL.

SAVE SEMANTICS:
  Save replaces the whole table inside one transaction. The dataset is a
  household's medicine cabinet; simplicity wins over row diffing.

WAL MODE:
  Opened with WAL so a reader never blocks the single writer.

USAGE:
  store, err := sqlite.New("./reserves.db")
  if err != nil { ... }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/medcabinet/reserve-engine/reserve"
)

// Store implements reserve.Persister using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS drugs (
		position INTEGER PRIMARY KEY,
		trade_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		components_json TEXT NOT NULL DEFAULT '[]',
		remaining TEXT NOT NULL,
		dosage_morning TEXT NOT NULL,
		dosage_noon TEXT NOT NULL,
		dosage_evening TEXT NOT NULL,
		dosage_night TEXT NOT NULL,
		units_per_package TEXT NOT NULL,
		packages_per_prescription TEXT NOT NULL,
		show INTEGER NOT NULL DEFAULT 1,
		obverse_photo TEXT NOT NULL DEFAULT '',
		reverse_photo TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the full drug list ordered by position.
func (s *Store) Load(ctx context.Context) ([]reserve.Drug, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_name, description, components_json,
		       remaining,
		       dosage_morning, dosage_noon, dosage_evening, dosage_night,
		       units_per_package, packages_per_prescription,
		       show, obverse_photo, reverse_photo
		FROM drugs
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query drugs: %w", err)
	}
	defer rows.Close()

	drugs := []reserve.Drug{}
	for rows.Next() {
		var d reserve.Drug
		var componentsJSON string
		err := rows.Scan(
			&d.TradeName, &d.Description, &componentsJSON,
			&d.Remaining,
			&d.DosageMorning, &d.DosageNoon, &d.DosageEvening, &d.DosageNight,
			&d.UnitsPerPackage, &d.PackagesPerPrescription,
			&d.Show, &d.ObversePhoto, &d.ReversePhoto,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drug: %w", err)
		}
		if err := json.Unmarshal([]byte(componentsJSON), &d.Components); err != nil {
			return nil, fmt.Errorf("failed to decode components for %q: %w", d.TradeName, err)
		}
		drugs = append(drugs, d)
	}
	return drugs, rows.Err()
}

// Save replaces the stored list with the given state in one transaction.
func (s *Store) Save(ctx context.Context, drugs []reserve.Drug) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM drugs`); err != nil {
		return fmt.Errorf("failed to clear drugs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO drugs (
			position, trade_name, description, components_json,
			remaining,
			dosage_morning, dosage_noon, dosage_evening, dosage_night,
			units_per_package, packages_per_prescription,
			show, obverse_photo, reverse_photo
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range drugs {
		componentsJSON, err := json.Marshal(d.Components)
		if err != nil {
			return fmt.Errorf("failed to encode components for %q: %w", d.TradeName, err)
		}
		_, err = stmt.ExecContext(ctx,
			i, d.TradeName, d.Description, string(componentsJSON),
			d.Remaining,
			d.DosageMorning, d.DosageNoon, d.DosageEvening, d.DosageNight,
			d.UnitsPerPackage, d.PackagesPerPrescription,
			d.Show, d.ObversePhoto, d.ReversePhoto,
		)
		if err != nil {
			return fmt.Errorf("failed to insert drug %d: %w", i, err)
		}
	}

	return tx.Commit()
}
