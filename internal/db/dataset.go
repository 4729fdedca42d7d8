package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

// ErrNoDataset is returned when no upload has been accepted yet.
var ErrNoDataset = errors.New("no dataset loaded")

// UploadMeta describes one accepted dataset upload. ID doubles as the
// dataset version: aggregate caches key on it, so a new upload invalidates
// everything derived from the old table.
type UploadMeta struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Rows       int       `json:"rows"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ReplaceDataset swaps in a new dataset inside a single transaction: the old
// rows are deleted, the new table inserted in file order, and an upload row
// recorded. On any error the previous dataset stays current.
func (db *DB) ReplaceDataset(ctx context.Context, filename string, table []medals.MedalRecord, uploadedAt time.Time) (UploadMeta, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return UploadMeta{}, fmt.Errorf("begin replace dataset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM medals`); err != nil {
		return UploadMeta{}, fmt.Errorf("clear previous dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO medals (athlete, age, country, year, date, sport, gold, silver, bronze, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return UploadMeta{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range table {
		var age interface{}
		if r.Age != nil {
			age = *r.Age
		}
		if _, err := stmt.ExecContext(ctx, r.Athlete, age, r.Country, r.Year, r.Date, r.Sport,
			r.Gold, r.Silver, r.Bronze, r.Total); err != nil {
			return UploadMeta{}, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	meta := UploadMeta{
		ID:         uuid.NewString(),
		Filename:   filename,
		Rows:       len(table),
		UploadedAt: uploadedAt.UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO uploads (id, filename, row_count, uploaded_at) VALUES (?, ?, ?, ?)
	`, meta.ID, meta.Filename, meta.Rows, meta.UploadedAt); err != nil {
		return UploadMeta{}, fmt.Errorf("record upload: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return UploadMeta{}, fmt.Errorf("commit replace dataset: %w", err)
	}
	return meta, nil
}

// Records returns the current dataset in upload order. An empty dataset
// returns an empty table, not an error.
func (db *DB) Records(ctx context.Context) ([]medals.MedalRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT athlete, age, country, year, date, sport, gold, silver, bronze, total
		FROM medals ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query medals: %w", err)
	}
	defer rows.Close()

	table := []medals.MedalRecord{}
	for rows.Next() {
		var r medals.MedalRecord
		var age sql.NullFloat64
		var date sql.NullString
		if err := rows.Scan(&r.Athlete, &age, &r.Country, &r.Year, &date, &r.Sport,
			&r.Gold, &r.Silver, &r.Bronze, &r.Total); err != nil {
			return nil, fmt.Errorf("scan medal row: %w", err)
		}
		if age.Valid {
			v := age.Float64
			r.Age = &v
		}
		r.Date = date.String
		table = append(table, r)
	}
	return table, rows.Err()
}

// CurrentUpload returns the metadata of the active dataset, or ErrNoDataset.
func (db *DB) CurrentUpload(ctx context.Context) (UploadMeta, error) {
	var meta UploadMeta
	err := db.QueryRowContext(ctx, `
		SELECT id, filename, row_count, uploaded_at
		FROM uploads ORDER BY uploaded_at DESC, rowid DESC LIMIT 1
	`).Scan(&meta.ID, &meta.Filename, &meta.Rows, &meta.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UploadMeta{}, ErrNoDataset
	}
	if err != nil {
		return UploadMeta{}, fmt.Errorf("query current upload: %w", err)
	}
	return meta, nil
}

// Uploads returns the upload history, most recent first.
func (db *DB) Uploads(ctx context.Context) ([]UploadMeta, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, filename, row_count, uploaded_at
		FROM uploads ORDER BY uploaded_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	uploads := []UploadMeta{}
	for rows.Next() {
		var meta UploadMeta
		if err := rows.Scan(&meta.ID, &meta.Filename, &meta.Rows, &meta.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload row: %w", err)
		}
		uploads = append(uploads, meta)
	}
	return uploads, rows.Err()
}

// DistinctYears lists the years present in the dataset, ascending.
func (db *DB) DistinctYears(ctx context.Context) ([]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT year FROM medals ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("query distinct years: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// DistinctCountries lists the countries present in the dataset, ascending.
func (db *DB) DistinctCountries(ctx context.Context) ([]string, error) {
	return db.distinctText(ctx, `SELECT DISTINCT country FROM medals ORDER BY country`)
}

// DistinctSports lists the sports present in the dataset, ascending.
func (db *DB) DistinctSports(ctx context.Context) ([]string, error) {
	return db.distinctText(ctx, `SELECT DISTINCT sport FROM medals ORDER BY sport`)
}

func (db *DB) distinctText(ctx context.Context, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query distinct values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// RecordCount returns the number of rows in the current dataset.
func (db *DB) RecordCount(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM medals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count medals: %w", err)
	}
	return n, nil
}
