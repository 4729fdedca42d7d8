package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

// newTestDB opens a file-backed store in the test's temp dir so every test
// sees a clean schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := NewDB(filepath.Join(t.TempDir(), "medals.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// seedDataset replaces the dataset with table and returns the upload meta.
func seedDataset(t *testing.T, database *DB, table []medals.MedalRecord) UploadMeta {
	t.Helper()
	meta, err := database.ReplaceDataset(context.Background(), "test.csv", table, time.Now())
	if err != nil {
		t.Fatalf("ReplaceDataset failed: %v", err)
	}
	return meta
}

// testRecord builds a minimal valid medal record.
func testRecord(athlete, country string, year int, sport string, gold, silver, bronze int) medals.MedalRecord {
	return medals.MedalRecord{
		Athlete: athlete,
		Country: country,
		Year:    year,
		Sport:   sport,
		Gold:    gold,
		Silver:  silver,
		Bronze:  bronze,
		Total:   gold + silver + bronze,
	}
}
