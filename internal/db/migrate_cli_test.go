package db

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintMigrateHelp(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("PrintMigrateHelp panicked: %v", r)
		}
	}()

	PrintMigrateHelp()
}

// Test that we can get migrations FS
func TestGetMigrationsFS(t *testing.T) {
	migrationsFS, err := getMigrationsFS()
	if err != nil {
		t.Fatalf("getMigrationsFS failed: %v", err)
	}

	if migrationsFS == nil {
		t.Error("Expected non-nil migrations FS")
	}
}

// Test OpenDB function used by migrate CLI
func TestOpenDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	// Verify the database is actually opened
	err = db.DB.Ping()
	if err != nil {
		t.Errorf("Database ping failed: %v", err)
	}

	// OpenDB must not create any tables; migrations own the schema.
	var tables int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
	`).Scan(&tables)
	if err != nil {
		t.Fatalf("Failed to count tables: %v", err)
	}
	if tables != 0 {
		t.Errorf("Expected no tables after OpenDB, got %d", tables)
	}
}

func TestHandleMigrateUp(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer database.Close()

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		t.Fatalf("getMigrationsFS failed: %v", err)
	}

	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	handleMigrateUp(database, migrationsFS)

	output := buf.String()
	if output == "" {
		t.Error("Expected log output from handleMigrateUp")
	}
	if !strings.Contains(output, "migrations applied") {
		t.Errorf("Expected success message in log output, got: %s", output)
	}

	version, _, err := database.MigrateVersion(migrationsFS)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 3 {
		t.Errorf("expected version 3 after handleMigrateUp, got %d", version)
	}
}

func TestHandleMigrateStatus(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer database.Close()

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		t.Fatalf("getMigrationsFS failed: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("handleMigrateStatus panicked: %v", r)
		}
	}()

	// Fresh store: version 0, not dirty, no bookkeeping table yet.
	handleMigrateStatus(database, migrationsFS)
}

func TestHandleMigrateBaseline(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer database.Close()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	handleMigrateBaseline(database, "2")

	var version int
	err = database.QueryRow("SELECT version FROM schema_migrations LIMIT 1").Scan(&version)
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected baseline version 2, got %d", version)
	}
}
