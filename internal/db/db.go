// Package db implements the dashboard's session store: a SQLite database
// holding the current medal dataset and the upload history. The store is
// in-memory by default (a new upload replaces the previous dataset; nothing
// survives a restart) but accepts a file path for operators who want one.
package db

import (
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// NewDB opens the medal store and ensures the base schema exists. An empty
// path (or ":memory:") selects the in-memory session store. The in-memory
// DSN is a uniquely named shared-cache database limited to one connection:
// database/sql pools connections, and a plain :memory: DSN would hand every
// pooled connection its own empty database.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS medals (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			athlete           TEXT NOT NULL,
			age               REAL,
			country           TEXT NOT NULL,
			year              INTEGER NOT NULL,
			date              TEXT,
			sport             TEXT NOT NULL,
			gold              INTEGER NOT NULL DEFAULT 0,
			silver            INTEGER NOT NULL DEFAULT 0,
			bronze            INTEGER NOT NULL DEFAULT 0,
			total             INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS uploads (
			id                TEXT PRIMARY KEY,
			filename          TEXT NOT NULL,
			row_count         INTEGER NOT NULL,
			uploaded_at       TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_medals_year    ON medals(year);
		CREATE INDEX IF NOT EXISTS idx_medals_country ON medals(country);
		CREATE INDEX IF NOT EXISTS idx_medals_sport   ON medals(sport);
	`)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Applied per connection via the driver's _pragma DSN parameters, since
// database/sql hands out pooled connections.
const filePragmas = "_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=temp_store(MEMORY)"

// WAL is meaningless for an in-memory database, so it is left out there.
const memoryPragmas = "_pragma=busy_timeout(5000)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=temp_store(MEMORY)"

// OpenDB opens the database without schema initialization. The migrate CLI
// uses this so migrations fully own the schema.
func OpenDB(path string) (*DB, error) {
	dsn := path
	memory := dsn == "" || dsn == ":memory:"
	switch {
	case memory:
		dsn = fmt.Sprintf("file:medals-%s?mode=memory&cache=shared&%s", uuid.NewString(), memoryPragmas)
	case strings.Contains(dsn, "?"):
		dsn += "&" + filePragmas
	default:
		dsn += "?" + filePragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return &DB{db}, nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://medals.db", db.DB, &tailsql.DBOptions{
		Label: "Medals DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("medals-backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		// Send the backup file to the client
		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()

		// Copy the backup file content to the gzip writer
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))

	debug.Handle("db-stats", "Row counts and size of the medal store", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := db.GetDatabaseStats()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to collect database stats: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Printf("Failed to encode database stats: %v", err)
		}
	}))
}
