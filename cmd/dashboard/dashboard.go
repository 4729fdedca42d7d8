package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/navadeep914/olampic-dataset/internal/api"
	"github.com/navadeep914/olampic-dataset/internal/config"
	"github.com/navadeep914/olampic-dataset/internal/csvio"
	"github.com/navadeep914/olampic-dataset/internal/db"
	"github.com/navadeep914/olampic-dataset/internal/httputil"
	"github.com/navadeep914/olampic-dataset/internal/monitoring"
	"github.com/navadeep914/olampic-dataset/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Run in dev mode (verbose logging)")
	listen      = flag.String("listen", "", "HTTP listen address (overrides config)")
	configPath  = flag.String("config", "", "Path to YAML config file (default $MEDALS_CONFIG)")
	dbFile      = flag.String("db", "", "Path to the SQLite database file (default in-memory)")
	loadSource  = flag.String("load", "", "CSV file path or http(s) URL to load at startup")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// loadDataset reads a medals CSV from a local path or an http(s) URL and
// installs it as the current dataset.
func loadDataset(ctx context.Context, database *db.DB, client httputil.HTTPClient, source string, uploadedAt time.Time) (db.UploadMeta, error) {
	var body io.ReadCloser
	var name string

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		u, err := url.Parse(source)
		if err != nil {
			return db.UploadMeta{}, fmt.Errorf("invalid URL %s: %v", source, err)
		}
		resp, err := client.Get(source)
		if err != nil {
			return db.UploadMeta{}, fmt.Errorf("failed to fetch %s: %v", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return db.UploadMeta{}, fmt.Errorf("failed to fetch %s: status %d", source, resp.StatusCode)
		}
		body = resp.Body
		name = path.Base(u.Path)
		if name == "." || name == "/" {
			name = "medals.csv"
		}
	} else {
		f, err := os.Open(source)
		if err != nil {
			return db.UploadMeta{}, fmt.Errorf("failed to open %s: %v", source, err)
		}
		body = f
		name = filepath.Base(source)
	}
	defer body.Close()

	table, err := csvio.Load(body)
	if err != nil {
		return db.UploadMeta{}, fmt.Errorf("failed to parse %s: %v", source, err)
	}

	meta, err := database.ReplaceDataset(ctx, name, table, uploadedAt)
	if err != nil {
		return db.UploadMeta{}, fmt.Errorf("failed to store dataset: %v", err)
	}
	return meta, nil
}

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Subcommands run and exit before the server starts
	if flag.Arg(0) == "migrate" {
		db.RunMigrateCommand(flag.Args()[1:], *dbFile)
		return
	}

	monitoring.SetVerbose(*devMode)

	cfg, err := config.Load(context.Background(), *configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// The flag wins over the file and the environment
	if *listen != "" {
		cfg.Listen = *listen
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *loadSource != "" {
		client := httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second})
		meta, err := loadDataset(context.Background(), database, client, *loadSource, time.Now())
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		log.Printf("Loaded dataset %s (%d rows, version %s)", meta.Filename, meta.Rows, meta.ID)
	}

	// Create a wait group for the HTTP server routine
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		// create a new API server instance over the medal store
		// and mount the API handlers
		mux := api.NewServer(database, cfg, nil).ServeMux()

		database.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    cfg.Listen,
			Handler: api.LoggingMiddleware(api.MetricsMiddleware(mux)),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Starting HTTP server on %s", cfg.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a shorter timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			// Force close the server if graceful shutdown fails
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
