// Package api serves the medal dashboard over HTTP: a JSON API for every
// aggregation view, go-echarts chart pages, CSV export, the upload endpoint,
// and the embedded dashboard shell.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/navadeep914/olampic-dataset/internal/config"
	"github.com/navadeep914/olampic-dataset/internal/db"
	"github.com/navadeep914/olampic-dataset/internal/medals"
	"github.com/navadeep914/olampic-dataset/internal/metrics"
	"github.com/navadeep914/olampic-dataset/internal/timeutil"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db      *db.DB
	cfg     *config.Config
	cache   *medals.Cache
	clock   timeutil.Clock
	started time.Time
}

// NewServer builds a dashboard server over the given session store. A nil
// cfg selects the defaults; a nil clock selects the real one.
func NewServer(database *db.DB, cfg *config.Config, clock timeutil.Clock) *Server {
	if cfg == nil {
		cfg = config.New()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Server{
		db:      database,
		cfg:     cfg,
		cache:   medals.NewCache(cfg.Cache.MaxEntries),
		clock:   clock,
		started: clock.Now(),
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// MetricsMiddleware records request counts and latencies per path, method
// and status code.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		status := strconv.Itoa(lrw.statusCode)
		metrics.RecordHTTPRequest(r.URL.Path, r.Method, status)
		metrics.RecordHTTPRequestDuration(r.URL.Path, r.Method, status,
			float64(time.Since(start).Nanoseconds())/1e6)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveShell)
	mux.HandleFunc("/healthz", s.healthz)

	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/aggregate", s.handleAggregate)
	mux.HandleFunc("/api/athletes/top", s.handleTopAthletes)
	mux.HandleFunc("/api/athletes/per-country", s.handleAthletesPerCountry)
	mux.HandleFunc("/api/gold-proportion", s.handleGoldProportion)
	mux.HandleFunc("/api/year-over-year", s.handleYearOverYear)
	mux.HandleFunc("/api/improvement", s.handleImprovement)
	mux.HandleFunc("/api/trend", s.handleTrend)
	mux.HandleFunc("/api/filters", s.handleFilters)
	mux.HandleFunc("/api/uploads", s.handleUploads)
	mux.HandleFunc("/api/export/medals.csv", s.handleExportMedals)
	mux.HandleFunc("/api/export/summary.csv", s.handleExportSummary)
	mux.HandleFunc("/api/version", s.handleVersion)

	mux.HandleFunc("/charts/top-countries", s.chartTopCountries)
	mux.HandleFunc("/charts/medal-breakdown", s.chartMedalBreakdown)
	mux.HandleFunc("/charts/gold-proportion", s.chartGoldProportion)
	mux.HandleFunc("/charts/athletes", s.chartAthletes)
	mux.HandleFunc("/charts/sports", s.chartSports)
	mux.HandleFunc("/charts/sports-breakdown", s.chartSportsBreakdown)
	mux.HandleFunc("/charts/year-rankings", s.chartYearRankings)
	mux.HandleFunc("/charts/trend", s.chartTrend)
	mux.HandleFunc("/charts/trend.png", s.chartTrendPNG)
	mux.HandleFunc("/charts/dashboard", s.chartDashboard)

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	return mux
}
