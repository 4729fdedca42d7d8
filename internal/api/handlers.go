package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/navadeep914/olampic-dataset/internal/csvio"
	"github.com/navadeep914/olampic-dataset/internal/db"
	"github.com/navadeep914/olampic-dataset/internal/httputil"
	"github.com/navadeep914/olampic-dataset/internal/medals"
	"github.com/navadeep914/olampic-dataset/internal/metrics"
	"github.com/navadeep914/olampic-dataset/internal/monitoring"
	"github.com/navadeep914/olampic-dataset/internal/version"
)

// splitParam flattens repeated or comma-separated query values.
func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseFilterSpec reads the years/countries/sports selections from the
// query string. Each dimension accepts repeated params or comma lists;
// an absent dimension selects everything.
func parseFilterSpec(r *http.Request) (medals.FilterSpec, error) {
	q := r.URL.Query()

	var spec medals.FilterSpec
	for _, raw := range splitParam(q["years"]) {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return medals.FilterSpec{}, fmt.Errorf("invalid 'years' value %q", raw)
		}
		spec.Years = append(spec.Years, y)
	}
	spec.Countries = splitParam(q["countries"])
	spec.Sports = splitParam(q["sports"])
	return spec, nil
}

// parseLimit reads a non-negative row limit from the query string. Zero
// means unlimited.
func parseLimit(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid '%s' parameter", name)
	}
	return n, nil
}

// table returns the current dataset filtered by spec, with the dataset
// version that keys the memo cache. No dataset yet is not an error: it
// yields an empty table and a blank version.
func (s *Server) table(ctx context.Context, spec medals.FilterSpec) ([]medals.MedalRecord, string, error) {
	meta, err := s.db.CurrentUpload(ctx)
	if errors.Is(err, db.ErrNoDataset) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	records, err := s.db.Records(ctx)
	if err != nil {
		return nil, "", err
	}
	return medals.Filter(records, spec), meta.ID, nil
}

// aggregate runs the ranking pipeline through the memo cache.
func (s *Server) aggregate(table []medals.MedalRecord, version string, spec medals.FilterSpec, group medals.GroupKey) medals.AggregateResult {
	if version != "" {
		if result, ok := s.cache.Get(version, spec, group); ok {
			metrics.RecordCacheHit()
			monitoring.Debugf("aggregate cache hit: version=%s group=%s filter=%s", version, group, spec.CacheKey())
			return result
		}
		metrics.RecordCacheMiss()
	}

	start := time.Now()
	result := medals.Aggregate(table, group)
	metrics.RecordAggregateDuration(float64(time.Since(start).Nanoseconds()) / 1e6)

	if version != "" {
		s.cache.Put(version, spec, group, result)
		_, _, entries := s.cache.Stats()
		metrics.UpdateCacheEntries(entries)
	}
	return result
}

type uploadResponse struct {
	Upload  db.UploadMeta  `json:"upload"`
	Summary medals.Summary `json:"summary"`
}

type uploadErrorResponse struct {
	Error  string               `json:"error"`
	Kind   csvio.ValidationKind `json:"kind"`
	Column string               `json:"column,omitempty"`
	Row    int                  `json:"row,omitempty"`
}

// handleUpload replaces the current dataset with the CSV in the multipart
// "file" field. A validation failure leaves the previous dataset current.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RecordUploadRejected()
			httputil.WriteJSONError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit))
			return
		}
		metrics.RecordUploadRejected()
		httputil.BadRequest(w, "expected multipart form with a 'file' field")
		return
	}
	defer file.Close()

	start := time.Now()
	table, err := csvio.Load(file)
	if err != nil {
		metrics.RecordUploadRejected()
		var verr *csvio.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteJSON(w, http.StatusBadRequest, uploadErrorResponse{
				Error:  verr.Error(),
				Kind:   verr.Kind,
				Column: verr.Column,
				Row:    verr.Row,
			})
			return
		}
		httputil.BadRequest(w, fmt.Sprintf("failed to read csv: %v", err))
		return
	}

	meta, err := s.db.ReplaceDataset(r.Context(), header.Filename, table, s.clock.Now())
	if err != nil {
		metrics.RecordUploadRejected()
		httputil.InternalServerError(w, fmt.Sprintf("failed to store dataset: %v", err))
		return
	}

	s.cache.Reset()
	metrics.UpdateCacheEntries(0)
	metrics.RecordUploadAccepted()
	metrics.RecordUploadDuration(float64(time.Since(start).Nanoseconds()) / 1e6)

	summary := medals.Summarize(table)
	metrics.UpdateDatasetStats(summary.Records, summary.Years, summary.Countries)
	monitoring.Logf("dataset replaced: %s (%d rows, version %s)", meta.Filename, meta.Rows, meta.ID)

	httputil.WriteJSONOK(w, uploadResponse{Upload: meta, Summary: summary})
}

type summaryResponse struct {
	Summary medals.Summary `json:"summary"`
	NoData  bool           `json:"no_data,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	httputil.WriteJSONOK(w, summaryResponse{
		Summary: medals.Summarize(table),
		NoData:  len(table) == 0,
	})
}

type aggregateResponse struct {
	Group  medals.GroupKey       `json:"group"`
	Rows   []medals.AggregateRow `json:"rows"`
	NoData bool                  `json:"no_data,omitempty"`
}

// handleAggregate serves the base ranking table. group defaults to country;
// limit=0 returns every row.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	group := medals.GroupCountry
	if g := r.URL.Query().Get("group"); g != "" {
		parsed, err := medals.ParseGroupKey(g)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		group = parsed
	}

	limit, err := parseLimit(r, "limit", 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, ver, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	result := s.aggregate(table, ver, spec, group).Top(limit)
	httputil.WriteJSONOK(w, aggregateResponse{
		Group:  result.Group,
		Rows:   result.Rows,
		NoData: len(result.Rows) == 0,
	})
}

type athletesResponse struct {
	Rows   []medals.AthleteRow `json:"rows"`
	NoData bool                `json:"no_data,omitempty"`
}

func (s *Server) handleTopAthletes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit, err := parseLimit(r, "limit", medals.DefaultTopAthletes)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	rows := medals.TopAthletes(table, limit)
	httputil.WriteJSONOK(w, athletesResponse{Rows: rows, NoData: len(rows) == 0})
}

type perCountryResponse struct {
	Rows   []medals.CountryAthletes `json:"rows"`
	NoData bool                     `json:"no_data,omitempty"`
}

func (s *Server) handleAthletesPerCountry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit, err := parseLimit(r, "limit", 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	rows := medals.AthletesPerCountry(table, limit)
	httputil.WriteJSONOK(w, perCountryResponse{Rows: rows, NoData: len(rows) == 0})
}

type proportionResponse struct {
	Group  medals.GroupKey        `json:"group"`
	Rows   []medals.ProportionRow `json:"rows"`
	NoData bool                   `json:"no_data,omitempty"`
}

func (s *Server) handleGoldProportion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	group := medals.GroupCountry
	if g := r.URL.Query().Get("group"); g != "" {
		parsed, err := medals.ParseGroupKey(g)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		group = parsed
	}

	limit, err := parseLimit(r, "limit", 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, ver, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	rows := medals.GoldProportion(s.aggregate(table, ver, spec, group).Top(limit))
	httputil.WriteJSONOK(w, proportionResponse{Group: group, Rows: rows, NoData: len(rows) == 0})
}

type yearOverYearResponse struct {
	From   int                      `json:"from"`
	To     int                      `json:"to"`
	Rows   []medals.YearOverYearRow `json:"rows"`
	NoData bool                     `json:"no_data,omitempty"`
}

func (s *Server) handleYearOverYear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		httputil.BadRequest(w, "invalid 'from' parameter")
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		httputil.BadRequest(w, "invalid 'to' parameter")
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	rows, err := medals.YearOverYear(table, from, to)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	httputil.WriteJSONOK(w, yearOverYearResponse{
		From:   from,
		To:     to,
		Rows:   rows,
		NoData: len(rows) == 0,
	})
}

type improvementResponse struct {
	Rows   []medals.ImprovementRow `json:"rows"`
	NoData bool                    `json:"no_data,omitempty"`
}

func (s *Server) handleImprovement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit, err := parseLimit(r, "limit", 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	rows := medals.Improvement(table, limit)
	httputil.WriteJSONOK(w, improvementResponse{Rows: rows, NoData: len(rows) == 0})
}

type trendResponse struct {
	Series []medals.TrendSeries `json:"series"`
	NoData bool                 `json:"no_data,omitempty"`
}

// handleTrend serves per-country medal series with least-squares slopes.
// Without an explicit country list the top configured countries are used.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	top, err := parseLimit(r, "top", s.cfg.Charts.TrendCountries)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	// The countries filter doubles as the series selection; without one the
	// top countries of the filtered aggregate are followed.
	series := medals.CountryTrend(table, spec.Countries, top)
	httputil.WriteJSONOK(w, trendResponse{Series: series, NoData: len(series) == 0})
}

type filtersResponse struct {
	Years     []int    `json:"years"`
	Countries []string `json:"countries"`
	Sports    []string `json:"sports"`
}

// handleFilters reports the distinct filterable values of the current
// dataset, for populating the shell page's selectors.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	ctx := r.Context()
	years, err := s.db.DistinctYears(ctx)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list years: %v", err))
		return
	}
	countries, err := s.db.DistinctCountries(ctx)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list countries: %v", err))
		return
	}
	sports, err := s.db.DistinctSports(ctx)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list sports: %v", err))
		return
	}

	httputil.WriteJSONOK(w, filtersResponse{Years: years, Countries: countries, Sports: sports})
}

func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	uploads, err := s.db.Uploads(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list uploads: %v", err))
		return
	}
	httputil.WriteJSONOK(w, uploads)
}

// handleExportMedals streams the filtered dataset back in the input schema.
func (s *Server) handleExportMedals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, _, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	metrics.RecordExport("medals")
	httputil.WriteCSVAttachment(w, "medals.csv", func(w io.Writer) error {
		return csvio.Write(w, table)
	})
}

// handleExportSummary streams the per-country aggregate of the filtered
// dataset as CSV.
func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	table, ver, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	result := s.aggregate(table, ver, spec, medals.GroupCountry)
	metrics.RecordExport("summary")
	httputil.WriteCSVAttachment(w, "summary.csv", func(w io.Writer) error {
		return csvio.WriteAggregate(w, result)
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	rows, err := s.db.RecordCount(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("store unavailable: %v", err))
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": s.clock.Since(s.started).Seconds(),
		"rows":           rows,
	})
}
