// Package config defines the dashboard's configuration and its loading
// order: built-in defaults, then an optional YAML file, then MEDALS_*
// environment variables.
package config

import (
	"fmt"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

// Config contains process configuration.
type Config struct {
	// Listen configures the HTTP listen address, e.g. ":8080".
	Listen string `koanf:"listen"`

	// Charts bounds how many rows each chart renders.
	Charts ChartsConfig `koanf:"charts"`

	// Cache bounds the aggregate memo cache.
	Cache CacheConfig `koanf:"cache"`

	// Upload bounds CSV uploads.
	Upload UploadConfig `koanf:"upload"`
}

// ChartsConfig holds per-chart row limits.
type ChartsConfig struct {
	// TopCountries is the bar count on the top-countries chart.
	TopCountries int `koanf:"top_countries"`

	// Breakdown is the country count on the stacked medal-breakdown chart.
	Breakdown int `koanf:"breakdown"`

	// GoldProportion is the row count on the gold-proportion chart.
	GoldProportion int `koanf:"gold_proportion"`

	// Athletes is the row count on the top-athletes chart.
	Athletes int `koanf:"athletes"`

	// SportsPie is the slice count on the sports pie chart.
	SportsPie int `koanf:"sports_pie"`

	// SportsBar is the sport count on the grouped sports bar chart.
	SportsBar int `koanf:"sports_bar"`

	// YearBar and YearPie bound the per-year rankings page.
	YearBar int `koanf:"year_bar"`
	YearPie int `koanf:"year_pie"`

	// TrendCountries is how many leading countries the trend chart follows
	// when the request names none.
	TrendCountries int `koanf:"trend_countries"`
}

// CacheConfig bounds the aggregate memo cache.
type CacheConfig struct {
	// MaxEntries caps cached aggregate results. Zero selects the built-in
	// default.
	MaxEntries int `koanf:"max_entries"`
}

// UploadConfig bounds CSV uploads.
type UploadConfig struct {
	// MaxBytes caps the size of an uploaded CSV file.
	MaxBytes int64 `koanf:"max_bytes"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Listen: ":8080",
		Charts: ChartsConfig{
			TopCountries:   15,
			Breakdown:      10,
			GoldProportion: 20,
			Athletes:       medals.DefaultTopAthletes,
			SportsPie:      10,
			SportsBar:      15,
			YearBar:        15,
			YearPie:        10,
			TrendCountries: medals.DefaultTrendCountries,
		},
		Cache: CacheConfig{
			MaxEntries: medals.DefaultCacheEntries,
		},
		Upload: UploadConfig{
			MaxBytes: 32 << 20, // 32 MiB
		},
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen must not be empty", ErrInvalidConfig)
	}

	limits := []struct {
		key   string
		value int
	}{
		{"charts.top_countries", c.Charts.TopCountries},
		{"charts.breakdown", c.Charts.Breakdown},
		{"charts.gold_proportion", c.Charts.GoldProportion},
		{"charts.athletes", c.Charts.Athletes},
		{"charts.sports_pie", c.Charts.SportsPie},
		{"charts.sports_bar", c.Charts.SportsBar},
		{"charts.year_bar", c.Charts.YearBar},
		{"charts.year_pie", c.Charts.YearPie},
		{"charts.trend_countries", c.Charts.TrendCountries},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, l.key, l.value)
		}
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("%w: cache.max_entries must not be negative, got %d", ErrInvalidConfig, c.Cache.MaxEntries)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%w: upload.max_bytes must be positive, got %d", ErrInvalidConfig, c.Upload.MaxBytes)
	}
	return nil
}
