package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultsMap mirrors New() keyed the way the YAML file is. The loader test
// keeps the two in sync.
func defaultsMap() map[string]interface{} {
	d := New()
	return map[string]interface{}{
		"listen":                 d.Listen,
		"charts.top_countries":   d.Charts.TopCountries,
		"charts.breakdown":       d.Charts.Breakdown,
		"charts.gold_proportion": d.Charts.GoldProportion,
		"charts.athletes":        d.Charts.Athletes,
		"charts.sports_pie":      d.Charts.SportsPie,
		"charts.sports_bar":      d.Charts.SportsBar,
		"charts.year_bar":        d.Charts.YearBar,
		"charts.year_pie":        d.Charts.YearPie,
		"charts.trend_countries": d.Charts.TrendCountries,
		"cache.max_entries":      d.Cache.MaxEntries,
		"upload.max_bytes":       d.Upload.MaxBytes,
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML): the path argument, else MEDALS_CONFIG
//  3. env (prefix MEDALS_)
func Load(_ context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrLoadConfig, err)
	}

	// Load from file if provided
	if path == "" {
		path = os.Getenv("MEDALS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: MEDALS_LISTEN, MEDALS_CHARTS_TOP_COUNTRIES, ...
	// Known section prefixes map onto nested keys (charts_x -> charts.x);
	// everything else stays a flat key.
	envProvider := env.Provider("MEDALS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "MEDALS_"))
		for _, section := range []string{"charts", "cache", "upload"} {
			if strings.HasPrefix(s, section+"_") {
				return section + "." + strings.TrimPrefix(s, section+"_")
			}
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy of the defaults
	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
