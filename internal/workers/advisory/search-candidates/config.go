// internal/workers/advisory/search-candidates/config.go
package searchcandidates

import (
	"time"

	"kaoyan-advisor/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	Index         string
	MaxCandidates int
	CacheTTL      time.Duration
}

func LoadConfig(app *config.Config) *Config {
	cfg := &Config{
		Timeout:       30 * time.Second,
		Index:         "school_majors",
		MaxCandidates: 200,
		CacheTTL:      10 * time.Minute,
	}
	if app == nil {
		return cfg
	}
	if wc, ok := app.Workers[TaskType]; ok && wc.Timeout > 0 {
		cfg.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	if app.Search.Index != "" {
		cfg.Index = app.Search.Index
	}
	if app.Search.MaxCandidates > 0 {
		cfg.MaxCandidates = app.Search.MaxCandidates
	}
	if app.Search.CacheTTL > 0 {
		cfg.CacheTTL = time.Duration(app.Search.CacheTTL) * time.Second
	}
	return cfg
}
