// internal/workers/advisory/score-candidates/config.go
package scorecandidates

import (
	"time"

	"kaoyan-advisor/internal/common/config"
	"kaoyan-advisor/internal/scoring"
)

type Config struct {
	Timeout time.Duration
	Scoring scoring.Options
}

func LoadConfig(app *config.Config) *Config {
	cfg := &Config{
		Timeout: 30 * time.Second,
		Scoring: scoring.DefaultOptions(),
	}
	if app == nil {
		return cfg
	}
	if wc, ok := app.Workers[TaskType]; ok && wc.Timeout > 0 {
		cfg.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	cfg.Scoring = scoring.OptionsFromConfig(app.Scoring)
	return cfg
}
