// internal/workers/advisory/validate-preferences/config.go
package validatepreferences

import (
	"time"

	"kaoyan-advisor/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(app *config.Config) *Config {
	cfg := &Config{Timeout: 5 * time.Second}
	if app == nil {
		return cfg
	}
	if wc, ok := app.Workers[TaskType]; ok && wc.Timeout > 0 {
		cfg.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	return cfg
}
