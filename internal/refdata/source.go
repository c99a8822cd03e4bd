package refdata

import (
	"context"
	"database/sql"
	"fmt"

	"kaoyan-advisor/internal/common/config"
	"kaoyan-advisor/internal/common/logger"
)

// SourceLoader returns the LoadFunc for the configured reference data
// source. db is only used, and then required, for the postgres source.
func SourceLoader(cfg config.ReferenceDataConfig, db *sql.DB, log logger.Logger) (LoadFunc, error) {
	switch cfg.Source {
	case config.ReferenceSourceFiles, "":
		dir := cfg.Dir
		return func(ctx context.Context) (Store, error) {
			return LoadFromDir(ctx, dir, log)
		}, nil
	case config.ReferenceSourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("reference data source %q needs a database connection", cfg.Source)
		}
		return func(ctx context.Context) (Store, error) {
			return LoadFromPostgres(ctx, db, log)
		}, nil
	default:
		return nil, fmt.Errorf("unknown reference data source %q", cfg.Source)
	}
}
