// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kaoyan-advisor/internal/common/camunda"
	"kaoyan-advisor/internal/common/config"
	"kaoyan-advisor/internal/common/database"
	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/common/observability"
	"kaoyan-advisor/internal/refdata"

	sc "kaoyan-advisor/internal/workers/advisory/score-candidates"
	sca "kaoyan-advisor/internal/workers/advisory/search-candidates"
	vp "kaoyan-advisor/internal/workers/advisory/validate-preferences"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	log.Info("Starting worker manager...", map[string]interface{}{
		"environment":   cfg.App.Environment,
		"referenceData": cfg.ReferenceData.Source,
	})

	obs := observability.New("worker-manager", log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Reference data ---
	var db *sql.DB
	if cfg.ReferenceData.Source == config.ReferenceSourcePostgres {
		var pg *database.PostgresClient
		err = retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		db = pg.DB
		log.Info("PostgreSQL connected successfully", nil)
	}

	load, err := refdata.SourceLoader(cfg.ReferenceData, db, log)
	if err != nil {
		zapLog.Fatal("reference data source invalid", zap.Error(err))
	}
	provider := refdata.NewProvider(load, log)

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(provider, cfg.App.Version, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// The server is up before the load so /ready can report "loading".
	err = retryWithBackoff(ctx, func() error {
		err := provider.Init(ctx)
		obs.RecordReferenceDataLoad(ctx, cfg.ReferenceData.Source, err == nil)
		return err
	}, 5, 2*time.Second, log, "Reference data load")
	if err != nil {
		zapLog.Fatal("reference data failed after retries", zap.Error(err))
	}
	if store, err := provider.Store(); err == nil {
		if s, ok := store.(interface{ Stats() map[string]interface{} }); ok {
			log.Info("Reference data loaded", s.Stats())
		}
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, cfg.Camunda.BrokerAddress)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	// --- Search backends ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(ctx, func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if ok, err := esClient.IndexExists(ctx, cfg.Search.Index); err != nil || !ok {
		log.Warn("Candidate index not available yet", map[string]interface{}{
			"index": cfg.Search.Index,
		})
	}
	log.Info("Elasticsearch connected successfully", nil)

	var cache *goredis.Client
	redisConn := database.NewRedis(cfg.Database.Redis)
	if err := redisConn.Ping(ctx); err != nil {
		log.Warn("Redis unavailable, candidate search cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
		_ = redisConn.Close()
	} else {
		defer redisConn.Close()
		cache = redisConn.Client
		log.Info("Redis connected successfully", nil)
	}

	// --- Workers ---
	var workers []*camunda.Worker
	register := func(w *camunda.Worker) {
		if w != nil {
			workers = append(workers, w)
		}
	}

	validateHandler := vp.NewHandler(vp.LoadConfig(cfg), obs, log)
	register(camunda.StartWorker(zeebe.GetClient(), vp.TaskType,
		config.GetWorkerConfig(cfg, vp.TaskType), validateHandler.Handle, log))

	searchHandler := sca.NewHandler(sca.LoadConfig(cfg), esClient.Client, cache, obs, log)
	register(camunda.StartWorker(zeebe.GetClient(), sca.TaskType,
		config.GetWorkerConfig(cfg, sca.TaskType), searchHandler.Handle, log))

	scoreHandler := sc.NewHandler(sc.LoadConfig(cfg), provider, obs, log)
	register(camunda.StartWorker(zeebe.GetClient(), sc.TaskType,
		config.GetWorkerConfig(cfg, sc.TaskType), scoreHandler.Handle, log))

	log.Info("Advisory workers registered", map[string]interface{}{"count": len(workers)})

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping Health/Metrics server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
}
