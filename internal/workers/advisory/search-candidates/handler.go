// internal/workers/advisory/search-candidates/handler.go
package searchcandidates

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	apperrors "kaoyan-advisor/internal/common/errors"
	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/common/metrics"
	"kaoyan-advisor/internal/common/observability"
	"kaoyan-advisor/internal/models"
)

const (
	TaskType = "search-candidates"

	cacheKeyPrefix = "advisory:candidates:"
)

var (
	ErrSearchQueryFailed = errors.New("CANDIDATE_SEARCH_FAILED")
	ErrSearchTimeout     = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config       *Config
	es           *elasticsearch.Client
	redis        *redis.Client
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the worker. redisClient may be nil, which disables the cache.
func NewHandler(config *Config, es *elasticsearch.Client, redisClient *redis.Client, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		es:           es,
		redis:        redisClient,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidPreferencesError("parse input: "+err.Error()), startTime)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, h.toStandardError(err), startTime)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	cacheKey := h.cacheKey(input.TargetPreferences)
	if cached, ok := h.getCached(ctx, cacheKey); ok {
		h.logger.Debug("candidate search served from cache", map[string]interface{}{
			"cacheKey": cacheKey,
			"total":    cached.Total,
		})
		cached.Cached = true
		return cached, nil
	}

	candidates, total, err := search(ctx, h.es, h.config.Index, BuildQuery(input.TargetPreferences, h.config.MaxCandidates), h.logger)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrSearchTimeout
		}
		if errors.Is(err, ErrIndexNotFound) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	output := &Output{Candidates: candidates, Total: total}
	h.setCached(ctx, cacheKey, output)

	h.logger.Info("candidate search completed", map[string]interface{}{
		"index":    h.config.Index,
		"returned": len(candidates),
		"total":    total,
	})
	return output, nil
}

// cacheKey hashes the fields that change the query result.
func (h *Handler) cacheKey(target models.TargetPreferences) string {
	scope := struct {
		Index        string        `json:"index"`
		Size         int           `json:"size"`
		SchoolCities []models.Area `json:"schoolCities"`
		Majors       []string      `json:"majors"`
		Directions   []string      `json:"directions"`
		Levels       []string      `json:"levels"`
	}{h.config.Index, h.config.MaxCandidates, target.SchoolCities, target.Majors, target.Directions, target.Levels}

	raw, _ := json.Marshal(scope)
	sum := sha256.Sum256(raw)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (h *Handler) getCached(ctx context.Context, key string) (*Output, bool) {
	if h.redis == nil {
		return nil, false
	}
	data, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var out Output
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		h.logger.Warn("discarding malformed cache entry", map[string]interface{}{"cacheKey": key})
		return nil, false
	}
	return &out, true
}

func (h *Handler) setCached(ctx context.Context, key string, output *Output) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(h.config.Index)
	case errors.Is(err, ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError(h.config.Index)
	case errors.Is(err, ErrSearchQueryFailed):
		return apperrors.NewCandidateSearchFailedError(h.config.Index, err)
	}
	return apperrors.AsStandardError(err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, stdErr *apperrors.StandardError, startTime time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
