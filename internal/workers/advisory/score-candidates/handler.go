// internal/workers/advisory/score-candidates/handler.go
package scorecandidates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	apperrors "kaoyan-advisor/internal/common/errors"
	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/common/metrics"
	"kaoyan-advisor/internal/common/observability"
	"kaoyan-advisor/internal/common/validation"
	"kaoyan-advisor/internal/refdata"
	"kaoyan-advisor/internal/scoring"
)

const (
	TaskType = "score-candidates"
)

var (
	ErrScoringFailed = errors.New("SCORING_FAILED")
)

type Handler struct {
	config       *Config
	provider     *refdata.Provider
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, provider *refdata.Provider, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		provider:     provider,
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
		h.failJob(ctx, client, job, apperrors.AsStandardError(err), startTime)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
}

// execute returns *apperrors.StandardError values so Handle can map them
// straight onto the job.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidPreferencesError("input cannot be nil")
	}

	if result := validation.ValidatePreferences(input.TargetPreferences); !result.Valid {
		return nil, apperrors.NewInvalidPreferencesError(strings.Join(result.GetErrorMessages(), "; "))
	}

	store, err := h.provider.Store()
	if err != nil {
		if errors.Is(err, refdata.ErrReferenceDataUnavailable) {
			return nil, apperrors.NewReferenceDataUnavailableError(err.Error())
		}
		return nil, apperrors.NewInternalError(err)
	}

	runID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"runId": runID})

	opts := h.config.Scoring
	opts.Recorder = metrics.ScoringRecorder{}
	engine, err := scoring.NewEngine(store, opts, log)
	if err != nil {
		return nil, apperrors.NewScoringFailedError(fmt.Errorf("%w: %v", ErrScoringFailed, err))
	}

	start := time.Now()
	res, err := engine.ScoreCandidates(ctx, input.UserProfile, input.TargetPreferences, input.Candidates)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError(TaskType, err)
		}
		return nil, apperrors.NewScoringFailedError(err)
	}
	metrics.ObserveTierResult(res, elapsed)

	message := MessageOK
	if res.Message != "" {
		message = res.Message
	}

	log.Info("candidates scored", map[string]interface{}{
		"received":   len(input.Candidates),
		"considered": res.TotalConsidered,
		"reach":      len(res.Reach),
		"match":      len(res.Match),
		"safety":     len(res.Safety),
		"impossible": len(res.Impossible),
		"durationMs": elapsed.Milliseconds(),
	})

	return &Output{
		Code:    CodeOK,
		Message: message,
		RunID:   runID,
		Tiers: Tiers{
			Reach:  res.Reach,
			Match:  res.Match,
			Safety: res.Safety,
		},
		ImpossibleCount: len(res.Impossible),
		TotalConsidered: res.TotalConsidered,
		DurationMs:      elapsed.Milliseconds(),
	}, nil
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
