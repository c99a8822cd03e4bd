package scoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/refdata"
)

// NoCandidatesMessage is returned with an empty result when filtering leaves
// nothing to score.
const NoCandidatesMessage = "no candidates matched the target preferences"

// Calculator scores one dimension for one candidate.
type Calculator interface {
	Dimension() models.Dimension
	CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult
}

type Options struct {
	// Weights overrides the default dimension weights by name.
	Weights     map[string]float64
	Logistic    LogisticModel
	Thresholds  Thresholds
	TopK        int
	Parallelism int
	Clock       func() time.Time
	Recorder    Recorder
}

func DefaultOptions() Options {
	return Options{
		Logistic:    DefaultLogisticModel(),
		Thresholds:  DefaultThresholds(),
		TopK:        3,
		Parallelism: 1,
	}
}

// Engine runs the filter, score, tier pipeline over a read-only store.
type Engine struct {
	store  refdata.Store
	opts   Options
	logger logger.Logger
}

func NewEngine(store refdata.Store, opts Options, log logger.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("reference store is required")
	}
	if err := opts.Logistic.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	for name, table := range WeightTables {
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("%s weights: %w", name, err)
		}
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{store: store, opts: opts, logger: log}, nil
}

// ScoreCandidates filters candidates against target, scores the survivors on
// every dimension and returns the top candidates of each tier.
func (e *Engine) ScoreCandidates(ctx context.Context, user models.UserProfile, target models.TargetPreferences, candidates []models.CandidateSchoolMajor) (*models.TierResult, error) {
	filtered := Filter(candidates, target)
	e.logger.Info("Candidates filtered", map[string]interface{}{
		"received": len(candidates),
		"kept":     len(filtered),
	})

	if len(filtered) == 0 {
		return &models.TierResult{
			Reach:      []models.ScoredCandidate{},
			Match:      []models.ScoredCandidate{},
			Safety:     []models.ScoredCandidate{},
			Impossible: []models.ScoredCandidate{},
			Message:    NoCandidatesMessage,
		}, nil
	}

	req := &Request{
		User:       user,
		Target:     target,
		Store:      e.store,
		Population: NewPopulation(e.store, filtered),
		Now:        e.opts.Clock(),
		Logger:     e.logger,
		Recorder:   e.opts.Recorder,
	}
	weights := ResolveWeights(e.opts.Weights, target.Weights)

	scored, err := e.scoreAll(ctx, req, filtered, weights)
	if err != nil {
		return nil, err
	}
	return SelectTiers(scored, e.opts.TopK), nil
}

// Calculators builds the six dimension calculators for one request.
func Calculators(req *Request) []Calculator {
	return []Calculator{
		NewAdmissionCalculator(req),
		NewLocationCalculator(req),
		NewMajorCalculator(req),
		NewAdvancedStudyCalculator(req),
		NewSystemEmploymentCalculator(req),
		NewNonSystemEmploymentCalculator(req),
	}
}

// scoreAll maps candidates to scored candidates. Results keep the input
// order whatever the completion order of the workers.
func (e *Engine) scoreAll(ctx context.Context, req *Request, candidates []models.CandidateSchoolMajor, weights DimensionWeights) ([]models.ScoredCandidate, error) {
	calcs := Calculators(req)
	out := make([]models.ScoredCandidate, len(candidates))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = e.scoreCandidate(req, calcs, &candidates[i], weights)
			}
		}()
	}

	var err error
	for i := range candidates {
		if err = ctx.Err(); err != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) scoreCandidate(req *Request, calcs []Calculator, c *models.CandidateSchoolMajor, weights DimensionWeights) models.ScoredCandidate {
	sc := models.ScoredCandidate{
		Candidate:  *c,
		Dimensions: make([]models.DimensionResult, 0, len(calcs)),
	}

	for _, calc := range calcs {
		sc.Dimensions = append(sc.Dimensions, e.calculateDimension(req, calc, c))
	}

	sc.CompositeScore = Composite(sc.Dimensions, weights)
	if adm := sc.Dimension(models.DimensionAdmission); adm != nil {
		sc.AdmissionScore = adm.Total
	}
	sc.Probability = e.opts.Logistic.Probability(sc.AdmissionScore)
	sc.Tier = e.opts.Thresholds.Classify(sc.Probability)
	return sc
}

// calculateDimension isolates a failing calculator so the candidate falls
// back to the dimension defaults instead of aborting the batch.
func (e *Engine) calculateDimension(req *Request, calc Calculator, c *models.CandidateSchoolMajor) (res models.DimensionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Dimension calculation failed, using defaults", map[string]interface{}{
				"candidate": c.Key(),
				"dimension": string(calc.Dimension()),
				"panic":     fmt.Sprint(r),
			})
			res = DefaultDimension(req, calc.Dimension(), c.Key())
		}
	}()
	return calc.CalculateTotal(c)
}

// DefaultDimension returns a result where every sub-metric carries its
// default score.
func DefaultDimension(req *Request, dim models.Dimension, key string) models.DimensionResult {
	table := WeightTables[dim]
	metrics := make([]metric, 0, len(table))
	for _, m := range table {
		metrics = append(metrics, metric{sub: m, eval: func() Result {
			return missing(ReasonComputation, "")
		}})
	}
	return evaluateDimension(req, dim, key, metrics)
}
