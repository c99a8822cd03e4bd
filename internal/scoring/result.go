package scoring

import (
	"fmt"
	"math"

	"kaoyan-advisor/internal/models"
)

// MissingDataReason explains why a sub-metric fell back to its default.
type MissingDataReason string

const (
	ReasonNoRecord     MissingDataReason = "no_reference_record"
	ReasonNoValue      MissingDataReason = "metric_absent"
	ReasonInvalidValue MissingDataReason = "metric_invalid"
	ReasonNoProfile    MissingDataReason = "profile_field_empty"
	ReasonComputation  MissingDataReason = "computation_error"
)

// Result is the outcome of one sub-metric. A non-empty Reason means the
// metric could not be computed and the caller substitutes the default.
type Result struct {
	Score       float64
	Percentile  *float64
	RawValue    *float64
	Description string
	Reason      MissingDataReason
	// Fallback overrides the metric's table default when Reason is set.
	Fallback *float64
}

func (r Result) Missing() bool {
	return r.Reason != ""
}

func scored(score float64, description string) Result {
	return Result{Score: clampScore(score), Description: description}
}

func missing(reason MissingDataReason, description string) Result {
	return Result{Reason: reason, Description: description}
}

// percentileResult scores value against population and attaches the
// percentile, the raw value and a level description.
func percentileResult(value float64, population []float64, reverse bool, label string) Result {
	p := Percentile(value, population, reverse)
	raw := value
	return Result{
		Score:       clampScore(p),
		Percentile:  &p,
		RawValue:    &raw,
		Description: describe(label, p),
	}
}

// metric is one weighted sub-dimension of a calculator.
type metric struct {
	sub  SubMetric
	eval func() Result
}

// evaluateDimension runs each metric, recovering from panics, substituting
// defaults for missing data and summing the weighted scores.
func evaluateDimension(req *Request, dim models.Dimension, key string, metrics []metric) models.DimensionResult {
	out := models.DimensionResult{
		Dimension:    dim,
		Scores:       make([]models.DimensionScore, 0, len(metrics)),
		CandidateKey: key,
	}

	for _, m := range metrics {
		res := safeEval(m.eval)

		ds := models.DimensionScore{
			Name:        m.sub.Name,
			Weight:      m.sub.Weight,
			Description: res.Description,
			Source:      models.SourceData,
			Percentile:  res.Percentile,
			RawValue:    res.RawValue,
		}
		if res.Missing() {
			ds.Score = m.sub.Default
			if res.Fallback != nil {
				ds.Score = clampScore(*res.Fallback)
			}
			ds.Source = models.SourceDefault
			ds.MissingReason = string(res.Reason)
			ds.Percentile = nil
			if ds.Description == "" {
				ds.Description = fmt.Sprintf("%s: no data, default score applied", m.sub.Name)
			}
			req.logger().Debug("Default score substituted", map[string]interface{}{
				"candidate": key,
				"dimension": string(dim),
				"metric":    m.sub.Name,
				"reason":    string(res.Reason),
				"default":   ds.Score,
			})
			req.recorder().DefaultSubstituted(dim, m.sub.Name)
		} else {
			ds.Score = clampScore(res.Score)
		}
		ds.WeightedScore = ds.Score * ds.Weight

		out.Scores = append(out.Scores, ds)
		out.Total += ds.WeightedScore
	}

	out.Total = clampScore(out.Total)
	return out
}

func safeEval(fn func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = missing(ReasonComputation, fmt.Sprintf("computation failed: %v", r))
		}
	}()
	res = fn()
	if !res.Missing() && (math.IsNaN(res.Score) || math.IsInf(res.Score, 0)) {
		return missing(ReasonInvalidValue, "")
	}
	return res
}
