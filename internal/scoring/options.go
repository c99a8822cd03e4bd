package scoring

import "kaoyan-advisor/internal/common/config"

// OptionsFromConfig layers the scoring config section over DefaultOptions.
// Zero values keep the defaults.
func OptionsFromConfig(sc config.ScoringConfig) Options {
	opts := DefaultOptions()
	if len(sc.Weights) > 0 {
		opts.Weights = make(map[string]float64, len(sc.Weights))
		for name, v := range sc.Weights {
			opts.Weights[name] = v
		}
	}
	if sc.LogisticK > 0 {
		opts.Logistic.K = sc.LogisticK
	}
	if sc.Midpoint > 0 {
		opts.Logistic.Midpoint = sc.Midpoint
	}
	if sc.Thresholds != (config.TierThresholds{}) {
		opts.Thresholds = Thresholds{
			Reach:  sc.Thresholds.Reach,
			Match:  sc.Thresholds.Match,
			Safety: sc.Thresholds.Safety,
		}
	}
	if sc.TopK > 0 {
		opts.TopK = sc.TopK
	}
	if sc.Parallelism > 0 {
		opts.Parallelism = sc.Parallelism
	}
	return opts
}
