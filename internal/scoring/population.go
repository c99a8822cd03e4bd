package scoring

import (
	"strings"

	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/refdata"
)

type SchoolMetric int

const (
	MetricSchoolRank SchoolMetric = iota
	MetricSchoolSatisfaction
	MetricEnvironmentSatisfaction
	MetricEmploymentRate
	MetricCivilServantRatio
	MetricInstitutionRatio
	MetricStateOwnedRatio
	MetricFurtherStudyRate
	MetricFurtherStudyNumber
	MetricAbroadStudyRatio
	MetricUSStudyRatio
)

type MajorMetric int

const (
	MetricMajorLevel MajorMetric = iota
	MetricMajorSatisfaction
	MetricMajorEmploymentSatisfaction
)

var (
	allSchoolMetrics = []SchoolMetric{
		MetricSchoolRank, MetricSchoolSatisfaction, MetricEnvironmentSatisfaction,
		MetricEmploymentRate, MetricCivilServantRatio, MetricInstitutionRatio, MetricStateOwnedRatio,
		MetricFurtherStudyRate, MetricFurtherStudyNumber, MetricAbroadStudyRatio, MetricUSStudyRatio,
	}
	allMajorMetrics = []MajorMetric{
		MetricMajorLevel, MetricMajorSatisfaction, MetricMajorEmploymentSatisfaction,
	}
)

// Population is the comparison distribution for percentile scoring, drawn
// only from the candidates of the current request.
type Population struct {
	school map[SchoolMetric][]float64
	major  map[MajorMetric][]float64
}

// NewPopulation collects every resolvable metric value once per school and
// once per (school, major code).
func NewPopulation(store refdata.Store, candidates []models.CandidateSchoolMajor) *Population {
	p := &Population{
		school: make(map[SchoolMetric][]float64),
		major:  make(map[MajorMetric][]float64),
	}

	seenSchools := make(map[string]struct{})
	seenMajors := make(map[string]struct{})
	for _, c := range candidates {
		if _, ok := seenSchools[c.SchoolName]; !ok {
			seenSchools[c.SchoolName] = struct{}{}
			for _, m := range allSchoolMetrics {
				if v, reason := resolveSchoolMetric(store, c.SchoolName, m); reason == "" {
					p.school[m] = append(p.school[m], v)
				}
			}
		}
		key := c.Key()
		if _, ok := seenMajors[key]; !ok {
			seenMajors[key] = struct{}{}
			for _, m := range allMajorMetrics {
				if v, reason := resolveMajorMetric(store, c.SchoolName, c.MajorCode, m); reason == "" {
					p.major[m] = append(p.major[m], v)
				}
			}
		}
	}
	return p
}

func (p *Population) School(m SchoolMetric) []float64 {
	if p == nil {
		return nil
	}
	return p.school[m]
}

func (p *Population) Major(m MajorMetric) []float64 {
	if p == nil {
		return nil
	}
	return p.major[m]
}

// resolveSchoolMetric reads a metric from the school aggregate, falling back
// to the latest employment-history year that carries it.
func resolveSchoolMetric(store refdata.Store, school string, m SchoolMetric) (float64, MissingDataReason) {
	if store == nil {
		return 0, ReasonNoRecord
	}

	agg, hasAgg := store.GetSchool(school)
	if hasAgg {
		if v := aggregateField(agg, m); v != nil {
			return *v, ""
		}
	}

	history := store.GetEmploymentHistory(school)
	for i := len(history) - 1; i >= 0; i-- {
		if v := historyField(history[i], m); v != nil {
			return *v, ""
		}
	}

	if !hasAgg && len(history) == 0 {
		return 0, ReasonNoRecord
	}
	return 0, ReasonNoValue
}

func aggregateField(agg *models.SchoolAggregate, m SchoolMetric) *float64 {
	switch m {
	case MetricSchoolRank:
		return agg.Rank
	case MetricSchoolSatisfaction:
		return agg.OverallSatisfaction
	case MetricEnvironmentSatisfaction:
		return agg.EnvironmentSatisfaction
	case MetricEmploymentRate:
		return agg.EmploymentRatio
	case MetricCivilServantRatio:
		return agg.CivilServantRatio
	case MetricInstitutionRatio:
		return agg.InstitutionRatio
	case MetricStateOwnedRatio:
		return agg.StateOwnedRatio
	case MetricFurtherStudyRate:
		return agg.FurtherStudyRate
	case MetricFurtherStudyNumber:
		return agg.FurtherStudyNumber
	case MetricAbroadStudyRatio:
		return agg.AbroadStudyRatio
	case MetricUSStudyRatio:
		return agg.USStudyRatio
	}
	return nil
}

var usCountryNames = map[string]struct{}{
	"美国": {}, "usa": {}, "us": {}, "united states": {},
}

func historyField(rec models.YearRecord, m SchoolMetric) *float64 {
	switch m {
	case MetricEmploymentRate:
		return rec.EmploymentRate
	case MetricCivilServantRatio:
		return rec.CivilServantRatio
	case MetricInstitutionRatio:
		return rec.InstitutionRatio
	case MetricStateOwnedRatio:
		return rec.StateOwnedRatio
	case MetricFurtherStudyRate:
		return rec.FurtherStudyRate
	case MetricUSStudyRatio:
		for _, c := range rec.AbroadCountries {
			if _, ok := usCountryNames[strings.ToLower(strings.TrimSpace(c.Country))]; ok {
				share := c.Share
				return &share
			}
		}
	}
	return nil
}

func resolveMajorMetric(store refdata.Store, school, code string, m MajorMetric) (float64, MissingDataReason) {
	if store == nil {
		return 0, ReasonNoRecord
	}
	agg, ok := store.GetMajor(school, code)
	if !ok {
		return 0, ReasonNoRecord
	}

	switch m {
	case MetricMajorLevel:
		if strings.TrimSpace(agg.Level) == "" {
			return 0, ReasonNoValue
		}
		v, ok := AccreditationScore(agg.Level)
		if !ok {
			return 0, ReasonInvalidValue
		}
		return v, ""
	case MetricMajorSatisfaction:
		if agg.OverallSatisfaction == nil {
			return 0, ReasonNoValue
		}
		return *agg.OverallSatisfaction, ""
	case MetricMajorEmploymentSatisfaction:
		if agg.EmploymentSatisfaction == nil {
			return 0, ReasonNoValue
		}
		return *agg.EmploymentSatisfaction, ""
	}
	return 0, ReasonNoValue
}
