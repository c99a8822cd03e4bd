package scoring

import (
	"fmt"
	"strings"

	"kaoyan-advisor/internal/models"
)

// LocationCalculator rates the city a candidate school is in.
type LocationCalculator struct {
	req *Request
}

func NewLocationCalculator(req *Request) *LocationCalculator {
	return &LocationCalculator{req: req}
}

func (l *LocationCalculator) Dimension() models.Dimension {
	return models.DimensionLocation
}

func (l *LocationCalculator) CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult {
	w := LocationWeights
	return evaluateDimension(l.req, models.DimensionLocation, c.Key(), []metric{
		{w.get(CostOfLiving), func() Result { return l.CostOfLiving(c) }},
		{w.get(HometownMatch), func() Result { return l.HometownMatch(c) }},
		{w.get(EducationResources), func() Result { return l.EducationResources(c) }},
		{w.get(HealthcareResources), func() Result { return l.HealthcareResources(c) }},
		{w.get(WorkCityMatch), func() Result { return l.WorkCityMatch(c) }},
	})
}

func (l *LocationCalculator) CostOfLiving(c *models.CandidateSchoolMajor) Result {
	return l.cityScore(c, CostOfLiving)
}

func (l *LocationCalculator) EducationResources(c *models.CandidateSchoolMajor) Result {
	return l.cityScore(c, EducationResources)
}

func (l *LocationCalculator) HealthcareResources(c *models.CandidateSchoolMajor) Result {
	return l.cityScore(c, HealthcareResources)
}

var cityMetricLabels = map[string]string{
	CostOfLiving:        "cost of living value",
	EducationResources:  "higher education resources",
	HealthcareResources: "healthcare resources",
}

// cityScore reads a precomputed per-city percentile. Non-positive scores
// are treated as missing.
func (l *LocationCalculator) cityScore(c *models.CandidateSchoolMajor, name string) Result {
	if l.req.Store == nil {
		return missing(ReasonNoRecord, "")
	}
	cs, ok := l.req.Store.GetCityScore(c.City)
	if !ok {
		return missing(ReasonNoRecord, fmt.Sprintf("no city data for %s", c.City))
	}

	var v float64
	switch name {
	case CostOfLiving:
		v = cs.CostOfLiving
	case EducationResources:
		v = cs.Education
	case HealthcareResources:
		v = cs.Healthcare
	}
	if v <= 0 {
		return missing(ReasonNoValue, fmt.Sprintf("no %s score for %s", cityMetricLabels[name], c.City))
	}

	res := scored(v, describe(fmt.Sprintf("%s in %s", cityMetricLabels[name], c.City), v))
	res.Percentile = &v
	return res
}

func (l *LocationCalculator) HometownMatch(c *models.CandidateSchoolMajor) Result {
	home := l.req.User.Hometown
	if home == nil || home.IsZero() {
		return missing(ReasonNoProfile, "hometown not provided")
	}

	switch {
	case sameCity(*home, c.City):
		return scored(HometownSameCity, "school is in the home city")
	case sameProvince(*home, c.Province):
		return scored(HometownSameProvince, "school is in the home province")
	default:
		return scored(HometownDifferent, "school is outside the home province")
	}
}

func (l *LocationCalculator) WorkCityMatch(c *models.CandidateSchoolMajor) Result {
	cities := l.req.Target.WorkCities
	if len(cities) == 0 {
		return missing(ReasonNoProfile, "no intended work city")
	}

	for _, wc := range cities {
		if sameCity(wc, c.City) {
			return scored(WorkSameCity, "school is in an intended work city")
		}
	}
	for _, wc := range cities {
		if sameProvince(wc, c.Province) {
			return scored(WorkSameProvince, "school is in an intended work province")
		}
	}
	return scored(WorkDifferent, "school is away from the intended work cities")
}

func sameCity(a models.Area, city string) bool {
	ac := strings.TrimSpace(a.City)
	return ac != "" && ac == strings.TrimSpace(city)
}

func sameProvince(a models.Area, province string) bool {
	ap := strings.TrimSpace(a.Province)
	return ap != "" && ap == strings.TrimSpace(province)
}
