package scoring

import "kaoyan-advisor/internal/models"

// SystemEmploymentCalculator rates placement into the public sector.
type SystemEmploymentCalculator struct {
	req *Request
}

func NewSystemEmploymentCalculator(req *Request) *SystemEmploymentCalculator {
	return &SystemEmploymentCalculator{req: req}
}

func (s *SystemEmploymentCalculator) Dimension() models.Dimension {
	return models.DimensionSystemEmployment
}

func (s *SystemEmploymentCalculator) CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult {
	w := SystemEmploymentWeights
	return evaluateDimension(s.req, models.DimensionSystemEmployment, c.Key(), []metric{
		{w.get(CivilServant), func() Result { return s.CivilServant(c) }},
		{w.get(Institution), func() Result { return s.Institution(c) }},
		{w.get(StateOwned), func() Result { return s.StateOwned(c) }},
	})
}

func (s *SystemEmploymentCalculator) CivilServant(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(s.req, c, MetricCivilServantRatio, false, "civil servant placement")
}

func (s *SystemEmploymentCalculator) Institution(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(s.req, c, MetricInstitutionRatio, false, "public institution placement")
}

func (s *SystemEmploymentCalculator) StateOwned(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(s.req, c, MetricStateOwnedRatio, false, "state-owned enterprise placement")
}

// NonSystemEmploymentCalculator rates general market employment.
type NonSystemEmploymentCalculator struct {
	req *Request
}

func NewNonSystemEmploymentCalculator(req *Request) *NonSystemEmploymentCalculator {
	return &NonSystemEmploymentCalculator{req: req}
}

func (n *NonSystemEmploymentCalculator) Dimension() models.Dimension {
	return models.DimensionNonSystemEmployment
}

func (n *NonSystemEmploymentCalculator) CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult {
	w := NonSystemEmploymentWeights
	return evaluateDimension(n.req, models.DimensionNonSystemEmployment, c.Key(), []metric{
		{w.get(EmploymentRate), func() Result { return n.EmploymentRate(c) }},
		{w.get(SchoolSatisfaction), func() Result { return n.SchoolSatisfaction(c) }},
		{w.get(MajorSatisfaction), func() Result { return n.MajorSatisfaction(c) }},
	})
}

func (n *NonSystemEmploymentCalculator) EmploymentRate(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(n.req, c, MetricEmploymentRate, false, "employment rate")
}

// SchoolSatisfaction uses the environment satisfaction survey.
func (n *NonSystemEmploymentCalculator) SchoolSatisfaction(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(n.req, c, MetricEnvironmentSatisfaction, false, "school environment satisfaction")
}

func (n *NonSystemEmploymentCalculator) MajorSatisfaction(c *models.CandidateSchoolMajor) Result {
	return majorPercentile(n.req, c, MetricMajorEmploymentSatisfaction, "major employment satisfaction")
}
