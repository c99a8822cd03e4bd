package scoring

import (
	"fmt"
	"math"
	"strings"

	"kaoyan-advisor/internal/models"
)

// SubMetric is one row of a dimension's weight table.
type SubMetric struct {
	Name    string
	Weight  float64
	Default float64
}

// WeightTable lists a dimension's sub-metrics in evaluation order.
type WeightTable []SubMetric

const weightTolerance = 1e-6

func (w WeightTable) Sum() float64 {
	total := 0.0
	for _, m := range w {
		total += m.Weight
	}
	return total
}

// Validate checks that the weights sum to 1.0 and none are negative.
func (w WeightTable) Validate() error {
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.6f, must sum to 1.0", w.Sum())
	}
	for _, m := range w {
		if m.Weight < 0 {
			return fmt.Errorf("negative weight for %s: %f", m.Name, m.Weight)
		}
		if m.Default < 0 || m.Default > 100 {
			return fmt.Errorf("default for %s outside [0,100]: %f", m.Name, m.Default)
		}
	}
	return nil
}

func (w WeightTable) get(name string) SubMetric {
	for _, m := range w {
		if m.Name == name {
			return m
		}
	}
	panic("scoring: unknown sub-metric " + name)
}

// Sub-metric names.
const (
	PreparationTime = "preparation_time"
	English         = "english"
	MajorMatch      = "major_match"
	Competition     = "competition"
	EnrollmentSize  = "enrollment_size"
	SchoolGap       = "school_gap"
	ClassRank       = "class_rank"

	CostOfLiving        = "cost_of_living"
	HometownMatch       = "hometown_match"
	EducationResources  = "education_resources"
	HealthcareResources = "healthcare_resources"
	WorkCityMatch       = "work_city_match"

	SchoolReputation   = "school_reputation"
	MajorRanking       = "major_ranking"
	SchoolSatisfaction = "school_satisfaction"
	MajorSatisfaction  = "major_satisfaction"

	FurtherStudyRate   = "further_study_rate"
	FurtherStudyNumber = "further_study_number"
	AbroadStudyRatio   = "abroad_study_ratio"
	USStudyRatio       = "us_study_ratio"

	CivilServant = "civil_servant"
	Institution  = "institution"
	StateOwned   = "state_owned"

	EmploymentRate = "employment_rate"
)

var (
	AdmissionWeights = WeightTable{
		{PreparationTime, 0.15, 50},
		{English, 0.15, 50},
		{MajorMatch, 0.20, 50},
		{Competition, 0.20, 50},
		{EnrollmentSize, 0.10, 50},
		{SchoolGap, 0.10, 50},
		{ClassRank, 0.10, 50},
	}

	LocationWeights = WeightTable{
		{CostOfLiving, 0.15, 50},
		{HometownMatch, 0.25, 40},
		{EducationResources, 0.20, 50},
		{HealthcareResources, 0.15, 50},
		{WorkCityMatch, 0.25, 40},
	}

	MajorWeights = WeightTable{
		{SchoolReputation, 0.3, 50},
		{MajorRanking, 0.3, 50},
		{SchoolSatisfaction, 0.2, 50},
		{MajorSatisfaction, 0.2, 50},
	}

	AdvancedStudyWeights = WeightTable{
		{FurtherStudyRate, 0.3, 50},
		{FurtherStudyNumber, 0.3, 50},
		{AbroadStudyRatio, 0.2, 50},
		{USStudyRatio, 0.2, 50},
	}

	SystemEmploymentWeights = WeightTable{
		{CivilServant, 0.4, 50},
		{Institution, 0.3, 50},
		{StateOwned, 0.3, 50},
	}

	NonSystemEmploymentWeights = WeightTable{
		{EmploymentRate, 0.4, 50},
		{SchoolSatisfaction, 0.3, 50},
		{MajorSatisfaction, 0.3, 50},
	}
)

// WeightTables maps every dimension to its sub-metric table.
var WeightTables = map[models.Dimension]WeightTable{
	models.DimensionAdmission:           AdmissionWeights,
	models.DimensionLocation:            LocationWeights,
	models.DimensionMajor:               MajorWeights,
	models.DimensionAdvancedStudy:       AdvancedStudyWeights,
	models.DimensionSystemEmployment:    SystemEmploymentWeights,
	models.DimensionNonSystemEmployment: NonSystemEmploymentWeights,
}

// ==========================
// Lookup tables
// ==========================

// band maps [Min, next band's Min) to Score. Bands are sorted ascending.
type band struct {
	Min   float64
	Score float64
}

func lookupBand(bands []band, v float64) float64 {
	score := bands[0].Score
	for _, b := range bands {
		if v >= b.Min {
			score = b.Score
		}
	}
	return score
}

var (
	// Days until the exam.
	preparationBands = []band{{0, 30}, {90, 60}, {180, 80}, {270, 90}, {365, 100}}

	// Applicants per admit; lower competition scores higher.
	competitionBands = []band{{0, 90}, {3, 70}, {5, 50}, {8, 30}, {10, 10}}

	// Total planned admits across research directions.
	enrollmentBands = []band{{0, 20}, {10, 35}, {30, 50}, {50, 65}, {100, 80}, {200, 100}}
)

const (
	ExamMonth = 12
	ExamDay   = 23

	EnglishCET6 = 80.0
	EnglishCET4 = 60.0
	EnglishNone = 40.0

	MajorMatchExact       = 100.0
	MajorMatchInDirection = 80.0
	MajorMatchCross       = 40.0

	HometownSameCity     = 100.0
	HometownSameProvince = 70.0
	HometownDifferent    = 40.0

	WorkSameCity     = 100.0
	WorkSameProvince = 70.0
	WorkDifferent    = 40.0

	ClassRankTop10 = 100.0
	ClassRankTop20 = 80.0
	ClassRankTop50 = 60.0
	ClassRankOther = 40.0
)

// School tiers used for the school gap and the competition fallback.
const (
	LevelOther     = 0
	LevelFirstTier = 1
	Level211       = 2
	Level985       = 3
	LevelC9        = 4
)

// competitionLevelDefaults apply when a school has no admit-ratio history.
var competitionLevelDefaults = map[int]float64{
	LevelC9:        30,
	Level985:       30,
	Level211:       50,
	LevelFirstTier: 70,
	LevelOther:     70,
}

func schoolGapScore(gap int) float64 {
	switch {
	case gap <= -2:
		return 80
	case gap == -1:
		return 100
	case gap == 0:
		return 60
	case gap == 1:
		return 40
	default:
		return 20
	}
}

var accreditationScores = map[string]float64{
	"A+": 95, "A": 85, "A-": 75,
	"B+": 65, "B": 55, "B-": 45,
	"C+": 35, "C": 25, "C-": 15,
}

// AccreditationScore converts a discipline evaluation grade such as "A-" to
// a number so it can be compared by percentile.
func AccreditationScore(level string) (float64, bool) {
	v, ok := accreditationScores[strings.ToUpper(strings.TrimSpace(level))]
	return v, ok
}

// C9Schools is the C9 League.
var C9Schools = map[string]struct{}{
	"北京大学": {}, "清华大学": {}, "复旦大学": {},
	"上海交通大学": {}, "浙江大学": {}, "南京大学": {},
	"中国科学技术大学": {}, "哈尔滨工业大学": {}, "西安交通大学": {},
}

func IsC9(school string) bool {
	_, ok := C9Schools[strings.TrimSpace(school)]
	return ok
}

// ==========================
// Descriptions
// ==========================

const (
	levelHigh   = 80.0
	levelMedium = 60.0
)

func describe(label string, score float64) string {
	switch {
	case score >= levelHigh:
		return fmt.Sprintf("%s is high among the compared schools", label)
	case score >= levelMedium:
		return fmt.Sprintf("%s is average among the compared schools", label)
	default:
		return fmt.Sprintf("%s is low among the compared schools", label)
	}
}
