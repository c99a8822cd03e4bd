// internal/models/reference.go
package models

// SchoolAggregate holds per-school metrics. A nil metric is missing.
type SchoolAggregate struct {
	SchoolName              string   `json:"school_name"`
	Rank                    *float64 `json:"rank"`
	OverallSatisfaction     *float64 `json:"overall_satisfaction"`
	EnvironmentSatisfaction *float64 `json:"environment_satisfaction"`
	EmploymentRatio         *float64 `json:"employment_ratio"`
	CivilServantRatio       *float64 `json:"civil_servant_ratio"`
	InstitutionRatio        *float64 `json:"institution_ratio"`
	StateOwnedRatio         *float64 `json:"state_owned_ratio"`
	FurtherStudyRate        *float64 `json:"further_study_rate"`
	FurtherStudyNumber      *float64 `json:"further_study_number"`
	AbroadStudyRatio        *float64 `json:"abroad_study_ratio"`
	USStudyRatio            *float64 `json:"us_study_ratio"`
}

type MajorAggregate struct {
	SchoolName             string   `json:"school_name"`
	MajorCode              string   `json:"major_code"`
	MajorName              string   `json:"major_name"`
	Level                  string   `json:"level"`
	OverallSatisfaction    *float64 `json:"overall_satisfaction"`
	EmploymentSatisfaction *float64 `json:"employment_satisfaction"`
}

type CountryShare struct {
	Country string  `json:"country"`
	Share   float64 `json:"share"`
}

// YearRecord is one year of a school's employment and further-study outcomes.
type YearRecord struct {
	Year              int            `json:"year"`
	EmploymentRate    *float64       `json:"employment_rate"`
	CivilServantRatio *float64       `json:"civil_servant_ratio"`
	InstitutionRatio  *float64       `json:"institution_ratio"`
	StateOwnedRatio   *float64       `json:"state_owned_ratio"`
	FurtherStudyRate  *float64       `json:"further_study_rate"`
	AbroadCountries   []CountryShare `json:"abroad_countries"`
}

// CityScore carries precomputed per-city percentile scores. Values <= 0 are treated as missing.
type CityScore struct {
	City         string  `json:"city"`
	CostOfLiving float64 `json:"cost_of_living"`
	Education    float64 `json:"education"`
	Healthcare   float64 `json:"healthcare"`
}

type SchoolLevel struct {
	SchoolName  string `json:"school_name"`
	IsC9        bool   `json:"is_c9"`
	Is985       bool   `json:"is_985"`
	Is211       bool   `json:"is_211"`
	IsFirstTier bool   `json:"is_first_tier"`
}

type AdmitRatioAverage struct {
	SchoolName string  `json:"school_name"`
	Department string  `json:"department"`
	Ratio      float64 `json:"ratio"`
}

type MajorDirection struct {
	MajorName  string   `json:"major_name"`
	Directions []string `json:"directions"`
}
