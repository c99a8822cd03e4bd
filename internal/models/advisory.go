// internal/models/advisory.go
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Area is a (province, city) pair. An empty City means the whole province.
type Area struct {
	Province string `json:"province"`
	City     string `json:"city"`
}

func (a Area) IsZero() bool {
	return strings.TrimSpace(a.Province) == "" && strings.TrimSpace(a.City) == ""
}

type UserProfile struct {
	Signature   string `json:"signature"`
	Gender      string `json:"gender"`
	School      string `json:"school"`
	Major       string `json:"major"`
	Grade       string `json:"grade"`
	Rank        string `json:"rank"`
	CET         string `json:"cet"`
	Hometown    *Area  `json:"hometown,omitempty"`
	IsFirstTime bool   `json:"isFirstTime"`
}

type Weight struct {
	Name  string  `json:"name"`
	Value float64 `json:"val"`
}

type TargetPreferences struct {
	SchoolCities []Area   `json:"schoolCities"`
	Majors       []string `json:"majors"`
	Directions   []string `json:"directions"`
	Levels       []string `json:"levels"`
	WorkCities   []Area   `json:"workCities"`
	Weights      []Weight `json:"weights"`
}

// HasConstraint reports whether at least one candidate-narrowing field is set.
func (t TargetPreferences) HasConstraint() bool {
	return len(t.SchoolCities) > 0 || len(t.Majors) > 0 || len(t.Directions) > 0 || len(t.Levels) > 0
}

// FlexString holds a value upstream records send either as a JSON string or
// as a number, such as a year. Numbers keep their literal text.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// AdmitRatioRecord is one year of applicants (bk) and admits (lq). Ratio is
// either "N:1" applicants per admit or an admit rate such as "9.09%".
type AdmitRatioRecord struct {
	Year       FlexString `json:"year"`
	Applicants float64    `json:"bk"`
	Admits     float64    `json:"lq"`
	Ratio      string     `json:"blb"`
}

type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

type CutoffRecord struct {
	Year     FlexString     `json:"year"`
	Subjects []SubjectScore `json:"data"`
}

type Subject struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Code  string `json:"code"`
}

type ResearchDirection struct {
	ExamMode   string      `json:"ksfs"`
	DegreeType string      `json:"xwlx"`
	Name       string      `json:"yjfxmc"`
	Code       string      `json:"yjfxdm"`
	Quota      string      `json:"zsrs"`
	Note       string      `json:"bz"`
	Subjects   [][]Subject `json:"subjects"`
}

// CandidateSchoolMajor is one school+major offering. The scoring engine only reads it.
type CandidateSchoolMajor struct {
	SchoolName  string              `json:"school_name"`
	SchoolCode  string              `json:"school_code"`
	Is985       string              `json:"is_985"`
	Is211       string              `json:"is_211"`
	Department  string              `json:"departments"`
	Major       string              `json:"major"`
	MajorCode   string              `json:"major_code"`
	Province    string              `json:"province"`
	City        string              `json:"city"`
	AdmitRatios []AdmitRatioRecord  `json:"blb"`
	Cutoffs     []CutoffRecord      `json:"fsx"`
	Directions  []ResearchDirection `json:"directions"`
}

// Key identifies the candidate inside one request.
func (c CandidateSchoolMajor) Key() string {
	return c.SchoolName + "/" + c.MajorCode
}
