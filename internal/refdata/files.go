package refdata

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/models"
)

// File names inside the reference data directory.
const (
	SchoolsFile         = "schools.jsonl"
	MajorsFile          = "majors.jsonl"
	EmploymentFile      = "employment.jsonl"
	CitiesFile          = "cities.json"
	SchoolLevelsFile    = "school_levels.json"
	MajorDirectionsFile = "major_directions.json"
	AdmitRatiosFile     = "admit_ratios.json"
)

const maxJSONLineBytes = 4 << 20

// flexNumber accepts 12.5, "12.5", "12.5%", "" and null.
type flexNumber struct {
	v *float64
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, ok := ParseNumber(s)
		if ok {
			f.v = &v
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.v = &v
	return nil
}

// ParseNumber parses a numeric string, ignoring a trailing percent sign.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), "%％")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type schoolLine struct {
	SchoolName              string     `json:"school_name"`
	Rank                    flexNumber `json:"rank"`
	OverallSatisfaction     flexNumber `json:"overall_satisfaction"`
	EnvironmentSatisfaction flexNumber `json:"environment_satisfaction"`
	EmploymentRatio         flexNumber `json:"employment_ratio"`
	CivilServantRatio       flexNumber `json:"civil_servant_ratio"`
	InstitutionRatio        flexNumber `json:"institution_ratio"`
	StateOwnedRatio         flexNumber `json:"state_owned_ratio"`
	FurtherStudyRate        flexNumber `json:"further_study_rate"`
	FurtherStudyNumber      flexNumber `json:"further_study_number"`
	AbroadStudyRatio        flexNumber `json:"abroad_study_ratio"`
	USStudyRatio            flexNumber `json:"us_study_ratio"`
}

func (l schoolLine) toModel() models.SchoolAggregate {
	return models.SchoolAggregate{
		SchoolName:              strings.TrimSpace(l.SchoolName),
		Rank:                    l.Rank.v,
		OverallSatisfaction:     l.OverallSatisfaction.v,
		EnvironmentSatisfaction: l.EnvironmentSatisfaction.v,
		EmploymentRatio:         l.EmploymentRatio.v,
		CivilServantRatio:       l.CivilServantRatio.v,
		InstitutionRatio:        l.InstitutionRatio.v,
		StateOwnedRatio:         l.StateOwnedRatio.v,
		FurtherStudyRate:        l.FurtherStudyRate.v,
		FurtherStudyNumber:      l.FurtherStudyNumber.v,
		AbroadStudyRatio:        l.AbroadStudyRatio.v,
		USStudyRatio:            l.USStudyRatio.v,
	}
}

type majorLine struct {
	SchoolName             string     `json:"school_name"`
	MajorCode              string     `json:"major_code"`
	MajorName              string     `json:"major_name"`
	Level                  string     `json:"level"`
	OverallSatisfaction    flexNumber `json:"overall_satisfaction"`
	EmploymentSatisfaction flexNumber `json:"employment_satisfaction"`
}

type countryLine struct {
	Country string     `json:"country"`
	Share   flexNumber `json:"share"`
}

type yearLine struct {
	Year              int           `json:"year"`
	EmploymentRate    flexNumber    `json:"employment_rate"`
	CivilServantRatio flexNumber    `json:"civil_servant_ratio"`
	InstitutionRatio  flexNumber    `json:"institution_ratio"`
	StateOwnedRatio   flexNumber    `json:"state_owned_ratio"`
	FurtherStudyRate  flexNumber    `json:"further_study_rate"`
	AbroadCountries   []countryLine `json:"abroad_countries"`
}

type employmentLine struct {
	SchoolName string     `json:"school_name"`
	Years      []yearLine `json:"years"`
}

func (y yearLine) toModel() models.YearRecord {
	rec := models.YearRecord{
		Year:              y.Year,
		EmploymentRate:    y.EmploymentRate.v,
		CivilServantRatio: y.CivilServantRatio.v,
		InstitutionRatio:  y.InstitutionRatio.v,
		StateOwnedRatio:   y.StateOwnedRatio.v,
		FurtherStudyRate:  y.FurtherStudyRate.v,
	}
	for _, c := range y.AbroadCountries {
		if c.Share.v == nil {
			continue
		}
		rec.AbroadCountries = append(rec.AbroadCountries, models.CountryShare{Country: c.Country, Share: *c.Share.v})
	}
	return rec
}

// schoolLevelLine accepts explicit flags and free-form tags such as
// ["985", "211", "双一流"].
type schoolLevelLine struct {
	SchoolName  string   `json:"school_name"`
	IsC9        bool     `json:"is_c9"`
	Is985       bool     `json:"is_985"`
	Is211       bool     `json:"is_211"`
	IsFirstTier bool     `json:"is_first_tier"`
	Tags        []string `json:"tags"`
}

func (l schoolLevelLine) toModel() models.SchoolLevel {
	lvl := models.SchoolLevel{
		SchoolName:  strings.TrimSpace(l.SchoolName),
		IsC9:        l.IsC9,
		Is985:       l.Is985,
		Is211:       l.Is211,
		IsFirstTier: l.IsFirstTier,
	}
	for _, tag := range l.Tags {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "c9":
			lvl.IsC9 = true
		case "985":
			lvl.Is985 = true
		case "211":
			lvl.Is211 = true
		case "双一流", "first_tier", "一本":
			lvl.IsFirstTier = true
		}
	}
	return lvl
}

// LoadFromDir reads every reference file in dir. Missing optional files are
// logged and skipped; blank or malformed JSONL lines are skipped.
func LoadFromDir(ctx context.Context, dir string, log logger.Logger) (*MemoryStore, error) {
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reference data directory %s: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("reference data path %s is not a directory", dir)
	}

	var ds Dataset
	ds.EmploymentHistory = make(map[string][]models.YearRecord)

	err := readJSONL(ctx, filepath.Join(dir, SchoolsFile), log, func(line []byte) error {
		var l schoolLine
		if err := json.Unmarshal(line, &l); err != nil {
			return err
		}
		if strings.TrimSpace(l.SchoolName) == "" {
			return fmt.Errorf("school_name is empty")
		}
		ds.Schools = append(ds.Schools, l.toModel())
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readJSONL(ctx, filepath.Join(dir, MajorsFile), log, func(line []byte) error {
		var l majorLine
		if err := json.Unmarshal(line, &l); err != nil {
			return err
		}
		if strings.TrimSpace(l.SchoolName) == "" || strings.TrimSpace(l.MajorCode) == "" {
			return fmt.Errorf("school_name and major_code are required")
		}
		ds.Majors = append(ds.Majors, models.MajorAggregate{
			SchoolName:             strings.TrimSpace(l.SchoolName),
			MajorCode:              strings.TrimSpace(l.MajorCode),
			MajorName:              l.MajorName,
			Level:                  l.Level,
			OverallSatisfaction:    l.OverallSatisfaction.v,
			EmploymentSatisfaction: l.EmploymentSatisfaction.v,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readJSONL(ctx, filepath.Join(dir, EmploymentFile), log, func(line []byte) error {
		var l employmentLine
		if err := json.Unmarshal(line, &l); err != nil {
			return err
		}
		name := strings.TrimSpace(l.SchoolName)
		if name == "" {
			return fmt.Errorf("school_name is empty")
		}
		for _, y := range l.Years {
			ds.EmploymentHistory[name] = append(ds.EmploymentHistory[name], y.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := readJSONArray(filepath.Join(dir, CitiesFile), log, &ds.Cities); err != nil {
		return nil, err
	}
	var levels []schoolLevelLine
	if err := readJSONArray(filepath.Join(dir, SchoolLevelsFile), log, &levels); err != nil {
		return nil, err
	}
	for _, l := range levels {
		ds.SchoolLevels = append(ds.SchoolLevels, l.toModel())
	}
	if err := readJSONArray(filepath.Join(dir, MajorDirectionsFile), log, &ds.MajorDirections); err != nil {
		return nil, err
	}
	if err := readJSONArray(filepath.Join(dir, AdmitRatiosFile), log, &ds.AdmitRatios); err != nil {
		return nil, err
	}

	store := NewMemoryStore(ds)
	log.Info("Reference data loaded from files", store.Stats())
	return store, nil
}

func readJSONL(ctx context.Context, path string, log logger.Logger, handle func([]byte) error) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Warn("Reference data file not found, skipping", map[string]interface{}{"path": path})
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxJSONLineBytes)

	lineNo, skipped := 0, 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := handle(line); err != nil {
			skipped++
			log.Warn("Skipping malformed reference line", map[string]interface{}{
				"path":  path,
				"line":  lineNo,
				"error": err.Error(),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if skipped > 0 {
		log.Warn("Reference file loaded with skipped lines", map[string]interface{}{"path": path, "skipped": skipped})
	}
	return nil
}

func readJSONArray(path string, log logger.Logger, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn("Reference data file not found, skipping", map[string]interface{}{"path": path})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
