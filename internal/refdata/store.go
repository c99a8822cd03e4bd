// Package refdata provides the read-only reference data the scoring engine
// looks up: school and major aggregates, employment history, city scores,
// school levels, the major direction directory and admit-ratio averages.
package refdata

import (
	"sort"
	"strings"

	"kaoyan-advisor/internal/models"
)

// Store is safe for concurrent reads.
type Store interface {
	GetSchool(name string) (*models.SchoolAggregate, bool)
	GetMajor(schoolName, majorCode string) (*models.MajorAggregate, bool)
	GetEmploymentHistory(schoolName string) []models.YearRecord
	GetCityScore(city string) (*models.CityScore, bool)
	GetSchoolLevel(schoolName string) (*models.SchoolLevel, bool)
	GetMajorDirections(majorName string) []string
	GetAdmitRatioAverage(schoolName, department string) (float64, bool)
}

// Dataset is the raw material a Store is built from.
type Dataset struct {
	Schools           []models.SchoolAggregate
	Majors            []models.MajorAggregate
	EmploymentHistory map[string][]models.YearRecord
	Cities            []models.CityScore
	SchoolLevels      []models.SchoolLevel
	MajorDirections   []models.MajorDirection
	AdmitRatios       []models.AdmitRatioAverage
}

type majorKey struct {
	school string
	code   string
}

type MemoryStore struct {
	schools     map[string]*models.SchoolAggregate
	majors      map[majorKey]*models.MajorAggregate
	history     map[string][]models.YearRecord
	cities      map[string]*models.CityScore
	levels      map[string]*models.SchoolLevel
	directions  map[string][]string
	admitRatios map[majorKey]float64
}

// NewMemoryStore indexes ds. Later duplicates replace earlier ones, and
// employment history is sorted by year ascending.
func NewMemoryStore(ds Dataset) *MemoryStore {
	s := &MemoryStore{
		schools:     make(map[string]*models.SchoolAggregate, len(ds.Schools)),
		majors:      make(map[majorKey]*models.MajorAggregate, len(ds.Majors)),
		history:     make(map[string][]models.YearRecord, len(ds.EmploymentHistory)),
		cities:      make(map[string]*models.CityScore, len(ds.Cities)),
		levels:      make(map[string]*models.SchoolLevel, len(ds.SchoolLevels)),
		directions:  make(map[string][]string, len(ds.MajorDirections)),
		admitRatios: make(map[majorKey]float64, len(ds.AdmitRatios)),
	}

	for i := range ds.Schools {
		school := ds.Schools[i]
		s.schools[norm(school.SchoolName)] = &school
	}
	for i := range ds.Majors {
		major := ds.Majors[i]
		s.majors[majorKey{norm(major.SchoolName), norm(major.MajorCode)}] = &major
	}
	for name, records := range ds.EmploymentHistory {
		sorted := make([]models.YearRecord, len(records))
		copy(sorted, records)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
		s.history[norm(name)] = sorted
	}
	for i := range ds.Cities {
		city := ds.Cities[i]
		s.cities[norm(city.City)] = &city
	}
	for i := range ds.SchoolLevels {
		lvl := ds.SchoolLevels[i]
		s.levels[norm(lvl.SchoolName)] = &lvl
	}
	for _, md := range ds.MajorDirections {
		s.directions[norm(md.MajorName)] = append([]string(nil), md.Directions...)
	}
	for _, ar := range ds.AdmitRatios {
		s.admitRatios[majorKey{norm(ar.SchoolName), norm(ar.Department)}] = ar.Ratio
	}
	return s
}

func norm(s string) string {
	return strings.TrimSpace(s)
}

func (s *MemoryStore) GetSchool(name string) (*models.SchoolAggregate, bool) {
	v, ok := s.schools[norm(name)]
	return v, ok
}

func (s *MemoryStore) GetMajor(schoolName, majorCode string) (*models.MajorAggregate, bool) {
	v, ok := s.majors[majorKey{norm(schoolName), norm(majorCode)}]
	return v, ok
}

func (s *MemoryStore) GetEmploymentHistory(schoolName string) []models.YearRecord {
	return s.history[norm(schoolName)]
}

func (s *MemoryStore) GetCityScore(city string) (*models.CityScore, bool) {
	v, ok := s.cities[norm(city)]
	return v, ok
}

func (s *MemoryStore) GetSchoolLevel(schoolName string) (*models.SchoolLevel, bool) {
	v, ok := s.levels[norm(schoolName)]
	return v, ok
}

func (s *MemoryStore) GetMajorDirections(majorName string) []string {
	return s.directions[norm(majorName)]
}

func (s *MemoryStore) GetAdmitRatioAverage(schoolName, department string) (float64, bool) {
	v, ok := s.admitRatios[majorKey{norm(schoolName), norm(department)}]
	return v, ok
}

// Stats reports record counts, used in load logs.
func (s *MemoryStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"schools":         len(s.schools),
		"majors":          len(s.majors),
		"histories":       len(s.history),
		"cities":          len(s.cities),
		"schoolLevels":    len(s.levels),
		"majorDirections": len(s.directions),
		"admitRatios":     len(s.admitRatios),
	}
}
