package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/models"
)

const (
	querySchools = `SELECT school_name, rank, overall_satisfaction, environment_satisfaction, employment_ratio,
		civil_servant_ratio, institution_ratio, state_owned_ratio, further_study_rate, further_study_number,
		abroad_study_ratio, us_study_ratio
		FROM school_aggregates`

	queryMajors = `SELECT school_name, major_code, major_name, level, overall_satisfaction, employment_satisfaction
		FROM major_aggregates`

	queryEmployment = `SELECT school_name, year, employment_rate, civil_servant_ratio, institution_ratio,
		state_owned_ratio, further_study_rate, abroad_countries
		FROM employment_history
		ORDER BY school_name, year`

	queryCities = `SELECT city, cost_of_living, education, healthcare FROM city_scores`

	querySchoolLevels = `SELECT school_name, is_c9, is_985, is_211, is_first_tier FROM school_levels`

	queryMajorDirections = `SELECT major_name, direction FROM major_directions ORDER BY major_name, direction`

	queryAdmitRatios = `SELECT school_name, department, ratio FROM admit_ratio_averages`
)

// LoadFromPostgres reads the reference tables into a MemoryStore.
func LoadFromPostgres(ctx context.Context, db *sql.DB, log logger.Logger) (*MemoryStore, error) {
	var ds Dataset
	ds.EmploymentHistory = make(map[string][]models.YearRecord)

	steps := []struct {
		name  string
		query string
		scan  func(*sql.Rows) error
	}{
		{"school_aggregates", querySchools, func(rows *sql.Rows) error {
			var (
				s    models.SchoolAggregate
				vals [11]sql.NullFloat64
			)
			if err := rows.Scan(&s.SchoolName, &vals[0], &vals[1], &vals[2], &vals[3], &vals[4],
				&vals[5], &vals[6], &vals[7], &vals[8], &vals[9], &vals[10]); err != nil {
				return err
			}
			s.Rank = nullFloat(vals[0])
			s.OverallSatisfaction = nullFloat(vals[1])
			s.EnvironmentSatisfaction = nullFloat(vals[2])
			s.EmploymentRatio = nullFloat(vals[3])
			s.CivilServantRatio = nullFloat(vals[4])
			s.InstitutionRatio = nullFloat(vals[5])
			s.StateOwnedRatio = nullFloat(vals[6])
			s.FurtherStudyRate = nullFloat(vals[7])
			s.FurtherStudyNumber = nullFloat(vals[8])
			s.AbroadStudyRatio = nullFloat(vals[9])
			s.USStudyRatio = nullFloat(vals[10])
			ds.Schools = append(ds.Schools, s)
			return nil
		}},
		{"major_aggregates", queryMajors, func(rows *sql.Rows) error {
			var (
				m                 models.MajorAggregate
				name, level       sql.NullString
				overall, employed sql.NullFloat64
			)
			if err := rows.Scan(&m.SchoolName, &m.MajorCode, &name, &level, &overall, &employed); err != nil {
				return err
			}
			m.MajorName = name.String
			m.Level = level.String
			m.OverallSatisfaction = nullFloat(overall)
			m.EmploymentSatisfaction = nullFloat(employed)
			ds.Majors = append(ds.Majors, m)
			return nil
		}},
		{"employment_history", queryEmployment, func(rows *sql.Rows) error {
			var (
				school string
				rec    models.YearRecord
				vals   [5]sql.NullFloat64
				abroad sql.NullString
			)
			if err := rows.Scan(&school, &rec.Year, &vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &abroad); err != nil {
				return err
			}
			rec.EmploymentRate = nullFloat(vals[0])
			rec.CivilServantRatio = nullFloat(vals[1])
			rec.InstitutionRatio = nullFloat(vals[2])
			rec.StateOwnedRatio = nullFloat(vals[3])
			rec.FurtherStudyRate = nullFloat(vals[4])
			if abroad.Valid && abroad.String != "" {
				if err := json.Unmarshal([]byte(abroad.String), &rec.AbroadCountries); err != nil {
					log.Warn("Ignoring malformed abroad_countries", map[string]interface{}{
						"school": school,
						"year":   rec.Year,
						"error":  err.Error(),
					})
				}
			}
			ds.EmploymentHistory[school] = append(ds.EmploymentHistory[school], rec)
			return nil
		}},
		{"city_scores", queryCities, func(rows *sql.Rows) error {
			var c models.CityScore
			if err := rows.Scan(&c.City, &c.CostOfLiving, &c.Education, &c.Healthcare); err != nil {
				return err
			}
			ds.Cities = append(ds.Cities, c)
			return nil
		}},
		{"school_levels", querySchoolLevels, func(rows *sql.Rows) error {
			var l models.SchoolLevel
			if err := rows.Scan(&l.SchoolName, &l.IsC9, &l.Is985, &l.Is211, &l.IsFirstTier); err != nil {
				return err
			}
			ds.SchoolLevels = append(ds.SchoolLevels, l)
			return nil
		}},
		{"major_directions", queryMajorDirections, func(rows *sql.Rows) error {
			var major, direction string
			if err := rows.Scan(&major, &direction); err != nil {
				return err
			}
			n := len(ds.MajorDirections)
			if n > 0 && ds.MajorDirections[n-1].MajorName == major {
				ds.MajorDirections[n-1].Directions = append(ds.MajorDirections[n-1].Directions, direction)
				return nil
			}
			ds.MajorDirections = append(ds.MajorDirections, models.MajorDirection{MajorName: major, Directions: []string{direction}})
			return nil
		}},
		{"admit_ratio_averages", queryAdmitRatios, func(rows *sql.Rows) error {
			var a models.AdmitRatioAverage
			if err := rows.Scan(&a.SchoolName, &a.Department, &a.Ratio); err != nil {
				return err
			}
			ds.AdmitRatios = append(ds.AdmitRatios, a)
			return nil
		}},
	}

	for _, step := range steps {
		if err := queryEach(ctx, db, step.query, step.scan); err != nil {
			return nil, fmt.Errorf("load %s: %w", step.name, err)
		}
	}

	store := NewMemoryStore(ds)
	log.Info("Reference data loaded from postgres", store.Stats())
	return store, nil
}

func queryEach(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
