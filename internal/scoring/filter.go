package scoring

import (
	"strings"

	"kaoyan-advisor/internal/models"
)

// School tier levels accepted in TargetPreferences.Levels.
const (
	TierLevelC9  = "c9"
	TierLevel985 = "985"
	TierLevel211 = "211"
)

func IsValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case TierLevelC9, TierLevel985, TierLevel211:
		return true
	}
	return false
}

// Filter keeps the candidates that satisfy every non-empty target constraint.
func Filter(candidates []models.CandidateSchoolMajor, target models.TargetPreferences) []models.CandidateSchoolMajor {
	out := make([]models.CandidateSchoolMajor, 0, len(candidates))
	for _, c := range candidates {
		if MatchesTarget(&c, target) {
			out = append(out, c)
		}
	}
	return out
}

func MatchesTarget(c *models.CandidateSchoolMajor, target models.TargetPreferences) bool {
	if len(target.SchoolCities) > 0 && !matchesArea(c, target.SchoolCities) {
		return false
	}
	if len(target.Majors) > 0 && !contains(trimAll(target.Majors), strings.TrimSpace(c.Major)) {
		return false
	}
	if len(target.Directions) > 0 && !matchesDirection(c, target.Directions) {
		return false
	}
	if len(target.Levels) > 0 && !matchesLevel(c, target.Levels) {
		return false
	}
	return true
}

func matchesArea(c *models.CandidateSchoolMajor, areas []models.Area) bool {
	for _, a := range areas {
		province := strings.TrimSpace(a.Province)
		city := strings.TrimSpace(a.City)
		if province != "" && province != strings.TrimSpace(c.Province) {
			continue
		}
		if city != "" && city != strings.TrimSpace(c.City) {
			continue
		}
		if province != "" || city != "" {
			return true
		}
	}
	return false
}

func matchesDirection(c *models.CandidateSchoolMajor, wanted []string) bool {
	set := trimAll(wanted)
	for _, d := range c.Directions {
		if contains(set, strings.TrimSpace(d.Name)) {
			return true
		}
	}
	return false
}

func matchesLevel(c *models.CandidateSchoolMajor, levels []string) bool {
	for _, l := range levels {
		switch strings.ToLower(strings.TrimSpace(l)) {
		case TierLevelC9:
			if IsC9(c.SchoolName) {
				return true
			}
		case TierLevel985:
			if c.Is985 == "1" {
				return true
			}
		case TierLevel211:
			if c.Is211 == "1" {
				return true
			}
		}
	}
	return false
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
