// internal/common/validation/preferences.go
package validation

import (
	"fmt"
	"strings"

	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/scoring"
)

const MaxWorkCities = 3

const targetPreferencesSchema = `{
  "type": "object",
  "properties": {
    "schoolCities": {"type": ["array", "null"], "items": {"$ref": "#/definitions/area"}},
    "majors":       {"type": ["array", "null"], "items": {"type": "string"}},
    "directions":   {"type": ["array", "null"], "items": {"type": "string"}},
    "levels":       {"type": ["array", "null"], "items": {"type": "string"}},
    "workCities": {
      "type": ["array", "null"],
      "maxItems": 3,
      "items": {"$ref": "#/definitions/area"}
    },
    "weights": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name", "val"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "val":  {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  },
  "definitions": {
    "area": {
      "type": "object",
      "properties": {
        "province": {"type": "string"},
        "city":     {"type": "string"}
      }
    }
  }
}`

var targetSchema = MustCompileSchema(targetPreferencesSchema)

// ValidatePreferences checks target against the request schema and the
// advisory rules the schema cannot express.
func ValidatePreferences(target models.TargetPreferences) *ValidationResult {
	result := targetSchema.Validate(target)

	if !target.HasConstraint() {
		result.Add("targetPreferences", "NO_CONSTRAINT",
			"at least one of schoolCities, majors, directions or levels is required")
	}

	for i, level := range target.Levels {
		if !scoring.IsValidLevel(level) {
			result.Add(fmt.Sprintf("levels.%d", i), "INVALID_LEVEL",
				fmt.Sprintf("unknown school level %q, expected one of c9, 985, 211", level))
		}
	}

	for i, area := range target.SchoolCities {
		if area.IsZero() {
			result.Add(fmt.Sprintf("schoolCities.%d", i), "EMPTY_AREA", "province or city is required")
		}
	}

	seen := make(map[string]bool, len(target.Weights))
	for i, w := range target.Weights {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		if !scoring.IsDimension(name) {
			result.Add(fmt.Sprintf("weights.%d.name", i), "UNKNOWN_WEIGHT",
				fmt.Sprintf("unknown dimension %q", name))
			continue
		}
		if seen[name] {
			result.Add(fmt.Sprintf("weights.%d.name", i), "DUPLICATE_WEIGHT",
				fmt.Sprintf("dimension %q weighted more than once", name))
		}
		seen[name] = true
	}

	result.Valid = len(result.Errors) == 0
	return result
}
