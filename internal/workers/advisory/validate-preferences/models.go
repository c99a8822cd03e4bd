// internal/workers/advisory/validate-preferences/models.go
package validatepreferences

import (
	"kaoyan-advisor/internal/common/validation"
	"kaoyan-advisor/internal/models"
)

type Input struct {
	UserProfile       models.UserProfile       `json:"userProfile"`
	TargetPreferences models.TargetPreferences `json:"targetPreferences"`
}

type Output struct {
	IsValid bool                         `json:"isValid"`
	Errors  []validation.ValidationError `json:"errors"`
}
