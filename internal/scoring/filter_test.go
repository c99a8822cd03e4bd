package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kaoyan-advisor/internal/models"
)

func TestFilter(t *testing.T) {
	zju := candidate("浙江大学", "081200", "计算机科学与技术", "浙江省", "杭州")
	zju.Is985, zju.Is211 = "1", "1"
	zju.Directions = []models.ResearchDirection{{Name: "人工智能"}}

	suda := candidate("苏州大学", "081200", "计算机科学与技术", "江苏省", "苏州")
	suda.Is211 = "1"

	nbu := candidate("宁波大学", "083500", "软件工程", "浙江省", "宁波")
	nbu.Directions = []models.ResearchDirection{{Name: "软件工程理论"}}

	all := []models.CandidateSchoolMajor{zju, suda, nbu}

	keys := func(cs []models.CandidateSchoolMajor) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.SchoolName)
		}
		return out
	}

	tests := []struct {
		name   string
		target models.TargetPreferences
		want   []string
	}{
		{"no constraints", models.TargetPreferences{}, []string{"浙江大学", "苏州大学", "宁波大学"}},
		{"985 excludes non-985", models.TargetPreferences{Levels: []string{"985"}}, []string{"浙江大学"}},
		{"211 or c9", models.TargetPreferences{Levels: []string{"211", "C9"}}, []string{"浙江大学", "苏州大学"}},
		{"province", models.TargetPreferences{SchoolCities: []models.Area{{Province: "浙江省"}}}, []string{"浙江大学", "宁波大学"}},
		{"province and city", models.TargetPreferences{SchoolCities: []models.Area{{Province: "浙江省", City: "宁波"}}}, []string{"宁波大学"}},
		{"city only", models.TargetPreferences{SchoolCities: []models.Area{{City: "苏州"}}}, []string{"苏州大学"}},
		{"major", models.TargetPreferences{Majors: []string{" 软件工程 "}}, []string{"宁波大学"}},
		{"direction", models.TargetPreferences{Directions: []string{"人工智能"}}, []string{"浙江大学"}},
		{"combined constraints intersect", models.TargetPreferences{
			Levels:       []string{"211"},
			SchoolCities: []models.Area{{Province: "江苏省"}},
		}, []string{"苏州大学"}},
		{"nothing matches", models.TargetPreferences{Majors: []string{"哲学"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(Filter(all, tt.target)))
		})
	}
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("985"))
	assert.True(t, IsValidLevel(" C9 "))
	assert.False(t, IsValidLevel("双一流"))
}
