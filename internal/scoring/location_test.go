package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/models"
)

func TestLocationCalculator_HometownMatch(t *testing.T) {
	c := candidate("浙江大学", "081200", "计算机科学与技术", "浙江省", "杭州")

	tests := []struct {
		name     string
		hometown *models.Area
		want     float64
	}{
		{"same city", &models.Area{Province: "浙江省", City: "杭州"}, HometownSameCity},
		{"same province", &models.Area{Province: "浙江省", City: "宁波"}, HometownSameProvince},
		{"different", &models.Area{Province: "四川省", City: "成都"}, HometownDifferent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewLocationCalculator(&Request{User: models.UserProfile{Hometown: tt.hometown}})
			res := calc.HometownMatch(&c)
			require.False(t, res.Missing())
			assert.Equal(t, tt.want, res.Score)
		})
	}

	assert.Greater(t, HometownSameCity, HometownSameProvince)
	assert.Greater(t, HometownSameProvince, HometownDifferent)

	calc := NewLocationCalculator(&Request{})
	assert.Equal(t, ReasonNoProfile, calc.HometownMatch(&c).Reason)
}

func TestLocationCalculator_WorkCityMatch(t *testing.T) {
	c := candidate("武汉大学", "081200", "计算机科学与技术", "湖北省", "武汉")

	calc := NewLocationCalculator(&Request{Target: models.TargetPreferences{
		WorkCities: []models.Area{{Province: "湖北省", City: "宜昌"}, {Province: "湖北省", City: "武汉"}},
	}})
	assert.Equal(t, WorkSameCity, calc.WorkCityMatch(&c).Score)

	calc = NewLocationCalculator(&Request{Target: models.TargetPreferences{
		WorkCities: []models.Area{{Province: "湖北省"}},
	}})
	assert.Equal(t, WorkSameProvince, calc.WorkCityMatch(&c).Score)

	calc = NewLocationCalculator(&Request{Target: models.TargetPreferences{
		WorkCities: []models.Area{{Province: "广东省", City: "深圳"}},
	}})
	assert.Equal(t, WorkDifferent, calc.WorkCityMatch(&c).Score)
}

func TestLocationCalculator_CityScores(t *testing.T) {
	store := fixtureStore()
	calc := NewLocationCalculator(&Request{Store: store})

	hz := candidate("浙江大学", "081200", "计算机科学与技术", "浙江省", "杭州")
	res := calc.EducationResources(&hz)
	require.False(t, res.Missing())
	assert.Equal(t, 82.0, res.Score)
	assert.Equal(t, 45.0, calc.CostOfLiving(&hz).Score)

	wh := candidate("武汉大学", "081200", "计算机科学与技术", "湖北省", "武汉")
	assert.Equal(t, ReasonNoValue, calc.HealthcareResources(&wh).Reason)

	nc := candidate("某某学院", "081200", "计算机科学与技术", "江西省", "南昌")
	assert.Equal(t, ReasonNoRecord, calc.CostOfLiving(&nc).Reason)

	total := calc.CalculateTotal(&nc)
	for _, s := range total.Scores {
		assert.Equal(t, models.SourceDefault, s.Source, s.Name)
	}
}
