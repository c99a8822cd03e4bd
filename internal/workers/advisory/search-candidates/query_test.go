package searchcandidates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/models"
)

func filtersOf(t *testing.T, q map[string]interface{}) []interface{} {
	t.Helper()
	// round-trip so assertions see plain JSON types
	raw, err := json.Marshal(q)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
}

func TestBuildQuery(t *testing.T) {
	t.Run("empty target has no filters", func(t *testing.T) {
		q := BuildQuery(models.TargetPreferences{}, 50)
		assert.Equal(t, 50, q["size"])
		assert.Empty(t, filtersOf(t, q))
	})

	t.Run("one clause per constraint", func(t *testing.T) {
		q := BuildQuery(models.TargetPreferences{
			SchoolCities: []models.Area{{Province: "浙江省", City: "杭州"}, {Province: "上海市"}, {}},
			Majors:       []string{" 软件工程 ", ""},
			Directions:   []string{"人工智能"},
			Levels:       []string{"C9", "211", "双一流"},
		}, 200)

		filters := filtersOf(t, q)
		require.Len(t, filters, 4)

		areas := filters[0].(map[string]interface{})["bool"].(map[string]interface{})
		assert.EqualValues(t, 1, areas["minimum_should_match"])
		assert.Len(t, areas["should"], 2)

		majors := filters[1].(map[string]interface{})["terms"].(map[string]interface{})["major"]
		assert.Equal(t, []interface{}{"软件工程"}, majors)

		directions := filters[2].(map[string]interface{})["terms"].(map[string]interface{})["directions.yjfxmc"]
		assert.Equal(t, []interface{}{"人工智能"}, directions)

		levels := filters[3].(map[string]interface{})["bool"].(map[string]interface{})["should"].([]interface{})
		require.Len(t, levels, 2)
		c9 := levels[0].(map[string]interface{})["terms"].(map[string]interface{})["school_name"].([]interface{})
		assert.Len(t, c9, 9)
		assert.Contains(t, c9, "浙江大学")
		assert.Equal(t, map[string]interface{}{"term": map[string]interface{}{"is_211": "1"}}, levels[1])
	})
}
