// internal/workers/advisory/search-candidates/query.go
package searchcandidates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/scoring"
)

// BuildQuery turns target into a bool query over the school_majors index.
// Each non-empty constraint becomes one filter clause; alternatives inside a
// constraint are OR-ed through should with minimum_should_match 1.
func BuildQuery(target models.TargetPreferences, size int) map[string]interface{} {
	filterClauses := []interface{}{}

	if areas := areaClauses(target.SchoolCities); len(areas) > 0 {
		filterClauses = append(filterClauses, anyOf(areas))
	}
	if majors := trimmed(target.Majors); len(majors) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"major": majors},
		})
	}
	if directions := trimmed(target.Directions); len(directions) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"directions.yjfxmc": directions},
		})
	}
	if levels := levelClauses(target.Levels); len(levels) > 0 {
		filterClauses = append(filterClauses, anyOf(levels))
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"school_code": map[string]interface{}{"order": "asc"}},
			map[string]interface{}{"major_code": map[string]interface{}{"order": "asc"}},
		},
	}
}

func areaClauses(areas []models.Area) []interface{} {
	var out []interface{}
	for _, a := range areas {
		var must []interface{}
		if p := strings.TrimSpace(a.Province); p != "" {
			must = append(must, term("province", p))
		}
		if c := strings.TrimSpace(a.City); c != "" {
			must = append(must, term("city", c))
		}
		if len(must) == 0 {
			continue
		}
		out = append(out, map[string]interface{}{
			"bool": map[string]interface{}{"filter": must},
		})
	}
	return out
}

func levelClauses(levels []string) []interface{} {
	var out []interface{}
	for _, l := range levels {
		switch strings.ToLower(strings.TrimSpace(l)) {
		case scoring.TierLevelC9:
			out = append(out, map[string]interface{}{
				"terms": map[string]interface{}{"school_name": c9Names()},
			})
		case scoring.TierLevel985:
			out = append(out, term("is_985", "1"))
		case scoring.TierLevel211:
			out = append(out, term("is_211", "1"))
		}
	}
	return out
}

func c9Names() []string {
	names := make([]string, 0, len(scoring.C9Schools))
	for name := range scoring.C9Schools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func term(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

func anyOf(clauses []interface{}) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should":               clauses,
			"minimum_should_match": 1,
		},
	}
}

func trimmed(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// search runs the query and decodes the hits. A missing index is reported
// with ErrIndexNotFound. Documents that do not decode are logged and skipped.
func search(ctx context.Context, client *elasticsearch.Client, index string, body map[string]interface{}, log logger.Logger) ([]models.CandidateSchoolMajor, int64, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, 0, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, 0, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.CandidateSchoolMajor, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		var c models.CandidateSchoolMajor
		if err := json.Unmarshal(hit.Source, &c); err != nil {
			log.Warn("skipping undecodable candidate document", map[string]interface{}{
				"index": index,
				"id":    hit.ID,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, c)
	}
	return out, r.Hits.Total.Value, nil
}
