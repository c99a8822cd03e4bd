// cmd/tools/advisorctl/request.go
package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kaoyan-advisor/internal/models"
)

// Request is the advisory request read from a YAML or JSON file.
type Request struct {
	UserProfile       models.UserProfile            `json:"userProfile"`
	TargetPreferences models.TargetPreferences      `json:"targetPreferences"`
	Candidates        []models.CandidateSchoolMajor `json:"candidates"`
}

// loadRequest decodes path as YAML and maps it onto the JSON field names the
// workers use, so one file works for both formats.
func loadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read request %s", path)
	}
	return parseRequest(data)
}

func parseRequest(data []byte) (*Request, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse request")
	}
	if doc == nil {
		return nil, errors.New("request file is empty")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "request contains values that cannot be mapped")
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, errors.Wrap(err, "decode request")
	}
	return &req, nil
}
