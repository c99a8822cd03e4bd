// cmd/tools/advisorctl/output.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"kaoyan-advisor/internal/common/validation"
	"kaoyan-advisor/internal/models"
	scorecandidates "kaoyan-advisor/internal/workers/advisory/score-candidates"
	"kaoyan-advisor/pkg/registry"
)

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func renderScore(w io.Writer, out *scorecandidates.Output) error {
	fmt.Fprintf(w, "run %s: %s (considered %d, impossible %d, %d ms)\n",
		out.RunID, out.Message, out.TotalConsidered, out.ImpossibleCount, out.DurationMs)
	if out.TotalConsidered == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Tier", "Rank", "School", "Major", "City", "Composite", "Admission", "Probability")
	for _, bucket := range []struct {
		tier models.Tier
		list []models.ScoredCandidate
	}{
		{models.TierReach, out.Tiers.Reach},
		{models.TierMatch, out.Tiers.Match},
		{models.TierSafety, out.Tiers.Safety},
	} {
		for _, sc := range bucket.list {
			if err := table.Append([]string{
				string(bucket.tier),
				strconv.Itoa(sc.Rank),
				sc.Candidate.SchoolName,
				sc.Candidate.Major,
				sc.Candidate.City,
				f1(sc.CompositeScore),
				f1(sc.AdmissionScore),
				f1(sc.Probability) + "%",
			}); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

// renderDimensions prints the per-dimension breakdown of one candidate.
func renderDimensions(w io.Writer, sc models.ScoredCandidate) error {
	fmt.Fprintf(w, "\n%s %s (%s #%d)\n", sc.Candidate.SchoolName, sc.Candidate.Major, sc.Tier, sc.Rank)

	table := tablewriter.NewWriter(w)
	table.Header("Dimension", "Metric", "Score", "Weight", "Source", "Description")
	for _, dim := range sc.Dimensions {
		for _, s := range dim.Scores {
			if err := table.Append([]string{
				string(dim.Dimension),
				s.Name,
				f1(s.Score),
				strconv.FormatFloat(s.Weight, 'f', 2, 64),
				s.Source,
				s.Description,
			}); err != nil {
				return err
			}
		}
		if err := table.Append([]string{string(dim.Dimension), "total", f1(dim.Total), "", "", ""}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderValidation(w io.Writer, valid bool, errs []validation.ValidationError) error {
	if valid {
		fmt.Fprintln(w, "request is valid")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Code", "Message")
	for _, e := range errs {
		if err := table.Append([]string{e.Field, e.Code, e.Message}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderActivities(w io.Writer, reg *registry.ActivityRegistry) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Task Type", "Status", "Timeout", "Retries", "Error Codes")
	for _, a := range reg.Activities {
		if err := table.Append([]string{
			a.ID,
			a.TaskType,
			a.ImplementationStatus,
			a.Timeout,
			strconv.Itoa(a.Retries),
			fmt.Sprint(len(a.ErrorCodes)),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
