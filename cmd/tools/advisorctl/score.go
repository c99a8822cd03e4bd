// cmd/tools/advisorctl/score.go
package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"kaoyan-advisor/internal/common/config"
	"kaoyan-advisor/internal/common/database"
	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/refdata"
	scorecandidates "kaoyan-advisor/internal/workers/advisory/score-candidates"
)

type scoreOptions struct {
	request string
	refdata string
	topK    int
	explain bool
	now     string
}

func newScoreCmd(g *globalOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a request file and print the reach, match and safety tiers",
		Long: `Score runs the score-candidates worker in process.

Examples:
  advisorctl score -r request.yaml --refdata ./resources
  advisorctl score -r request.yaml --explain
  advisorctl score -r request.json -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.request, "request", "r", "", "request file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.refdata, "refdata", "", "reference data directory (overrides config)")
	cmd.Flags().IntVar(&opts.topK, "top-k", 0, "candidates kept per tier (overrides config)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print the dimension breakdown of every selected candidate")
	cmd.Flags().StringVar(&opts.now, "now", "", "evaluation date, YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runScore(cmd *cobra.Command, g *globalOptions, opts *scoreOptions) error {
	if err := g.checkOutput(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := g.logger()

	appCfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	req, err := loadRequest(opts.request)
	if err != nil {
		return err
	}

	refCfg := config.ReferenceDataConfig{Source: config.ReferenceSourceFiles, Dir: "./resources"}
	if appCfg != nil {
		refCfg = appCfg.ReferenceData
	}
	if opts.refdata != "" {
		refCfg = config.ReferenceDataConfig{Source: config.ReferenceSourceFiles, Dir: opts.refdata}
	}

	var db *sql.DB
	if refCfg.Source == config.ReferenceSourcePostgres {
		pg, err := database.ConnectPostgres(ctx, appCfg.Database.Postgres)
		if err != nil {
			return errors.Wrap(err, "connect postgres")
		}
		defer pg.Close()
		db = pg.DB
	}

	load, err := refdata.SourceLoader(refCfg, db, log)
	if err != nil {
		return err
	}
	provider := refdata.NewProvider(load, log)
	if err := provider.Init(ctx); err != nil {
		return errors.Wrap(err, "load reference data")
	}

	workerCfg := scorecandidates.LoadConfig(appCfg)
	if opts.topK > 0 {
		workerCfg.Scoring.TopK = opts.topK
	}
	if opts.now != "" {
		day, err := time.ParseInLocation("2006-01-02", opts.now, time.Local)
		if err != nil {
			return errors.Wrap(err, "parse --now")
		}
		workerCfg.Scoring.Clock = func() time.Time { return day }
	}

	out, err := scorecandidates.NewHandler(workerCfg, provider, nil, log).Execute(ctx, &scorecandidates.Input{
		UserProfile:       req.UserProfile,
		TargetPreferences: req.TargetPreferences,
		Candidates:        req.Candidates,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if g.output == "json" {
		return writeJSON(w, out)
	}
	if err := renderScore(w, out); err != nil {
		return err
	}
	if opts.explain {
		for _, bucket := range [][]models.ScoredCandidate{out.Tiers.Reach, out.Tiers.Match, out.Tiers.Safety} {
			for _, sc := range bucket {
				if err := renderDimensions(w, sc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
