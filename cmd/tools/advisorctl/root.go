// cmd/tools/advisorctl/root.go
package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"kaoyan-advisor/internal/common/config"
	"kaoyan-advisor/internal/common/logger"
)

type globalOptions struct {
	configFile string
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "advisorctl",
		Short: "Offline tools for the kaoyan advisory workers",
		Long: `advisorctl runs the advisory pipeline without Zeebe.

It can:
  - validate a request file the way the validate-preferences worker does
  - score a request file against local reference data
  - inspect and edit the activity registry of the advisory workers

Request files are YAML or JSON with userProfile, targetPreferences and candidates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"config file (default: built-in scoring defaults)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table",
		"output format (table, json)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newWorkersCmd(opts))
	return cmd
}

func (o *globalOptions) logger() logger.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logger.NewStructured(level, "console")
}

// loadConfig returns the app config, or nil when no file was given so
// callers fall back to built-in defaults.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configFile == "" {
		return nil, nil
	}
	cfg, err := config.LoadFromFile(o.configFile)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

func (o *globalOptions) checkOutput() error {
	switch o.output {
	case "table", "json":
		return nil
	}
	return errors.Errorf("unknown output format: %s", o.output)
}
