// cmd/tools/advisorctl/workers.go
package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"kaoyan-advisor/pkg/registry"
)

func newWorkersCmd(g *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Inspect and edit the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "registry", registry.DefaultPath, "path to the activity registry")

	load := func() (*registry.ActivityRegistry, error) {
		reg, err := registry.LoadRegistry(path)
		if err != nil {
			return nil, errors.Wrapf(err, "load registry %s", path)
		}
		return reg, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := g.checkOutput(); err != nil {
				return err
			}
			reg, err := load()
			if err != nil {
				return err
			}
			if g.output == "json" {
				return writeJSON(cmd.OutOrStdout(), reg)
			}
			return renderActivities(cmd.OutOrStdout(), reg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the registry for missing fields and duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := load()
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return errors.Wrap(err, "registry validation failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Update one field of an activity (status, version, timeout, retries, ...)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := load()
			if err != nil {
				return err
			}
			if err := reg.Set(args[0], args[1], args[2], time.Now().UTC()); err != nil {
				return err
			}
			if err := reg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	})

	return cmd
}
