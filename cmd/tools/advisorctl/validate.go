// cmd/tools/advisorctl/validate.go
package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	validatepreferences "kaoyan-advisor/internal/workers/advisory/validate-preferences"
)

// errInvalidRequest makes the command exit non-zero after the report is printed.
var errInvalidRequest = errors.New("request failed validation")

func newValidateCmd(g *globalOptions) *cobra.Command {
	var request string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a request file the way the validate-preferences worker does",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := g.checkOutput(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			appCfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			req, err := loadRequest(request)
			if err != nil {
				return err
			}

			h := validatepreferences.NewHandler(validatepreferences.LoadConfig(appCfg), nil, g.logger())
			out, err := h.Execute(ctx, &validatepreferences.Input{
				UserProfile:       req.UserProfile,
				TargetPreferences: req.TargetPreferences,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if g.output == "json" {
				err = writeJSON(w, out)
			} else {
				err = renderValidation(w, out.IsValid, out.Errors)
			}
			if err != nil {
				return err
			}
			if !out.IsValid {
				return errInvalidRequest
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&request, "request", "r", "", "request file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}
