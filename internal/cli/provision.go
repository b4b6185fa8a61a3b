package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/logging"
)

// ErrSchemaIncomplete makes `verify` exit non-zero.
var ErrSchemaIncomplete = errors.New("schema is incomplete")

func provisionCmd(cfg *config.Config) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the liveAirlines collections and indexes that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), cfg, constants.CommandProvision)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.provision.Provision(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			for _, s := range report.Steps {
				target := s.Collection
				if s.Index != "" {
					target += "." + s.Index
				}
				fmt.Fprintf(out, "%-10s %-40s %s\n", s.Kind, target, s.Outcome)
			}
			fmt.Fprintf(out, "%d created, %d already present in %s\n", report.Created(), report.Existing(), report.Duration())
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run report as JSON")
	return cmd
}

func verifyCmd(cfg *config.Config) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the schema without changing it; exits non-zero when incomplete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), cfg, constants.CommandVerify)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.provision.Verify(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				for _, p := range report.Problems() {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}

			if !report.OK {
				logging.Warn("Schema verification failed", "database", report.Database, "problems", len(report.Problems()))
				return ErrSchemaIncomplete
			}
			if !jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: schema OK\n", report.Database)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the verification report as JSON")
	return cmd
}
