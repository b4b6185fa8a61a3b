package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/schema"
	"live-airlines/provisioner/internal/services"
)

var errDropNotConfirmed = errors.New("refusing to drop the database without --force")

func smokeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Insert, read back and delete a probe document in every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), cfg, constants.CommandSmoke)
			if err != nil {
				return err
			}
			defer a.close()

			return runSmoke(cmd.Context(), cmd.OutOrStdout(), a.maintenance)
		},
	}
}

// runSmoke checks every collection of the target layout and prints one line each.
func runSmoke(ctx context.Context, out io.Writer, maintenance *services.MaintenanceService) error {
	results, err := maintenance.Smoke(ctx, schema.CollectionNames(schema.Target()))
	for _, r := range results {
		status := "ok"
		if !r.OK {
			status = "FAILED: " + r.Error
		}
		fmt.Fprintf(out, "%-16s %s\n", r.Collection, status)
	}
	return err
}

func seedCmd(cfg *config.Config) *cobra.Command {
	var (
		file       string
		collection string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a JSON array of documents into an empty collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = cfg.SeedFile
			}
			a, err := bootstrap(cmd.Context(), cfg, constants.CommandSeed)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.maintenance.SeedFromFile(cmd.Context(), collection, file)
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped (%s)\n", res.Collection, res.Reason)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted %d documents\n", res.Collection, res.Inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Seed file (default SEED_FILE)")
	cmd.Flags().StringVar(&collection, "collection", schema.CollDataAggregated, "Target collection")
	return cmd
}

func purgeCmd(cfg *config.Config) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete documents older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = cfg.RetentionDays
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			a, err := bootstrap(cmd.Context(), cfg, constants.CommandPurge)
			if err != nil {
				return err
			}
			defer a.close()

			retention := time.Duration(days) * 24 * time.Hour
			results, err := a.maintenance.Purge(cmd.Context(), services.DefaultRetentionRules(), time.Now().UTC(), retention)
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s deleted %d documents older than %s\n", r.Collection, r.Deleted, r.Cutoff.Format(time.RFC3339))
			}
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Retention in days (default RETENTION_DAYS)")
	return cmd
}

func dropCmd(cfg *config.Config) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop the whole database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errDropNotConfirmed
			}
			a, err := bootstrap(cmd.Context(), cfg, constants.CommandDrop)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.maintenance.Drop(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database %s dropped\n", cfg.Mongo.Database)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Confirm dropping the database")
	return cmd
}
