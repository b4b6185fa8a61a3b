package cli

import (
	"github.com/spf13/cobra"

	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/logging"
)

type rootOptions struct {
	envFiles []string
	database string
}

// RootCmd builds the provisioner command tree.
func RootCmd() *cobra.Command {
	opts := &rootOptions{}
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "provisioner",
		Short:         "Schema provisioner for the liveAirlines MongoDB database",
		Long:          "Creates the liveAirlines collections and indexes, verifies them, and runs the maintenance tasks around them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(opts.envFiles...); err != nil {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if opts.database != "" {
				loaded.Mongo.Database = opts.database
			}
			if err := logging.Init(loaded.AppEnv); err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}
	cfg = &config.Config{}

	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "Env files to load (default ./.env when present)")
	root.PersistentFlags().StringVar(&opts.database, "db", "", "Database name, overrides MONGO_DB_NAME")

	root.AddCommand(
		provisionCmd(cfg),
		verifyCmd(cfg),
		smokeCmd(cfg),
		seedCmd(cfg),
		purgeCmd(cfg),
		dropCmd(cfg),
		serveCmd(cfg),
		tokenCmd(cfg),
	)

	return root
}
