package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"live-airlines/provisioner/internal/auth"
	"live-airlines/provisioner/internal/config"
)

func tokenCmd(cfg *config.Config) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for POST /v1/schema/provision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens := auth.NewTokenService([]byte(cfg.AdminJWTSecret))
			token, err := tokens.Mint(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "Who the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
