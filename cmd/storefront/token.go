package main

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/spf13/cobra"
)

// NewTokenCommand signs a bearer token with the configured secret, for local
// development against the API.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a development bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(opts)
			if cfg.JWT.SecretKey == "" {
				return fmt.Errorf("JWT_SECRET_KEY is not set")
			}
			token, err := auth.NewTokenVerifier(cfg.JWT.SecretKey).Issue(args[0], role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", `role claim, "admin" for admin routes`)
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
