package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trivia-service/internal/auth"
	"trivia-service/internal/config"
)

// NewTokenCmd mints identity tokens signed with the configured secret, for local development.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		uid       string
		email     string
		anonymous bool
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development identity token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("auth secret not configured")
			}
			if uid == "" {
				return fmt.Errorf("--uid is required")
			}
			token, err := auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer).
				Issue(auth.Identity{UID: uid, Email: email, Anonymous: anonymous}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "subject of the token")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "mark the identity as anonymous")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
