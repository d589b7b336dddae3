// Command devtoken mints an HS256 identity token signed with JWT_SECRET, for local use of the
// API and dashboard without the external identity provider.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/catalogadmin/internal/config"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
		cookie bool
	)

	cmd := &cobra.Command{
		Use:   "devtoken",
		Short: "Mint a development identity token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			_ = godotenv.Load()
			cfg, err := config.LoadFile(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not configured")
			}
			if ttl <= 0 {
				ttl = cfg.TokenExpires
			}

			token, err := utils.GenerateToken(cfg.JWTSecret, userID, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			if cookie {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", middleware.SessionCookie, token)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id to put in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_TTL_HOURS)")
	cmd.Flags().BoolVar(&cookie, "cookie", false, "print as a session cookie assignment")
	return cmd
}
