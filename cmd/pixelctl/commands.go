package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pixelpages/internal/config"
	"github.com/pixelpages/internal/db"
	"github.com/spf13/cobra"
)

var (
	cfg          config.AppConfig
	databasePath string
	timezone     string

	rootCmd = &cobra.Command{
		Use:           "pixelctl",
		Short:         "Administer a Pixel Pages database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if strings.TrimSpace(databasePath) != "" {
				cfg.DatabasePath = databasePath
			}
			if strings.TrimSpace(timezone) != "" {
				loc, err := time.LoadLocation(timezone)
				if err != nil {
					return fmt.Errorf("invalid timezone %q: %w", timezone, err)
				}
				cfg.Timezone = timezone
				cfg.Location = loc
			}
			return db.Init(cfg.DatabasePath)
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in achievement catalog when the table is empty",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	userAddCmd = &cobra.Command{
		Use:   "add [username] [password]",
		Short: "Create a user with a bcrypt-hashed password",
		Args:  cobra.ExactArgs(2),
		RunE:  runUserAdd,
	}

	recheckCmd = &cobra.Command{
		Use:   "recheck [actor]",
		Short: "Recompute achievement progress and report new unlocks",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecheck,
	}
	progressCmd = &cobra.Command{
		Use:   "progress [actor]",
		Short: "Show per-achievement progress for an actor",
		Args:  cobra.ExactArgs(1),
		RunE:  runProgress,
	}
	summaryCmd = &cobra.Command{
		Use:   "summary [actor]",
		Short: "Show completion, XP and level for an actor",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "sqlite database path (defaults to DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "IANA zone for day buckets (defaults to APP_TIMEZONE)")

	userCmd.AddCommand(userAddCmd)

	rootCmd.AddCommand(seedCmd, userCmd, recheckCmd, progressCmd, summaryCmd)
}
