// Package cli holds the rentalctl admin commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Net-Advantage/ai-showcase/rental/internal/app"
	"github.com/Net-Advantage/ai-showcase/rental/internal/config"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
)

// VersionInfo identifies the build.
type VersionInfo struct {
	Version string
	Commit  string
}

// openApp opens the configured store and returns it with its release func.
// Replaced in tests.
var openApp = func(ctx context.Context, logLevel string) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log := logger.NewWithConfig(cfg.Server.Env, cfg.Log)
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, a.Close, nil
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rentalctl",
		Short:         "Rental workpaper admin tool",
		Long:          "Administer the rental workpaper store: migrate the schema, recalculate and summarize the portfolio, and export workpapers.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}

// withApp opens the store for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, release, err := openApp(ctx, logLevel)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx, a)
}
