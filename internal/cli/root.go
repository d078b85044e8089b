// Package cli implements the tmpscan command line tool.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/tmpcompliance/internal/app"
	"github.com/Lllllllleong/tmpcompliance/internal/config"
	"github.com/Lllllllleong/tmpcompliance/internal/services"
)

var version = "dev"

var verbose bool

// Hooks replaced in tests.
var (
	loadConfig  = config.Load
	newAnalyzer = func(ctx context.Context, cfg *config.Config) (*services.Analyzer, func() error, error) {
		a, err := app.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return a.Analyzer, a.Close, nil
	}
)

var rootCmd = &cobra.Command{
	Use:   "tmpscan",
	Short: "Check Traffic Management Plans for TCAWS compliance indicators",
	Long: `tmpscan renders each page of a PDF, recognizes its text and reports
whether the document is a Traffic Management Plan and which TCAWS
compliance indicators it mentions.

Configuration is read from the same environment variables as the server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
