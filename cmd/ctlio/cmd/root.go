package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scanco-io/ctio/internal/config"
	"github.com/scanco-io/ctio/internal/logging"
)

// NewRoot builds the ctlio command tree: inspect, convert, version.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "ctlio",
		Short: "inspect and convert Scanco micro-CT volume files",
		Long:  "ctlio reads and writes the Scanco ISQ/RSQ/RAD/AIM micro-CT volume formats.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			configPath, _ := cmd.Flags().GetString("config")

			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}
			slog.SetDefault(logging.Logger(os.Stderr, false, level))

			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				slog.WarnContext(ctx, "failed to load config, using defaults", "path", configPath, "error", err)
				loaded = config.DefaultConfig()
			}
			cfg = loaded
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}

	root.AddCommand(
		NewVersionCmd(gitsha),
		NewInspectCmd(ctx, func() *config.Config { return cfg }),
		NewConvertCmd(ctx, func() *config.Config { return cfg }),
	)

	pf := root.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("config", "ctlio.yaml", "path to a YAML config file")
	return root
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, sub := range cmd.Commands() {
		printCommandTree(sub, indent+1)
	}
}
