package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gorillagenics/gorillagenics/internal/config"
)

// Execute wires the command tree and runs it.
func Execute(ctx context.Context) error {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:     "gorillagenics",
		Short:   "Juice-fueled weekly pick scanner",
		Version: version,
		Long: appName + ` scores every offensive player on the slate through
biometric composites, gematria alignment, and market fusion, then ranks
a diversity-capped top N and builds graded prop slips on top.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("bad log level %q: %w", logLevel, err)
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to app config YAML (defaults apply when empty)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")

	root.AddCommand(picksCmd(ctx, &configPath))
	root.AddCommand(slipsCmd(ctx, &configPath))
	root.AddCommand(cacheCmd(ctx, &configPath))

	log.Debug().Str("app", appName).Str("version", version).Msg("starting")
	return root.ExecuteContext(ctx)
}

func loadConfig(path string) (config.AppConfig, error) {
	return config.LoadAppConfig(path)
}
