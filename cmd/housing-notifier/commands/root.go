package commands

import (
	"context"
	"fmt"
	"os"

	"housing-notifier/internal/components/telemetry"
	"housing-notifier/internal/config"
	"housing-notifier/lib/serviceutil"

	"github.com/spf13/cobra"
)

const serviceName = "housing-notifier"

var (
	configPath *string
	envFile    *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "housing-notifier",
	Short: "housing-notifier checks a housing rental API for available units and notifies when there are any.",
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The json5 config file, a missing file is ignored.")
	envFile = rootCmd.PersistentFlags().String("env-file", ".env", "The dotenv file, a missing file is ignored.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the logger, it exits the
// process when no run can start.
func loadConfig() config.Config {
	telemetry.InitSlog(os.Stderr, *verbose, false)

	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: *configPath,
		EnvFile:    *envFile,
	})
	if err != nil {
		serviceutil.Fatal("failed to load config", err)
	}
	if cfg.Log.Json {
		telemetry.InitSlog(os.Stderr, *verbose, true)
	}
	return cfg
}
