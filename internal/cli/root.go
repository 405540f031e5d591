// Package cli implements the weather-note command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-note/internal/config"
	"github.com/i474232898/weather-note/internal/logging"
)

var (
	v       = config.New()
	envFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, console)")
}

var rootCmd = &cobra.Command{
	Use:           "weather-note",
	Short:         "Render weather and location notes from templates",
	Long:          "weather-note fetches current weather and location, renders them through note templates and stores the result as document blocks.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is normal
		_ = config.LoadDotEnv(envFile)

		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return err
		}
		logging.Init(v.GetString("log_level"), v.GetString("log_format"))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.AppConfig, error) {
	return config.Load(v)
}
