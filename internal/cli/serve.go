package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-note/internal/api/http"
	"github.com/i474232898/weather-note/internal/app"
	"github.com/i474232898/weather-note/internal/logging"
	"github.com/i474232898/weather-note/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "8080", "HTTP listen port")
	serveCmd.Flags().String("store-driver", "memory", "document store (memory, sqlite)")
	serveCmd.Flags().String("store-path", "data/notes.db", "sqlite database path")
	serveCmd.Flags().String("settings-path", "data/settings.yaml", "settings file path")
	serveCmd.Flags().Duration("refresh-interval", 15*time.Minute, "cache refresh interval (0 disables)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Run the HTTP API and the background cache refresher until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.Component("serve")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		sched := scheduler.New(cfg.RefreshInterval, a.Weather, a.Location, a.Settings)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		server := httpapi.NewServer(httpapi.Deps{
			Notes:     a.Notes,
			Weather:   a.Weather,
			Location:  a.Location,
			Documents: a.Documents,
			Settings:  a,
		}, true)

		go func() {
			logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
			if err := server.Listen(":" + cfg.Port); err != nil {
				logger.Error().Err(err).Msg("fiber server stopped")
			}
		}()

		// Wait for termination signal
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("error during shutdown")
		}
		return nil
	},
}
