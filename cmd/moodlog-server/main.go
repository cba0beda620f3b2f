package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/bootstrap"
	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/server"
	"github.com/at-ishikawa/moodlog/internal/storage"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	var debugMode bool
	cmd := &cobra.Command{
		Use:           "moodlog-server",
		Short:         "Serve the mood tracker web pages and JSON API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     logLevel(debugMode),
				AddSource: true,
			})))
			if configFile == "" {
				configFile = os.Getenv("MOODLOG_CONFIG")
			}
			return run(cmd.Context(), configFile)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path, defaults to $MOODLOG_CONFIG")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	return cmd
}

func run(ctx context.Context, configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	repos, closeStorage, err := storage.Open(ctx, *cfg, time.Now)
	if err != nil {
		return fmt.Errorf("storage.Open() > %w", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			slog.Default().Warn("failed to close storage", "error", err)
		}
	}()

	handler, err := server.NewHandler(repos.Moods, repos.Journal, repos.Notifications, time.Now)
	if err != nil {
		return fmt.Errorf("server.NewHandler() > %w", err)
	}
	srv := server.NewHTTPServer(cfg.Server, handler.Routes())

	app := bootstrap.New()
	app.AddShutdownHook("http server", srv.Shutdown)
	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}

func loadConfig(configFile string) (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func logLevel(debugMode bool) slog.Level {
	if debugMode {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
