package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/storage"
)

var (
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "moodlog",
		Short:         "Track your mood and keep a journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newMoodCommand(),
		newJournalCommand(),
		newStatsCommand(),
		newNotificationsCommand(),
		newRemindCommand(),
		newMigrateCommand(),
		newExportCommand(),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// openStorage loads the config and opens the configured storage.
// The returned function closes the storage.
func openStorage(ctx context.Context) (*config.Config, *storage.Repositories, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	repos, closeStorage, err := storage.Open(ctx, *cfg, time.Now)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("storage.Open() > %w", err)
	}
	return cfg, repos, func() {
		if err := closeStorage(); err != nil {
			slog.Default().Warn("failed to close storage", "error", err)
		}
	}, nil
}
