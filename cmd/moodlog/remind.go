package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/bootstrap"
	"github.com/at-ishikawa/moodlog/internal/reminder"
)

func newRemindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Show desktop reminders at the configured times until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, repos, closeStorage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			settings, err := repos.Notifications.Read(ctx)
			if err != nil {
				return fmt.Errorf("repos.Notifications.Read() > %w", err)
			}

			interval := time.Duration(cfg.Reminder.PollIntervalSeconds) * time.Second
			scheduler := reminder.NewScheduler(settings, reminder.NewBeeepNotifier(cfg.Reminder.AppName), 2*interval)
			reload := func() {
				settings, err := repos.Notifications.Read(ctx)
				if err != nil {
					slog.Default().Error("failed to reload notification settings", "error", err)
					return
				}
				scheduler.SetSettings(settings)
				slog.Default().Info("reloaded notification settings", "enabled", settings.Enabled, "times", settings.ActiveTimes())
			}

			var watcher *reminder.FileWatcher
			if repos.SettingsFile != "" {
				watcher, err = reminder.NewFileWatcher(repos.SettingsFile)
				if err != nil {
					return fmt.Errorf("reminder.NewFileWatcher() > %w", err)
				}
			}

			app := bootstrap.New()
			return app.Run(ctx, func(ctx context.Context) error {
				if watcher != nil {
					go func() {
						if err := watcher.Run(ctx, reload); err != nil {
							slog.Default().Error("settings watcher stopped", "error", err)
						}
					}()
				} else {
					go reloadEvery(ctx, interval, reload)
				}
				slog.Default().Info("reminders started", "times", settings.ActiveTimes(), "enabled", settings.Enabled)
				return scheduler.Run(ctx, interval)
			})
		},
	}
}

// reloadEvery calls reload every interval until ctx is done.
// Database-backed settings have no file to watch.
func reloadEvery(ctx context.Context, interval time.Duration, reload func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reload()
		}
	}
}
