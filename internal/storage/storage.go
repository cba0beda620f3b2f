// Package storage opens the repositories selected by the configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/database"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/jsonfile"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
)

// Repositories bundles the stores the application works with.
type Repositories struct {
	Moods         mood.Repository
	Journal       journal.Repository
	Notifications notification.Repository
	// SettingsFile is the notification settings file when the JSON driver is used.
	SettingsFile string
}

// Open initializes the configured backend and returns its repositories.
// The returned close function releases the backend and must be called once.
func Open(ctx context.Context, cfg config.Config, now func() time.Time) (*Repositories, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverJSON, "":
		repos, err := OpenJSON(cfg.Storage, now)
		if err != nil {
			return nil, nil, err
		}
		return repos, func() error { return nil }, nil
	case config.DriverMySQL, config.DriverSQLite:
		db, err := database.Open(cfg.Storage.Driver, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		repos, err := OpenDB(ctx, db, now)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repos, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// OpenJSON makes sure the data directory and the three JSON files exist.
func OpenJSON(cfg config.StorageConfig, now func() time.Time) (*Repositories, error) {
	if err := os.MkdirAll(cfg.DataDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", cfg.DataDirectory, err)
	}
	if err := ensure(cfg.MoodPath(), []mood.Record{}); err != nil {
		return nil, err
	}
	if err := ensure(cfg.JournalPath(), []journal.Entry{}); err != nil {
		return nil, err
	}
	if err := ensure(cfg.NotificationsPath(), notification.DefaultSettings(now())); err != nil {
		return nil, err
	}

	return &Repositories{
		Moods:         mood.NewJSONRepository(cfg.MoodPath()),
		Journal:       journal.NewJSONRepository(cfg.JournalPath()),
		Notifications: notification.NewJSONRepository(cfg.NotificationsPath(), now),
		SettingsFile:  cfg.NotificationsPath(),
	}, nil
}

func ensure[T any](path string, initial T) error {
	created, err := jsonfile.Ensure(path, initial)
	if err != nil {
		return fmt.Errorf("jsonfile.Ensure(%s) > %w", path, err)
	}
	if created {
		slog.Default().Info("created data file", "path", path)
	}
	return nil
}

// OpenDB migrates db and stores the default notification settings when none exist.
func OpenDB(ctx context.Context, db *sqlx.DB, now func() time.Time) (*Repositories, error) {
	if err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notification_settings"); err != nil {
		return nil, fmt.Errorf("db.GetContext(count notification_settings) > %w", err)
	}
	notifications := notification.NewDBRepository(db, now)
	if count == 0 {
		if err := notifications.Write(ctx, notification.DefaultSettings(now())); err != nil {
			return nil, fmt.Errorf("seed notification settings > %w", err)
		}
	}

	return &Repositories{
		Moods:         mood.NewDBRepository(db),
		Journal:       journal.NewDBRepository(db),
		Notifications: notifications,
	}, nil
}
