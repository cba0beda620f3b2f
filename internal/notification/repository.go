package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/moodlog/internal/database"
	"github.com/at-ishikawa/moodlog/internal/jsonfile"
)

//go:generate mockgen -source=repository.go -destination=../mocks/notification/mock_repository.go -package=mock_notification

// Repository stores the single settings document.
type Repository interface {
	Read(ctx context.Context) (Settings, error)
	Write(ctx context.Context, settings Settings) error
}

// JSONRepository keeps the settings in a JSON file.
type JSONRepository struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewJSONRepository creates a JSONRepository backed by path.
// Read returns DefaultSettings while the file does not exist.
func NewJSONRepository(path string, now func() time.Time) *JSONRepository {
	return &JSONRepository{path: path, now: now}
}

// Path returns the settings file path.
func (r *JSONRepository) Path() string {
	return r.path
}

func (r *JSONRepository) Read(_ context.Context) (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, err := jsonfile.Read[Settings](r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(r.now()), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("jsonfile.Read(%s) > %w", r.path, err)
	}
	return settings, nil
}

func (r *JSONRepository) Write(_ context.Context, settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := jsonfile.Write(r.path, settings); err != nil {
		return fmt.Errorf("jsonfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

const settingsRowID = 1

// DBRepository stores the settings as a JSON payload in a single row.
type DBRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB, now func() time.Time) *DBRepository {
	return &DBRepository{db: db, now: now}
}

func (r *DBRepository) Read(ctx context.Context) (Settings, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, "SELECT payload FROM notification_settings WHERE id = ?", settingsRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(r.now()), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("db.GetContext(notification_settings) > %w", err)
	}

	var settings Settings
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return Settings{}, fmt.Errorf("json.Unmarshal(notification_settings) > %w", err)
	}
	return settings, nil
}

func (r *DBRepository) Write(ctx context.Context, settings Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("json.Marshal(settings) > %w", err)
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM notification_settings WHERE id = ?", settingsRowID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete notification_settings) > %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO notification_settings (id, payload) VALUES (?, ?)", settingsRowID, string(payload)); err != nil {
			return fmt.Errorf("tx.ExecContext(insert notification_settings) > %w", err)
		}
		return nil
	})
}
