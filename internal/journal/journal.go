// Package journal provides journal entries and their repositories.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/moodlog/internal/database"
	"github.com/at-ishikawa/moodlog/internal/jsonfile"
	"github.com/at-ishikawa/moodlog/internal/mood"
)

// TimestampLayout is the layout of the time an entry was written.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is a free-text journal entry for a calendar date.
type Entry struct {
	ID        int64  `db:"id" json:"-" yaml:"id,omitempty"`
	Date      string `db:"entry_date" json:"date" yaml:"date"`
	Text      string `db:"body" json:"text" yaml:"text"`
	Timestamp string `db:"written_at" json:"timestamp" yaml:"timestamp"`
}

var (
	ErrEmptyDate = errors.New("date is required")
	ErrEmptyText = errors.New("text is required")
)

// NewEntry validates date and text and stamps the entry with now.
func NewEntry(date, text string, now time.Time) (Entry, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return Entry{}, ErrEmptyDate
	}
	if strings.TrimSpace(text) == "" {
		return Entry{}, ErrEmptyText
	}
	if _, err := time.Parse(mood.DateLayout, date); err != nil {
		return Entry{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", date, err)
	}
	return Entry{
		Date:      date,
		Text:      text,
		Timestamp: now.Format(TimestampLayout),
	}, nil
}

// SortByDate orders entries by date and then by the time they were written.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Timestamp < entries[j].Timestamp
	})
}

//go:generate mockgen -source=journal.go -destination=../mocks/journal/mock_repository.go -package=mock_journal

// Repository stores journal entries.
type Repository interface {
	FindAll(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, entry *Entry) error
	BatchCreate(ctx context.Context, entries []Entry) error
}

// JSONRepository keeps every entry in a single JSON array file.
type JSONRepository struct {
	mu   sync.Mutex
	path string
}

// NewJSONRepository creates a JSONRepository backed by path.
func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

func (r *JSONRepository) FindAll(_ context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *JSONRepository) Create(ctx context.Context, entry *Entry) error {
	return r.BatchCreate(ctx, []Entry{*entry})
}

func (r *JSONRepository) BatchCreate(_ context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.load()
	if err != nil {
		return err
	}
	if err := jsonfile.Write(r.path, append(existing, entries...)); err != nil {
		return fmt.Errorf("jsonfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

func (r *JSONRepository) load() ([]Entry, error) {
	entries, err := jsonfile.Read[[]Entry](r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Read(%s) > %w", r.path, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// DBRepository implements Repository on a SQL database.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) FindAll(ctx context.Context) ([]Entry, error) {
	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, "SELECT id, entry_date, body, written_at FROM journal_entries ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(journal_entries) > %w", err)
	}
	return entries, nil
}

func (r *DBRepository) Create(ctx context.Context, entry *Entry) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO journal_entries (entry_date, body, written_at) VALUES (?, ?, ?)",
		entry.Date, entry.Text, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert journal_entries) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	entry.ID = id
	return nil
}

func (r *DBRepository) BatchCreate(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, entry := range entries {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO journal_entries (entry_date, body, written_at) VALUES (?, ?, ?)",
				entry.Date, entry.Text, entry.Timestamp); err != nil {
				return fmt.Errorf("tx.ExecContext(insert journal_entries) > %w", err)
			}
		}
		return nil
	})
}
