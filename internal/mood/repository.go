package mood

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/moodlog/internal/database"
	"github.com/at-ishikawa/moodlog/internal/jsonfile"
)

//go:generate mockgen -source=repository.go -destination=../mocks/mood/mock_repository.go -package=mock_mood

// Repository stores mood records.
type Repository interface {
	FindAll(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, record *Record) error
	BatchCreate(ctx context.Context, records []Record) error
}

// JSONRepository keeps every record in a single JSON array file.
type JSONRepository struct {
	mu   sync.Mutex
	path string
}

// NewJSONRepository creates a JSONRepository backed by path.
func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

// FindAll returns the records in insertion order. A missing file has no records.
func (r *JSONRepository) FindAll(_ context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Create appends record to the file.
func (r *JSONRepository) Create(ctx context.Context, record *Record) error {
	return r.BatchCreate(ctx, []Record{*record})
}

// BatchCreate appends records to the file in one write.
func (r *JSONRepository) BatchCreate(_ context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.load()
	if err != nil {
		return err
	}
	existing = append(existing, records...)
	if err := jsonfile.Write(r.path, existing); err != nil {
		return fmt.Errorf("jsonfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

func (r *JSONRepository) load() ([]Record, error) {
	records, err := jsonfile.Read[[]Record](r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Read(%s) > %w", r.path, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// DBRepository implements Repository on a SQL database.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns all records ordered by id.
func (r *DBRepository) FindAll(ctx context.Context) ([]Record, error) {
	records := []Record{}
	if err := r.db.SelectContext(ctx, &records, "SELECT id, stamp, mood FROM mood_records ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(mood_records) > %w", err)
	}
	return records, nil
}

// Create inserts record and sets its ID.
func (r *DBRepository) Create(ctx context.Context, record *Record) error {
	result, err := r.db.ExecContext(ctx, "INSERT INTO mood_records (stamp, mood) VALUES (?, ?)", record.Stamp, record.Mood)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert mood_records) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	record.ID = id
	return nil
}

// BatchCreate inserts records in a single transaction.
func (r *DBRepository) BatchCreate(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for i := range records {
			if _, err := tx.ExecContext(ctx, "INSERT INTO mood_records (stamp, mood) VALUES (?, ?)", records[i].Stamp, records[i].Mood); err != nil {
				return fmt.Errorf("tx.ExecContext(insert mood_records) > %w", err)
			}
		}
		return nil
	})
}
