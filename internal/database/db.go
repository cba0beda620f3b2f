// Package database provides database connection management.
package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/schemas"
)

// Open opens a connection for driver, either mysql or sqlite.
func Open(driver string, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch driver {
	case config.DriverMySQL:
		return openMySQL(cfg)
	case config.DriverSQLite:
		return openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openMySQL(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.MultiStatements = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open(mysql) > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

func openSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sqlx.Open("sqlite", cfg.SQLitePath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open(sqlite) > %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}

// RunInTx runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back; otherwise, it is committed.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Migrate applies the embedded migrations of the connection's driver in file name order.
// Every migration is idempotent, so Migrate can run on each startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	return migrate(ctx, db, schemas.Migrations)
}

func migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) error {
	dir := path.Join("migrations", db.DriverName())
	files, err := fs.Glob(migrations, path.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("fs.Glob(%s) > %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found for driver %q", db.DriverName())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations, file)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("db.ExecContext(%s) > %w", file, err)
		}
	}
	return nil
}
