package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/phishguard/phishguard/internal/model"
)

// dbFileName is the SQLite file created inside the database directory.
const dbFileName = "phishguard.db"

// ErrRunNotFound is returned when a requested training run does not exist.
var ErrRunNotFound = errors.New("database: training run not found")

// RunDB stores training run history in SQLite.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most uses.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in the given directory.
// If CreateIfNotExists is false and no database exists, an error is
// returned instead of creating an empty history.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a small pool is all we need.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the path of the underlying database file.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// createTables creates the schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per completed training run
	CREATE TABLE IF NOT EXISTS training_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset_path TEXT NOT NULL,
		rows INTEGER NOT NULL,
		train_rows INTEGER NOT NULL,
		test_rows INTEGER NOT NULL,
		epochs INTEGER NOT NULL,
		loss REAL NOT NULL,
		accuracy REAL NOT NULL,
		precision REAL NOT NULL,
		recall REAL NOT NULL,
		f1 REAL NOT NULL,
		model_path TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_dataset ON training_runs(dataset_path);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON training_runs(created_at);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun inserts a training run summary and returns its row ID.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.TrainingRun) (int64, error) {
	query := `
	INSERT INTO training_runs
		(dataset_path, rows, train_rows, test_rows, epochs, loss, accuracy, precision, recall, f1, model_path, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		run.DatasetPath,
		run.Rows,
		run.TrainRows,
		run.TestRows,
		run.Epochs,
		run.Metrics.Loss,
		run.Metrics.Accuracy,
		run.Metrics.Precision,
		run.Metrics.Recall,
		run.Metrics.F1,
		run.ModelPath,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert training run: %w", err)
	}
	return result.LastInsertId()
}

// GetRun retrieves one training run by ID.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.TrainingRun, error) {
	query := selectRunColumns + ` WHERE id = ?`

	run, err := scanRun(rdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns every run.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]*model.TrainingRun, error) {
	query := selectRunColumns + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.TrainingRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate training runs: %w", err)
	}
	return runs, nil
}

const selectRunColumns = `
	SELECT id, dataset_path, rows, train_rows, test_rows, epochs,
	       loss, accuracy, precision, recall, f1, model_path, created_at
	FROM training_runs`

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*model.TrainingRun, error) {
	var run model.TrainingRun
	var createdAt string
	if err := s.Scan(
		&run.ID,
		&run.DatasetPath,
		&run.Rows,
		&run.TrainRows,
		&run.TestRows,
		&run.Epochs,
		&run.Metrics.Loss,
		&run.Metrics.Accuracy,
		&run.Metrics.Precision,
		&run.Metrics.Recall,
		&run.Metrics.F1,
		&run.ModelPath,
		&createdAt,
	); err != nil {
		return nil, err
	}
	run.CreatedAt = parseTimestamp(createdAt)
	return &run, nil
}

// parseTimestamp handles the timestamp formats SQLite may hand back.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
