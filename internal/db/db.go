package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrDuplicate is returned when a write violates a UNIQUE or PRIMARY KEY
	// constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a write references a missing parent row.
	ErrForeignKey = errors.New("foreign key violation")
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
	log logrus.FieldLogger
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskhub"
	}
	return filepath.Join(home, ".local", "share", "taskhub")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "taskhub.db")
}

// Open opens a database connection and runs migrations
func Open(dbPath string, logger logrus.FieldLogger) (*DB, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Transactions take the write lock at BEGIN, so a check-then-write never
	// runs on a snapshot another process has already written past.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON&_txlock=immediate", dbPath)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer. Every query must drain its rows
	// before the next one is issued on the same handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, log: logger}

	if err := db.migrate(dbPath + ".lock"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// migrate runs the embedded goose migrations while holding an exclusive file
// lock, so two processes opening the same database never migrate at once.
func (db *DB) migrate(lockPath string) error {
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer lock.Unlock()

	goose.SetLogger(gooseLogger{db.log.WithField("component", "migrate")})
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// gooseLogger sends goose progress output to the debug level.
type gooseLogger struct {
	entry logrus.FieldLogger
}

func (l gooseLogger) Printf(format string, v ...any) { l.entry.Debugf(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.entry.Fatalf(format, v...) }

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Queries returns a handle that runs each statement on its own.
func (db *DB) Queries() *Queries {
	return &Queries{q: db.DB}
}

// Transaction executes fn within a transaction bound to ctx. The transaction
// is rolled back if fn fails or ctx is cancelled before commit.
func (db *DB) Transaction(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&Queries{q: tx}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the entity store operations. Find and Update methods return
// nil, nil when the row does not exist.
type Queries struct {
	q querier
}

// translate maps sqlite constraint failures onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrForeignKey, err)
		}
	}
	return err
}

// affected reports whether res touched at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}
