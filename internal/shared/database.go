package shared

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
)

const (
	DriverCGO    = "sqlite3" // mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// BusyTimeoutMillis is how long a connection waits on a locked database before failing with SQLITE_BUSY.
const BusyTimeoutMillis = 5000

// NewDatabase opens a connection to a SQLite database at the specified path using the cgo driver.
// The path can be ":memory:" for an in-memory database.
func NewDatabase(path string) (*sql.DB, error) {
	return OpenDatabase(DriverCGO, path)
}

// OpenDatabase opens a SQLite database with the named driver and verifies the connection.
func OpenDatabase(driver, path string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverCGO
	}

	db, err := sql.Open(driver, DSN(driver, path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DSN appends the busy timeout, immediate transaction locking, and for file databases WAL journaling
// to path, spelled the way each driver expects.
func DSN(driver, path string) string {
	memory := path == ":memory:" || strings.Contains(path, "mode=memory")

	var params []string
	switch driver {
	case DriverPureGo:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", BusyTimeoutMillis), "_txlock=immediate")
		if !memory {
			params = append(params, "_pragma=journal_mode(WAL)")
		}
	default:
		params = append(params, fmt.Sprintf("_busy_timeout=%d", BusyTimeoutMillis), "_txlock=immediate")
		if !memory {
			params = append(params, "_journal_mode=WAL")
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// ConfigureDatabase sets connection pool settings for the database.
//
// In-memory databases are private to a connection, so callers using ":memory:" should pass 1 for both limits.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

// Connect opens, configures, and migrates the database described by cfg.
func Connect(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := OpenDatabase(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, err
	}

	if cfg.Path == ":memory:" {
		ConfigureDatabase(db, 1, 1)
	} else if cfg.MaxOpenConns > 0 {
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// ErrorCode returns a SQLITE_<n> code for driver errors from either driver, or "" for anything else.
func ErrorCode(err error) string {
	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return fmt.Sprintf("SQLITE_%d", int(cgoErr.ExtendedCode))
	}

	var pureErr *sqlite.Error
	if errors.As(err, &pureErr) {
		return fmt.Sprintf("SQLITE_%d", pureErr.Code())
	}

	return ""
}
