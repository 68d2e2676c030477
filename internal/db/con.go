package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	// Postgres driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	// SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/fr0stylo/snapledger/internal/db/queries"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const (
	// DriverSQLite selects the embedded SQLite store.
	DriverSQLite = "sqlite"
	// DriverPostgres selects a PostgreSQL store through pgx.
	DriverPostgres = "postgres"
)

// Options selects and locates the backing database.
type Options struct {
	Driver string
	// Path is the SQLite file path without extension.
	Path string
	// DSN is the PostgreSQL connection string.
	DSN        string
	OpenParams []string
}

// Database wraps sqlc queries with the shared connection.
type Database struct {
	*queries.Queries
	db      *sql.DB
	dialect string
	timings *queryTimings
}

// New opens the SQLite database at the provided path.
func New(path string, openParams ...string) (*Database, error) {
	return Open(context.Background(), Options{Driver: DriverSQLite, Path: path, OpenParams: openParams})
}

// Open opens the configured database and applies pending migrations.
func Open(ctx context.Context, opts Options) (*Database, error) {
	dialect := strings.ToLower(strings.TrimSpace(opts.Driver))
	if dialect == "" {
		dialect = DriverSQLite
	}

	var (
		sqlDriver     string
		dsn           string
		gooseDialect  goose.Dialect
		migrationsDir string
	)
	switch dialect {
	case DriverSQLite:
		path := opts.Path
		if path == "" {
			path = "data/snapledger"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		sqlDriver, dsn = "sqlite", sqliteDSN(path, opts.OpenParams...)
		gooseDialect, migrationsDir = goose.DialectSQLite3, "migrations/sqlite"
	case DriverPostgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		sqlDriver, dsn = "pgx", opts.DSN
		gooseDialect, migrationsDir = goose.DialectPostgres, "migrations/postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(ctx, db, gooseDialect, migrationsDir); err != nil {
		_ = db.Close()
		return nil, err
	}

	timings := newQueryTimings(dialect)
	wrapped := newInstrumentedDBTX(db, timings, dialect)

	return &Database{db: db, Queries: queries.New(wrapped), dialect: dialect, timings: timings}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func sqliteDSN(path string, openParams ...string) string {
	values := url.Values{}
	values.Set("_txlock", "immediate")

	values.Add("_pragma", "foreign_keys(ON)")
	values.Add("_pragma", "journal_mode(WAL)")
	values.Add("_pragma", "synchronous(NORMAL)")
	values.Add("_pragma", "busy_timeout(10000)")
	values.Add("_pragma", "temp_store(MEMORY)")
	values.Add("_pragma", "wal_autocheckpoint(1000)")

	for _, param := range openParams {
		part := strings.TrimSpace(strings.TrimPrefix(param, "&"))
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		values.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return fmt.Sprintf("file:%s.sqlite?%s", path, values.Encode())
}

// Dialect returns the active driver name.
func (c *Database) Dialect() string {
	return c.dialect
}

// Ping verifies the connection is usable.
func (c *Database) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (c *Database) Close() error {
	return c.db.Close()
}
