// Package sqlstore persists posts and visit logs in a relational database.
// The driver is picked from the URL: local SQLite files (modernc), Turso
// libSQL (libsql:// or wss://) or PostgreSQL (postgres:// via pgx).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"                    // PostgreSQL driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectLibSQL
	dialectPostgres
)

// timeLayout is fixed width so TEXT timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Repository struct {
	db      *sql.DB
	dialect dialect
}

func NewRepository(dbURL string) (*Repository, error) {
	d, driverName := detectDriver(dbURL)

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	switch d {
	case dialectSQLite:
		// One writer at a time; concurrent requests queue on the pool instead
		// of failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	case dialectPostgres:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	r := &Repository{db: db, dialect: d}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return r, nil
}

func detectDriver(dbURL string) (dialect, string) {
	switch {
	case strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://"):
		return dialectLibSQL, "libsql"
	case strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://"):
		return dialectPostgres, "pgx"
	default:
		return dialectSQLite, "sqlite"
	}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	var stmts []string
	if r.dialect == dialectPostgres {
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS posts (
				id CHAR(36) PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				summary VARCHAR(255) NOT NULL,
				content TEXT NOT NULL,
				category VARCHAR(50) NOT NULL,
				thumbnail TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				likes_count BIGINT NOT NULL DEFAULT 0 CHECK (likes_count >= 0)
			)`,
			`CREATE TABLE IF NOT EXISTS visit_logs (
				id CHAR(36) PRIMARY KEY,
				visitor_ip VARCHAR(45) NOT NULL,
				visit_date CHAR(10) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)`,
		}
	} else {
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS posts (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				summary TEXT NOT NULL,
				content TEXT NOT NULL,
				category TEXT NOT NULL,
				thumbnail TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				likes_count INTEGER NOT NULL DEFAULT 0 CHECK (likes_count >= 0)
			)`,
			`CREATE TABLE IF NOT EXISTS visit_logs (
				id TEXT PRIMARY KEY,
				visitor_ip TEXT NOT NULL,
				visit_date TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
		}
		if r.dialect == dialectSQLite {
			stmts = append([]string{"PRAGMA busy_timeout=5000"}, stmts...)
		}
	}
	stmts = append(stmts,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_likes_count ON posts(likes_count)`,
		`CREATE INDEX IF NOT EXISTS idx_visit_logs_date_ip ON visit_logs(visit_date, visitor_ip)`,
		`CREATE INDEX IF NOT EXISTS idx_visit_logs_ip ON visit_logs(visitor_ip)`,
	)

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *Repository) rebind(query string) string {
	if r.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (r *Repository) timeArg(t time.Time) interface{} {
	if r.dialect == dialectPostgres {
		return t.UTC()
	}
	return t.UTC().Format(timeLayout)
}

// timestamp scans either a native time value or a TEXT timestamp.
type timestamp struct {
	time.Time
}

func (ts *timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.Time = time.Time{}
		return nil
	default:
		return errors.New("sqlstore: unsupported timestamp type")
	}
}

func (ts *timestamp) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	ts.Time = t.UTC()
	return nil
}

// withTx runs fn in a transaction, rolling back on any error.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// mutate wraps storage errors while letting domain errors through.
func mutate(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.NewPersistenceError(op, err)
}

// Ensure interface compliance
var (
	_ ports.PostRepository  = (*Repository)(nil)
	_ ports.VisitRepository = (*Repository)(nil)
)
