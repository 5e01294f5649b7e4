// Package pgstore is the PostgreSQL data service. It exposes the same
// habit, entry and theme operations as the SQLite store, with tables kept
// in the habitmap schema.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sadopc/habitmap/internal/logger"
)

const schemaName = "habitmap"

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type Store struct {
	connStr  string
	password func() (string, error)
	db       *sql.DB
}

type Option func(*Store)

// WithPassword supplies a password when PGPASSWORD is unset. Errors from fn
// are logged and the connection falls back to ~/.pgpass.
func WithPassword(fn func() (string, error)) Option {
	return func(s *Store) { s.password = fn }
}

// New prepares a store for connStr. Nothing is opened until Open.
func New(connStr string, opts ...Option) *Store {
	s := &Store{connStr: withSearchPath(connStr)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IsURL reports whether connStr is a postgres:// or postgresql:// URL.
func IsURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

func withSearchPath(connStr string) string {
	if IsURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", schemaName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if hasParam(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + schemaName
}

// hasParam reports whether a DSN or URL connection string sets key
// (case-insensitive).
func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// withPassword returns connStr with pw set as the connection password.
func withPassword(connStr, pw string) string {
	if IsURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		user := ""
		if u.User != nil {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, pw)
		return u.String()
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(pw)
	return connStr + " password='" + escaped + "'"
}

// ValidateConnString checks that connStr is a PostgreSQL URL or DSN and that
// it carries no password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if IsURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return false, ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return true, nil
	}

	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return false, ErrEmbeddedCredentials
		}
	}
	return true, nil
}

// Open connects, creates the schema and tables if missing, and seeds the
// default settings.
func (s *Store) Open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if _, err := ValidateConnString(s.connStr); err != nil {
		return err
	}

	connector, err := pq.NewConnector(s.dsn())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.connStr, "sslmode") {
			return fmt.Errorf("connect to database: %w (hint: try adding sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	s.db = db
	logger.Debug("Opened PostgreSQL store")
	return nil
}

func (s *Store) dsn() string {
	if s.password == nil || os.Getenv("PGPASSWORD") != "" {
		return s.connStr
	}
	pw, err := s.password()
	if err != nil {
		logger.Debug("No stored PostgreSQL password", "error", err)
		return s.connStr
	}
	if pw == "" {
		return s.connStr
	}
	return withPassword(s.connStr, pw)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS ` + schemaName,
		`CREATE TABLE IF NOT EXISTS habits (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			color       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS habit_entries (
			habit_id    TEXT NOT NULL REFERENCES habits(id),
			date        TEXT NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE (habit_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_habit ON habit_entries(habit_id)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`INSERT INTO settings (key, value) VALUES ('theme', 'light') ON CONFLICT (key) DO NOTHING`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
