// Package sqldb stores the model export and the resolved device values in a
// SQL database. Postgres, MySQL and SQLite are supported.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ohowland/beyond_core/internal/pkg/model"
)

var ErrUnknownDriver = errors.New("unknown sql driver")

// Config names the database/sql driver and its data source.
type Config struct {
	Driver string `json:"Driver"`
	DSN    string `json:"DSN"`
}

// Handler is a model.Source and model.Sink backed by a SQL database.
type Handler struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// New opens the database. The connection is established lazily.
func New(cfg Config, logger *zap.Logger) (*Handler, error) {
	switch cfg.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &Handler{db: db, driver: cfg.Driver, logger: logger.Named("sqldb")}, nil
}

// DB returns the underlying connection pool.
func (h *Handler) DB() *sql.DB {
	return h.db
}

func (h *Handler) Close() error {
	return h.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS fixtures (
		seq INTEGER PRIMARY KEY,
		element_id BIGINT,
		panel TEXT,
		circuit TEXT,
		switch_id TEXT,
		apparent_load DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS elements (
		element_id BIGINT PRIMARY KEY,
		seq INTEGER NOT NULL,
		family TEXT,
		space_name TEXT,
		room_name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS components (
		element_id BIGINT,
		parent_id BIGINT NOT NULL,
		seq INTEGER NOT NULL,
		name TEXT,
		panel TEXT,
		circuit TEXT,
		switch_id TEXT,
		voltage DOUBLE PRECISION,
		poles DOUBLE PRECISION,
		apparent_load DOUBLE PRECISION,
		PRIMARY KEY (parent_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS resolutions (
		element_id BIGINT PRIMARY KEY,
		location TEXT,
		device_id TEXT,
		switch_ids TEXT,
		circuit TEXT,
		panel TEXT,
		voltage DOUBLE PRECISION,
		poles DOUBLE PRECISION,
		load_1 DOUBLE PRECISION,
		load_2 DOUBLE PRECISION,
		load_3 DOUBLE PRECISION
	)`,
}

// InitTables creates the schema if it does not exist.
func (h *Handler) InitTables(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := h.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init tables: %w", err)
		}
	}
	return nil
}

// rebind rewrites '?' placeholders into the driver's syntax.
func (h *Handler) rebind(query string) string {
	if h.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return model.Float(v.Float64)
}
