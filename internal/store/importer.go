// Package store loads decoded PRO tables into PostgreSQL.
//
// Cells are already pgtype values (Text, Int8, Float8, Timestamp), so a table
// goes to the server in a single COPY without further conversion.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/procodec/internal/logging"
	"github.com/JonMunkholm/procodec/internal/pro"
)

// ErrDatabaseNotConfigured is returned by Import when no pool was supplied.
var ErrDatabaseNotConfigured = errors.New("database not configured")

// ErrInvalidTableName is returned for table names that are not plain
// identifiers.
var ErrInvalidTableName = errors.New("invalid table name")

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Copier is the subset of *pgxpool.Pool used by Importer.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Importer copies tables into an existing PostgreSQL table.
type Importer struct {
	db      Copier
	schema  string
	limiter *ImportLimiter
	timeout time.Duration
}

// NewImporter creates an importer. db may be nil, in which case every Import
// fails with ErrDatabaseNotConfigured. limiter and timeout are optional.
func NewImporter(db Copier, schema string, limiter *ImportLimiter, timeout time.Duration) *Importer {
	return &Importer{db: db, schema: schema, limiter: limiter, timeout: timeout}
}

// Enabled reports whether a database is attached.
func (im *Importer) Enabled() bool {
	return im != nil && im.db != nil
}

// Limiter returns the import limiter, or nil.
func (im *Importer) Limiter() *ImportLimiter {
	return im.limiter
}

// Import copies every row of t into table. Column names are taken verbatim
// from the PRO header and quoted, so they must match the target table
// exactly. It returns the number of rows copied.
func (im *Importer) Import(ctx context.Context, table string, t *pro.Table) (int64, error) {
	if !im.Enabled() {
		return 0, ErrDatabaseNotConfigured
	}
	if !identifierRegex.MatchString(table) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if im.limiter != nil {
		if err := im.limiter.Acquire(ctx); err != nil {
			return 0, err
		}
		defer im.limiter.Release()
	}

	if im.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, im.timeout)
		defer cancel()
	}

	ident := pgx.Identifier{table}
	if im.schema != "" {
		ident = pgx.Identifier{im.schema, table}
	}

	logger := logging.WithFields(ctx, "table", ident.Sanitize(), "columns", len(t.Columns))
	start := time.Now()

	n, err := im.db.CopyFrom(ctx, ident, t.ColumnNames(), pgx.CopyFromRows(t.Rows()))
	if err != nil {
		logger.Error("import failed", "error", err)
		return 0, fmt.Errorf("copy into %s: %w", ident.Sanitize(), err)
	}

	logger.Info("import completed", "rows", n, "duration", time.Since(start))
	return n, nil
}
