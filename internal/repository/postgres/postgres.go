// Package postgres keeps links in a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/KretovDmitry/shortlinks/migrations"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	sqldblogger "github.com/simukti/sqldb-logger"
)

// LinkRepository stores every link as a row of the links table.
type LinkRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// Open connects to the database described by dsn, logs every query
// through the given logger and runs the migrations.
func Open(ctx context.Context, dsn string, logger logger.Logger) (*LinkRepository, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}

	// Log every query to the database.
	db = sqldblogger.OpenDriver(dsn, db.Driver(), logger,
		sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
	)

	// Check connectivity and DSN correctness.
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = migrations.Up(db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}

	return NewLinkRepository(db, logger)
}

// NewLinkRepository wraps an already migrated database.
func NewLinkRepository(db *sql.DB, logger logger.Logger) (*LinkRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: database", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	return &LinkRepository{db: db, logger: logger}, nil
}

// Load selects every stored link.
func (r *LinkRepository) Load(ctx context.Context) (models.Links, error) {
	const q = `
		SELECT
			short_code, url
		FROM
			links
	`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrapError("load links", q, err)
	}
	defer rows.Close()

	links := models.NewLinks()
	for rows.Next() {
		var code, url string
		if err = rows.Scan(&code, &url); err != nil {
			return nil, wrapError("scan link", q, err)
		}
		links[code] = url
	}

	// Rows.Err will report the last error encountered by Rows.Scan.
	if err = rows.Err(); err != nil {
		return nil, wrapError("iterate links", q, err)
	}

	return links, nil
}

// Save replaces the table contents with the given links in one transaction.
// If anything fails, all changes are rolled back.
func (r *LinkRepository) Save(ctx context.Context, links models.Links) (err error) {
	const (
		qDelete = `DELETE FROM links`
		qInsert = `
			INSERT INTO links
				(short_code, url)
			VALUES
				($1, $2)
		`
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapError("begin transaction", "", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Errorf("rollback: %v", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, qDelete); err != nil {
		return wrapError("clear links", qDelete, err)
	}

	stmt, err := tx.PrepareContext(ctx, qInsert)
	if err != nil {
		return wrapError("prepare statement", qInsert, err)
	}
	defer stmt.Close()

	for code, url := range links {
		if _, err = stmt.ExecContext(ctx, code, url); err != nil {
			return wrapError("insert link", qInsert, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return wrapError("commit", "", err)
	}

	return nil
}

// Ping verifies the connection to the database is alive.
func (r *LinkRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrDBNotConnected, err)
	}
	return nil
}

// Close closes the database.
func (r *LinkRepository) Close() error {
	return r.db.Close()
}

// wrapError adds the operation and the query to err.
// Connection failures are marked with errs.ErrDBNotConnected.
func wrapError(op, q string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsConnectionException(pgErr.Code) {
			err = fmt.Errorf("%w: %w", errs.ErrDBNotConnected, formatPgError(pgErr))
		} else {
			err = formatPgError(pgErr)
		}
	}
	if q == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s with query (%s): %w", op, formatQuery(q), err)
}

// formatQuery removes tabs and replaces newlines with spaces in the given query string.
func formatQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// formatPgError returns a new error with the SQLSTATE and details attached.
func formatPgError(err *pgconn.PgError) error {
	return fmt.Errorf(
		"SQL error: %s, detail: %s, where: %s, code: %s, state: %s: %w",
		err.Message,
		err.Detail,
		err.Where,
		err.Code,
		err.SQLState(),
		err,
	)
}
