package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
)

// Timestamps are stored as sortable text with microsecond precision so that
// sqlite and mysql DATETIME(6) columns share one format.
const (
	timestampLayout = "2006-01-02 15:04:05.000000"
	dateLayout      = "2006-01-02"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a stored timestamp or date, or an RFC3339 string.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", dateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// nullString maps an empty optional reference to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// affected returns notFound when a write touched no rows.
func affected(op string, result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return database.Wrap(op, err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// conflict is returned when a version-guarded update loses a race.
func conflict(op string) error {
	return &apperrors.StoreError{Op: op, Kind: apperrors.StoreConflict, Err: apperrors.ErrConcurrentModification}
}

// scopeFilter appends an owner filter for non-admin principals.
func scopeFilter(query, column, ownerScope string, args []any) (string, []any) {
	if ownerScope == "" {
		return query, args
	}
	return query + " AND " + column + " = ?", append(args, ownerScope)
}
