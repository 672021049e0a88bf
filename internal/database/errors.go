package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
	mysqlCheckViolated   = 3819
)

// Classify maps a driver error onto a store error kind.
func Classify(err error) apperrors.StoreErrorKind {
	if err == nil {
		return apperrors.StoreFailure
	}
	if errors.Is(err, apperrors.ErrConcurrentModification) {
		return apperrors.StoreConflict
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return apperrors.StoreDuplicate
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlCheckViolated:
			return apperrors.StoreConstraint
		case mysqlLockWaitTimeout, mysqlDeadlock:
			return apperrors.StoreConflict
		}
		return apperrors.StoreFailure
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperrors.StoreDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return apperrors.StoreConstraint
		}
		switch code & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return apperrors.StoreConflict
		case sqlite3.SQLITE_CONSTRAINT:
			return classifyMessage(liteErr.Error(), apperrors.StoreConstraint)
		}
	}

	return classifyMessage(err.Error(), apperrors.StoreFailure)
}

// classifyMessage is the fallback for drivers that only report base result codes.
func classifyMessage(msg string, fallback apperrors.StoreErrorKind) apperrors.StoreErrorKind {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.StoreDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return apperrors.StoreConstraint
	}
	return fallback
}

// Wrap classifies err and wraps it with the failed operation.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &apperrors.StoreError{Op: op, Kind: Classify(err), Err: err}
}
