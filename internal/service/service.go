package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// inTx runs fn inside one database transaction. The transaction is committed
// only when fn returns nil; every other path rolls it back.
func inTx(ctx context.Context, db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return database.Wrap("failed to begin "+op, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return database.Wrap("failed to commit "+op, err)
	}
	return nil
}

// authorize fails with ErrForbidden unless p may touch data owned by ownerID.
func authorize(p model.Principal, ownerID string) error {
	if !p.CanAccess(ownerID) {
		return apperrors.ErrForbidden
	}
	return nil
}

func requireAdmin(p model.Principal) error {
	if !p.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

// ownerOf resolves the user an operation acts for: the principal itself unless
// an admin names someone else.
func ownerOf(p model.Principal, userID string) (string, error) {
	if userID == "" {
		return p.UserID, nil
	}
	if err := authorize(p, userID); err != nil {
		return "", err
	}
	return userID, nil
}

// missing turns a not-found sentinel from a referenced row into a DataIntegrityError.
func missing(entity, id string, err error, notFound error) error {
	if errors.Is(err, notFound) {
		return &apperrors.DataIntegrityError{Entity: entity, ID: id, Err: notFound}
	}
	return fmt.Errorf("failed to load %s: %w", entity, err)
}

func newID() string {
	return uuid.New().String()
}

func now() time.Time {
	return time.Now().UTC()
}
