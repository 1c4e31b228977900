package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgFailedToRollback, "error", err)
	}
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// parseSpinID parses a spin id; ids that are not UUIDs can never exist
func parseSpinID(spinID string) (uuid.UUID, error) {
	id, err := uuid.Parse(spinID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrSpinNotFound, spinID)
	}
	return id, nil
}

// parseBalances converts the text form of two NUMERIC columns
func parseBalances(gc, sc string) (domain.Balances, error) {
	gold, err := decimal.NewFromString(gc)
	if err != nil {
		return domain.Balances{}, fmt.Errorf("%s: %w", ErrMsgFailedToParseNumeric, err)
	}
	sweep, err := decimal.NewFromString(sc)
	if err != nil {
		return domain.Balances{}, fmt.Errorf("%s: %w", ErrMsgFailedToParseNumeric, err)
	}
	return domain.Balances{GoldCoins: gold, SweepCoins: sweep}, nil
}

// isUniqueViolation reports whether err is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}

// wrapDBError tags err as a database error and keeps the cause matchable
func wrapDBError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, msg, err)
}
