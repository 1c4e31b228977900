package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// Wheel defines the persistence of the reward authority
type Wheel interface {
	// GetConfig returns domain.ErrConfigNotFound when no config was ever saved
	GetConfig(ctx context.Context) (*domain.Config, error)
	// SaveConfig replaces the config and assigns the next version.
	// A non-zero expectedVersion must match the stored version or domain.ErrConfigConflict is returned.
	SaveConfig(ctx context.Context, cfg domain.Config, expectedVersion int64) (*domain.Config, error)

	// GetSpinState returns an empty state for unknown users
	GetSpinState(ctx context.Context, userID string) (domain.UserSpinState, error)
	GetSpin(ctx context.Context, spinID string) (*domain.SpinOutcome, error)
	ListUnclaimedSpins(ctx context.Context, userID string) ([]domain.SpinOutcome, error)
	CountUnclaimedSpins(ctx context.Context) (int, error)
	GetBalances(ctx context.Context, userID string) (domain.Balances, error)

	// Transaction support
	BeginTx(ctx context.Context) (WheelTx, error)
}

// WheelTx extends Tx with the wheel operations that must be atomic
type WheelTx interface {
	Tx // Commit, Rollback

	// GetSpinStateForUpdate locks the user's trigger state for the rest of the transaction
	GetSpinStateForUpdate(ctx context.Context, userID string) (domain.UserSpinState, error)
	SaveSpinState(ctx context.Context, state domain.UserSpinState) error

	CreateSpin(ctx context.Context, outcome domain.SpinOutcome) error
	// GetSpinForUpdate returns domain.ErrSpinNotFound for unknown ids
	GetSpinForUpdate(ctx context.Context, spinID string) (*domain.SpinOutcome, error)
	MarkSpinClaimed(ctx context.Context, spinID string, claimedAt time.Time) error

	CreditBalance(ctx context.Context, userID string, currency domain.CurrencyType, amount decimal.Decimal) (domain.Balances, error)
}
