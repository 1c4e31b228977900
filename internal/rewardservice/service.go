// Package rewardservice defines the contract of the remote reward authority
// and an HTTP client that speaks to it.
package rewardservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// Service is the remote authority that samples outcomes and owns the ledger.
// Per-user operations take the id of the acting user.
type Service interface {
	GetConfig(ctx context.Context) (domain.Config, error)
	UpdateConfig(ctx context.Context, cfg domain.Config) (domain.UpdateConfigResult, error)
	ValidateConfig(ctx context.Context) (domain.ValidationResult, error)

	GetSpinState(ctx context.Context, userID string) (domain.SpinStateView, error)
	RequestSpin(ctx context.Context, userID string, spinCtx domain.SpinContext) (domain.SpinResponse, error)
	ClaimSpin(ctx context.Context, userID, spinID string) (domain.ClaimAck, error)
	RecordSpend(ctx context.Context, userID string, amount decimal.Decimal) (domain.SpendResult, error)
	GetWallet(ctx context.Context, userID string) (domain.Balances, error)
}
