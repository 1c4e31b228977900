// Package wallet keeps the client-side view of a user's balances.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/logger"
)

// Source provides authoritative balances
type Source interface {
	GetWallet(ctx context.Context, userID string) (domain.Balances, error)
}

// Wallet holds the last known balances of one user.
// GC is only ever taken from the authority; SC may be incremented locally.
type Wallet struct {
	mu       sync.RWMutex
	source   Source
	userID   string
	balances domain.Balances
}

// New creates an empty wallet for userID
func New(source Source, userID string) *Wallet {
	return &Wallet{source: source, userID: userID}
}

// Refresh replaces the balances with the authority's
func (w *Wallet) Refresh(ctx context.Context) (domain.Balances, error) {
	b, err := w.source.GetWallet(ctx, w.userID)
	if err != nil {
		return w.Snapshot(), fmt.Errorf("failed to refresh wallet: %w", err)
	}

	w.mu.Lock()
	w.balances = b
	w.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgWalletRefreshed, "user_id", w.userID, "gc", b.GoldCoins.String(), "sc", b.SweepCoins.String())
	return b, nil
}

// AddSweepCoins increments the local SC balance
func (w *Wallet) AddSweepCoins(amount decimal.Decimal) domain.Balances {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances = w.balances.Credit(domain.CurrencySC, amount)
	return w.balances
}

// Snapshot returns the current balances
func (w *Wallet) Snapshot() domain.Balances {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balances
}
