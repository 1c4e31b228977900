package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/repository"
)

func TestStore_ConfigVersioning(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetConfig(ctx)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)

	cfg := domain.Config{IsActive: true, Rewards: []domain.Reward{{ID: 1, Active: true}}}
	saved, err := s.SaveConfig(ctx, cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	// Mutating the returned copy must not leak into the store
	saved.Rewards[0].ID = 99
	got, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Rewards[0].ID)

	_, err = s.SaveConfig(ctx, cfg, 5)
	assert.ErrorIs(t, err, domain.ErrConfigConflict)

	saved, err = s.SaveConfig(ctx, cfg, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version)
}

func TestStore_TxCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateSpin(ctx, domain.SpinOutcome{SpinID: "a", UserID: "u1", IssuedAt: now}))
	require.NoError(t, tx.Rollback(ctx))
	assert.Error(t, tx.Commit(ctx), "a finished tx cannot commit")
	repository.SafeRollback(ctx, tx)

	_, err = s.GetSpin(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)

	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateSpin(ctx, domain.SpinOutcome{SpinID: "b", UserID: "u1", IssuedAt: now}))
	require.NoError(t, tx.CreateSpin(ctx, domain.SpinOutcome{SpinID: "a", UserID: "u1", IssuedAt: now.Add(-time.Minute)}))
	require.NoError(t, tx.Commit(ctx))

	unclaimed, err := s.ListUnclaimedSpins(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unclaimed, 2)
	assert.Equal(t, "a", unclaimed[0].SpinID, "oldest first")

	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	err = tx.CreateSpin(ctx, domain.SpinOutcome{SpinID: "a", UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	require.NoError(t, tx.Rollback(ctx))
}

func TestStore_ClaimAndCredit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateSpin(ctx, domain.SpinOutcome{SpinID: "s1", UserID: "u1", Type: domain.CurrencyGC, Amount: 100}))
	require.NoError(t, tx.Commit(ctx))

	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.MarkSpinClaimed(ctx, "s1", time.Now()))
	b, err := tx.CreditBalance(ctx, "u1", domain.CurrencyGC, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, b.GoldCoins.Equal(decimal.NewFromInt(100)))
	b, err = tx.CreditBalance(ctx, "u1", domain.CurrencySC, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.True(t, b.GoldCoins.Equal(decimal.NewFromInt(100)), "earlier credit in the same tx is kept")
	require.NoError(t, tx.Commit(ctx))

	o, err := s.GetSpin(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, o.IsClaimed())

	n, err := s.CountUnclaimedSpins(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	wallet, err := s.GetBalances(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, wallet.SweepCoins.Equal(decimal.RequireFromString("2.5")))

	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, tx.MarkSpinClaimed(ctx, "missing", time.Now()), domain.ErrSpinNotFound)
	require.NoError(t, tx.Rollback(ctx))
}

func TestStore_SpinStateIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	state, err := s.GetSpinState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", state.UserID)
	assert.Zero(t, state.FirstTimeGranted)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	locked, err := tx.GetSpinStateForUpdate(ctx, "u1")
	require.NoError(t, err)
	locked.FirstTimeGranted = 1
	locked.Thresholds = map[string]domain.ThresholdProgress{"t1": {TimesFired: 1}}
	require.NoError(t, tx.SaveSpinState(ctx, locked))

	// Later mutation of the saved value must not reach the store
	locked.Thresholds["t1"] = domain.ThresholdProgress{TimesFired: 9}
	require.NoError(t, tx.Commit(ctx))

	state, err = s.GetSpinState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.FirstTimeGranted)
	assert.Equal(t, 1, state.Thresholds["t1"].TimesFired)
}

func TestStore_ConcurrentTransactionsSerialize(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.BeginTx(ctx)
			if !assert.NoError(t, err) {
				return
			}
			state, _ := tx.GetSpinStateForUpdate(ctx, "u1")
			state.ThresholdSpins++
			assert.NoError(t, tx.SaveSpinState(ctx, state))
			assert.NoError(t, tx.Commit(ctx))
		}()
	}
	wg.Wait()

	state, err := s.GetSpinState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, state.ThresholdSpins)
}
