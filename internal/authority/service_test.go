package authority

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/cooldown"
	"github.com/osse101/SpinWheel_Go/internal/database/memory"
	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/metrics"
)

const testUser = "user-1"

func testConfig() domain.Config {
	return domain.Config{
		IsActive: true,
		Rewards: []domain.Reward{
			{ID: 1, Amount: 1000, Type: domain.CurrencyGC, Rarity: domain.RarityCommon, Probability: 70, Description: "Gold", Active: true},
			{ID: 2, Amount: 5, Type: domain.CurrencySC, Rarity: domain.RarityRare, Probability: 30, Description: "Sweep", Active: true},
			{ID: 3, Amount: 100, Type: domain.CurrencySC, Rarity: domain.RarityLegendary, Probability: 0, Active: false},
		},
		Triggers: domain.TriggerConfig{
			FirstTime: domain.FirstTimeTrigger{Enabled: true, SpinsPerUser: 1},
			Random:    domain.RandomTrigger{Enabled: true, Probability: 50, CooldownHours: 24},
			Threshold: domain.ThresholdTrigger{
				Enabled: true,
				Thresholds: []domain.SpendThreshold{
					{ID: "bronze", SpendingAmount: 100, SpinsAwarded: 1, Active: true},
					{ID: "silver", SpendingAmount: 250, SpinsAwarded: 2, Active: true, Repeatable: true},
				},
			},
		},
	}
}

// rolls returns a random source that yields values in order, then zeros
func rolls(values ...float64) RandomSource {
	var mu sync.Mutex
	i := 0
	return func() (float64, error) {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(values) {
			return 0, nil
		}
		v := values[i]
		i++
		return v, nil
	}
}

// countingRepo counts config loads that reach the store
type countingRepo struct {
	*memory.Store
	mu    sync.Mutex
	loads int
}

func (r *countingRepo) GetConfig(ctx context.Context) (*domain.Config, error) {
	r.mu.Lock()
	r.loads++
	r.mu.Unlock()
	return r.Store.GetConfig(ctx)
}

type fixture struct {
	svc    *Service
	store  *memory.Store
	clock  *clockwork.FakeClock
	bus    *event.MemoryBus
	mu     sync.Mutex
	issued []domain.SpinIssuedPayload
}

func newFixture(t *testing.T, random RandomSource) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewStore(),
		clock: clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		bus:   event.NewMemoryBus(),
	}
	f.bus.Subscribe(event.SpinIssued, func(ctx context.Context, evt event.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.issued = append(f.issued, evt.Payload.(domain.SpinIssuedPayload))
		return nil
	})
	f.svc = NewService(f.store, Options{
		Clock:     f.clock,
		Cooldowns: cooldown.NewMemoryService(cooldown.Config{Clock: f.clock}),
		Bus:       f.bus,
		Random:    random,
	})
	return f
}

func (f *fixture) seed(t *testing.T, cfg domain.Config) {
	t.Helper()
	_, err := f.svc.UpdateConfig(context.Background(), cfg)
	require.NoError(t, err)
}

func TestGetConfig_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.GetConfig(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestUpdateConfig_SavesInvalidConfigWithIssues(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cfg := testConfig()
	cfg.Rewards[1].Probability = 27.5

	res, err := f.svc.UpdateConfig(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, res.Validation.Valid)
	assert.InDelta(t, 97.5, res.Validation.TotalProbability, 1e-9)
	require.NotEmpty(t, res.Validation.Issues)
	assert.Contains(t, res.Validation.Issues[0], "97.5")
	assert.Equal(t, int64(1), res.Config.Version)

	stored, err := f.svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 27.5, stored.Rewards[1].Probability, 1e-9)

	validated, err := f.svc.ValidateConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Validation, validated)
	assert.Equal(t, float64(len(res.Validation.Issues)), testutil.ToFloat64(metrics.ConfigIssues))
}

func TestUpdateConfig_VersionConflict(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, testConfig())

	stale := testConfig()
	stale.Version = 1
	res, err := f.svc.UpdateConfig(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Config.Version)

	// Still carries version 1 while the store is at 2
	_, err = f.svc.UpdateConfig(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConfigConflict)

	// Zero version keeps last-writer-wins
	res, err = f.svc.UpdateConfig(ctx, testConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Config.Version)
}

func TestGetConfig_CachedUntilUpdate(t *testing.T) {
	repo := &countingRepo{Store: memory.NewStore()}
	svc := NewService(repo, Options{Clock: clockwork.NewFakeClock()})
	ctx := context.Background()

	_, err := repo.SaveConfig(ctx, testConfig(), 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.GetConfig(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.loads)

	// Returned copies are independent of the cache
	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	cfg.Rewards[0].Amount = -1
	again, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1000, again.Rewards[0].Amount, 1e-9)

	update := testConfig()
	update.IsActive = false
	_, err = svc.UpdateConfig(ctx, update)
	require.NoError(t, err)

	cfg, err = svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.IsActive)
	assert.Equal(t, 1, repo.loads, "a save refreshes the cache without reloading")
}

func TestRequestSpin_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *domain.Config)
		userID  string
		trigger domain.TriggerKind
		wantErr error
	}{
		{"missing user", nil, "", domain.TriggerFirstTime, domain.ErrUserRequired},
		{"unknown trigger", nil, testUser, "lucky", domain.ErrUnknownTrigger},
		{"inactive wheel", func(c *domain.Config) { c.IsActive = false }, testUser, domain.TriggerFirstTime, domain.ErrWheelInactive},
		{"no active rewards", func(c *domain.Config) {
			for i := range c.Rewards {
				c.Rewards[i].Active = false
			}
		}, testUser, domain.TriggerFirstTime, domain.ErrNoActiveRewards},
		{"first time disabled", func(c *domain.Config) { c.Triggers.FirstTime.Enabled = false }, testUser, domain.TriggerFirstTime, domain.ErrNotEligible},
		{"threshold without spins", nil, testUser, domain.TriggerThreshold, domain.ErrNoSpinsAvailable},
		{"threshold disabled", func(c *domain.Config) { c.Triggers.Threshold.Enabled = false }, testUser, domain.TriggerThreshold, domain.ErrNotEligible},
		{"random disabled", func(c *domain.Config) { c.Triggers.Random.Enabled = false }, testUser, domain.TriggerRandom, domain.ErrNotEligible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			f.seed(t, cfg)

			_, err := f.svc.RequestSpin(context.Background(), tt.userID, domain.SpinContext{Trigger: tt.trigger})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.issued)
		})
	}
}

func TestRequestSpin_FirstTimeOnce(t *testing.T) {
	f := newFixture(t, rolls(0.8))
	ctx := context.Background()
	f.seed(t, testConfig())

	resp, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SpinResult.RewardID)
	assert.Equal(t, domain.CurrencySC, resp.SpinResult.Type)
	assert.InDelta(t, 5, resp.SpinResult.Amount, 1e-9)
	assert.Equal(t, domain.TriggerFirstTime, resp.SpinResult.Trigger)
	assert.Equal(t, f.clock.Now(), resp.SpinResult.IssuedAt)
	assert.NotEmpty(t, resp.SpinResult.SpinID)
	assert.Zero(t, resp.SpinsRemaining)

	require.Len(t, f.issued, 1)
	assert.Equal(t, resp.SpinResult.SpinID, f.issued[0].SpinID)

	_, err = f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	stored, err := f.store.GetSpin(ctx, resp.SpinResult.SpinID)
	require.NoError(t, err)
	assert.False(t, stored.IsClaimed())
}

func TestRequestSpin_ConcurrentFirstTimeGrantsOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, testConfig())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
			if err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrNotEligible)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
}

func TestRequestSpin_RandomTrigger(t *testing.T) {
	// miss, hit + reward roll, hit + reward roll
	f := newFixture(t, rolls(0.9, 0.1, 0.8, 0.0, 0.0))
	ctx := context.Background()
	f.seed(t, testConfig())
	random := domain.SpinContext{Trigger: domain.TriggerRandom}

	_, err := f.svc.RequestSpin(ctx, testUser, random)
	assert.ErrorIs(t, err, domain.ErrNotEligible, "a missed roll grants nothing")

	_, err = f.svc.RequestSpin(ctx, testUser, random)
	assert.ErrorIs(t, err, domain.ErrOnCooldown, "rolls are throttled")

	view, err := f.svc.GetSpinState(ctx, testUser)
	require.NoError(t, err)
	assert.NotContains(t, view.Eligible, domain.TriggerRandom)
	require.NotNil(t, view.NextRandomAt)
	assert.Equal(t, f.clock.Now().Add(cooldown.DefaultRollInterval), *view.NextRandomAt)

	f.clock.Advance(cooldown.DefaultRollInterval)
	resp, err := f.svc.RequestSpin(ctx, testUser, random)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SpinResult.RewardID)
	assert.Equal(t, domain.TriggerRandom, resp.SpinResult.Trigger)

	f.clock.Advance(cooldown.DefaultRollInterval)
	_, err = f.svc.RequestSpin(ctx, testUser, random)
	assert.ErrorIs(t, err, domain.ErrNotEligible, "grant cooldown still running")

	view, err = f.svc.GetSpinState(ctx, testUser)
	require.NoError(t, err)
	require.NotNil(t, view.NextRandomAt)
	assert.Equal(t, resp.SpinResult.IssuedAt.Add(24*time.Hour), *view.NextRandomAt)

	f.clock.Advance(23 * time.Hour)
	resp, err = f.svc.RequestSpin(ctx, testUser, random)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SpinResult.RewardID)
}

func TestRecordSpend_Thresholds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, testConfig())

	var recorded []domain.SpendRecordedPayload
	f.bus.Subscribe(event.SpendRecorded, func(ctx context.Context, evt event.Event) error {
		recorded = append(recorded, evt.Payload.(domain.SpendRecordedPayload))
		return nil
	})

	_, err := f.svc.RecordSpend(ctx, testUser, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := f.svc.RecordSpend(ctx, testUser, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, 1, res.SpinsAwarded, "bronze fires")
	assert.Equal(t, 2, res.SpinsRemaining, "bronze spin plus the unused first-time spin")

	res, err = f.svc.RecordSpend(ctx, testUser, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.Equal(t, 2, res.SpinsAwarded, "silver fires, bronze is once-only")

	res, err = f.svc.RecordSpend(ctx, testUser, decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.Equal(t, 2, res.SpinsAwarded, "silver is repeatable")
	assert.Equal(t, 6, res.SpinsRemaining)

	require.Len(t, recorded, 3)
	assert.Equal(t, "250", recorded[2].Amount)

	resp, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerThreshold})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.SpinsRemaining)
}

func TestClaimSpin(t *testing.T) {
	f := newFixture(t, rolls(0.8))
	ctx := context.Background()
	f.seed(t, testConfig())

	resp, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)
	spinID := resp.SpinResult.SpinID

	_, err = f.svc.ClaimSpin(ctx, "someone-else", spinID)
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)

	_, err = f.svc.ClaimSpin(ctx, testUser, "")
	assert.ErrorIs(t, err, domain.ErrNotClaimable)

	_, err = f.svc.ClaimSpin(ctx, testUser, "unknown")
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)

	f.clock.Advance(time.Second)
	ack, err := f.svc.ClaimSpin(ctx, testUser, spinID)
	require.NoError(t, err)
	assert.Equal(t, spinID, ack.SpinID)
	assert.Equal(t, f.clock.Now(), ack.ClaimedAt)
	require.NotNil(t, ack.Balances)
	assert.True(t, ack.Balances.SweepCoins.Equal(decimal.NewFromInt(5)))
	require.NotNil(t, ack.SpinsRemaining)
	assert.Zero(t, *ack.SpinsRemaining)

	_, err = f.svc.ClaimSpin(ctx, testUser, spinID)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	wallet, err := f.svc.GetWallet(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, wallet.SweepCoins.Equal(decimal.NewFromInt(5)), "credited exactly once")
	assert.True(t, wallet.GoldCoins.IsZero())
}

func TestClaimSpin_ConcurrentClaimsCreditOnce(t *testing.T) {
	f := newFixture(t, rolls(0.0))
	ctx := context.Background()
	f.seed(t, testConfig())

	resp, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ClaimSpin(ctx, testUser, resp.SpinResult.SpinID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrAlreadyClaimed), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)

	wallet, err := f.svc.GetWallet(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, wallet.GoldCoins.Equal(decimal.NewFromInt(1000)))
}

func TestGetSpinState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, testConfig())

	_, err := f.svc.GetSpinState(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUserRequired)

	view, err := f.svc.GetSpinState(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []domain.TriggerKind{domain.TriggerFirstTime, domain.TriggerRandom}, view.Eligible)
	assert.Equal(t, 1, view.SpinsRemaining)
	assert.Nil(t, view.NextRandomAt)
	assert.Empty(t, view.Unclaimed)

	resp, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)

	view, err = f.svc.GetSpinState(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []domain.TriggerKind{domain.TriggerRandom}, view.Eligible)
	assert.Equal(t, []string{resp.SpinResult.SpinID}, view.Unclaimed, "unclaimed outcomes do not expire")

	inactive := testConfig()
	inactive.IsActive = false
	f.seed(t, inactive)
	view, err = f.svc.GetSpinState(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, view.Eligible)
	assert.NotNil(t, view.Eligible)
}

func TestReportUnclaimed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, testConfig())

	_, err := f.svc.RequestSpin(ctx, testUser, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)
	_, err = f.svc.RequestSpin(ctx, "user-2", domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)

	job := f.svc.UnclaimedReportJob()
	assert.Equal(t, JobNameUnclaimedReport, job.Name())
	require.NoError(t, job.Process(ctx))
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.UnclaimedSpins), 1e-9)
}
