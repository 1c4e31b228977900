package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/authority"
	"github.com/osse101/SpinWheel_Go/internal/cooldown"
	"github.com/osse101/SpinWheel_Go/internal/database/memory"
	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
)

const testAPIKey = "test-key"

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := httptest.NewRequest("GET", "/api/v1/wallet", nil)
	req.Header.Set("X-API-Key", "secret-key-123")
	req.Header.Set("Authorization", "Bearer mytoken")
	req.Header.Set("User-Agent", "TestAgent")

	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), req)

	logOutput := buf.String()
	require.Contains(t, logOutput, LogMsgRequestHeaders)
	assert.NotContains(t, logOutput, "secret-key-123")
	assert.NotContains(t, logOutput, "Bearer mytoken")
	assert.Contains(t, logOutput, "TestAgent")
	assert.Contains(t, logOutput, "request_id")
}

func TestLoggingMiddleware_SkipsProbes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	assert.Empty(t, buf.String())
}

func e2eConfig() domain.Config {
	return domain.Config{
		IsActive: true,
		Rewards: []domain.Reward{
			{ID: 1, Amount: 1000, Type: domain.CurrencyGC, Rarity: domain.RarityCommon, Probability: 80, Description: "1,000 GC", Active: true},
			{ID: 2, Amount: 2.5, Type: domain.CurrencySC, Rarity: domain.RarityEpic, Probability: 20, Description: "2.5 SC", Active: true},
		},
		Triggers: domain.TriggerConfig{
			FirstTime: domain.FirstTimeTrigger{Enabled: true, SpinsPerUser: 1},
			Threshold: domain.ThresholdTrigger{
				Enabled:    true,
				Thresholds: []domain.SpendThreshold{{ID: "t1", SpendingAmount: 50, SpinsAwarded: 1, Active: true}},
			},
		},
	}
}

// newE2E runs the full router over an authority backed by the in-memory store.
// Every sampling roll is 0.9, which lands on the second reward.
func newE2E(t *testing.T) *rewardservice.Client {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := authority.NewService(memory.NewStore(), authority.Options{
		Clock:     clock,
		Cooldowns: cooldown.NewMemoryService(cooldown.Config{Clock: clock}),
		Random:    func() (float64, error) { return 0.9, nil },
	})
	ts := httptest.NewServer(NewRouter(testAPIKey, nil, nil, svc))
	t.Cleanup(ts.Close)
	return rewardservice.NewClient(ts.URL, testAPIKey, time.Second)
}

func TestEndToEnd_SpinAndClaim(t *testing.T) {
	ctx := context.Background()
	client := newE2E(t)
	const user = "player-42"

	_, err := client.GetConfig(ctx)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)

	saved, err := client.UpdateConfig(ctx, e2eConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Config.Version)
	assert.True(t, saved.Validation.Valid)

	view, err := client.GetSpinState(ctx, user)
	require.NoError(t, err)
	assert.Contains(t, view.Eligible, domain.TriggerFirstTime)

	resp, err := client.RequestSpin(ctx, user, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SpinResult.SpinID)
	assert.Equal(t, 2, resp.SpinResult.RewardID)
	assert.Equal(t, domain.CurrencySC, resp.SpinResult.Type)

	_, err = client.RequestSpin(ctx, user, domain.SpinContext{Trigger: domain.TriggerFirstTime})
	assert.ErrorIs(t, err, domain.ErrNotEligible)
	assert.True(t, rewardservice.IsRejection(err))

	ack, err := client.ClaimSpin(ctx, user, resp.SpinResult.SpinID)
	require.NoError(t, err)
	require.NotNil(t, ack.Balances)
	assert.True(t, ack.Balances.SweepCoins.Equal(decimal.RequireFromString("2.5")), ack.Balances.SweepCoins.String())
	assert.True(t, ack.Balances.GoldCoins.IsZero())

	_, err = client.ClaimSpin(ctx, user, resp.SpinResult.SpinID)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	_, err = client.ClaimSpin(ctx, "someone-else", resp.SpinResult.SpinID)
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)

	wallet, err := client.GetWallet(ctx, user)
	require.NoError(t, err)
	assert.True(t, wallet.SweepCoins.Equal(decimal.RequireFromString("2.5")))
}

func TestEndToEnd_ThresholdSpend(t *testing.T) {
	ctx := context.Background()
	client := newE2E(t)
	const user = "spender"

	_, err := client.UpdateConfig(ctx, e2eConfig())
	require.NoError(t, err)

	_, err = client.RequestSpin(ctx, user, domain.SpinContext{Trigger: domain.TriggerThreshold})
	assert.ErrorIs(t, err, domain.ErrNoSpinsAvailable)

	res, err := client.RecordSpend(ctx, user, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.Equal(t, 1, res.SpinsAwarded)

	_, err = client.RequestSpin(ctx, user, domain.SpinContext{Trigger: domain.TriggerThreshold})
	require.NoError(t, err)

	_, err = client.RecordSpend(ctx, user, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEndToEnd_RejectsBadRequests(t *testing.T) {
	ctx := context.Background()
	client := newE2E(t)

	_, err := client.UpdateConfig(ctx, e2eConfig())
	require.NoError(t, err)

	_, err = client.RequestSpin(ctx, "", domain.SpinContext{Trigger: domain.TriggerFirstTime})
	assert.ErrorIs(t, err, domain.ErrUserRequired)

	_, err = client.RequestSpin(ctx, "u", domain.SpinContext{Trigger: "daily"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = client.UpdateConfig(ctx, domain.Config{Version: 7})
	assert.ErrorIs(t, err, domain.ErrConfigConflict)

	unauthenticated := rewardservice.NewClient(client.BaseURL, "wrong", time.Second)
	_, err = unauthenticated.GetWallet(ctx, "u")
	require.Error(t, err)
	assert.False(t, rewardservice.IsTransient(err))
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := NewRouter(testAPIKey, nil, nil, authority.NewService(memory.NewStore(), authority.Options{}))

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
