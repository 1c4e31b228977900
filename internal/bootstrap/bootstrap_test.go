package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/authority"
	"github.com/osse101/SpinWheel_Go/internal/config"
	"github.com/osse101/SpinWheel_Go/internal/database/memory"
	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/validation"
)

const shippedSeedConfig = "../../configs/wheel.json"

const validSeed = `{
  "isActive": true,
  "rewards": [
    {"id": 1, "amount": 100, "type": "GC", "rarity": "common", "probability": 70, "active": true},
    {"id": 2, "amount": 2.5, "type": "SC", "rarity": "rare", "probability": 30, "active": true}
  ],
  "triggers": {
    "firstTime": {"enabled": true, "spinsPerUser": 1},
    "random": {"enabled": false, "probability": 0, "cooldownHours": 24},
    "threshold": {"enabled": false, "thresholds": []}
  }
}`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wheel.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newAuthority() *authority.Service {
	return authority.NewService(memory.NewStore(), authority.Options{})
}

func TestSeedWheelConfig(t *testing.T) {
	ctx := context.Background()
	schemas := validation.NewSchemaValidator()

	t.Run("seeds empty authority", func(t *testing.T) {
		svc := newAuthority()
		require.NoError(t, SeedWheelConfig(ctx, svc, schemas, writeSeed(t, validSeed)))

		cfg, err := svc.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cfg.Version)
		assert.Len(t, cfg.Rewards, 2)
		assert.True(t, cfg.IsActive)
	})

	t.Run("stored config wins", func(t *testing.T) {
		svc := newAuthority()
		require.NoError(t, SeedWheelConfig(ctx, svc, schemas, writeSeed(t, validSeed)))
		require.NoError(t, SeedWheelConfig(ctx, svc, schemas, writeSeed(t, validSeed)))

		cfg, err := svc.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cfg.Version)
	})

	t.Run("missing file leaves wheel unconfigured", func(t *testing.T) {
		svc := newAuthority()
		require.NoError(t, SeedWheelConfig(ctx, svc, schemas, filepath.Join(t.TempDir(), "absent.json")))
		require.NoError(t, SeedWheelConfig(ctx, svc, schemas, ""))

		_, err := svc.GetConfig(ctx)
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	t.Run("schema violation is rejected", func(t *testing.T) {
		svc := newAuthority()
		err := SeedWheelConfig(ctx, svc, schemas, writeSeed(t, `{"isActive": true, "rewards": []}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidSeedConfig)

		_, err = svc.GetConfig(ctx)
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	t.Run("probability issues are saved", func(t *testing.T) {
		svc := newAuthority()
		body := `{
  "isActive": true,
  "rewards": [{"id": 1, "amount": 5, "type": "GC", "rarity": "common", "probability": 90, "active": true}],
  "triggers": {
    "firstTime": {"enabled": true, "spinsPerUser": 1},
    "random": {"enabled": false, "probability": 0, "cooldownHours": 0},
    "threshold": {"enabled": false, "thresholds": []}
  }
}`
		require.NoError(t, SeedWheelConfig(ctx, svc, schemas, writeSeed(t, body)))

		res, err := svc.ValidateConfig(ctx)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.InDelta(t, 90, res.TotalProbability, 1e-9)
	})
}

func TestShippedSeedConfig(t *testing.T) {
	ctx := context.Background()
	svc := newAuthority()

	require.NoError(t, SeedWheelConfig(ctx, svc, validation.NewSchemaValidator(), shippedSeedConfig))

	res, err := svc.ValidateConfig(ctx)
	require.NoError(t, err)
	assert.True(t, res.Valid, "issues: %v", res.Issues)
	assert.InDelta(t, 100, res.TotalProbability, 1e-9)
}

func TestInitializeStorage_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreMemory}

	storage, err := InitializeStorage(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer storage.Close()

	assert.NotNil(t, storage.Wheel)
	assert.NotNil(t, storage.Cooldowns)
	assert.Nil(t, storage.Pool)
	assert.Nil(t, storage.HealthPool())
}

func TestRegisterEventHandlers(t *testing.T) {
	bus := event.NewMemoryBus()

	handlers := RegisterEventHandlers(bus)
	// metrics collector plus the audit logger
	assert.Equal(t, 2, bus.HandlerCount(event.ConfigUpdated))
	assert.Equal(t, 1, bus.HandlerCount(event.SpinIssued))

	require.NoError(t, bus.Publish(context.Background(), event.NewConfigUpdatedEvent(3, true)))

	handlers.Unregister()
	assert.Zero(t, bus.HandlerCount(event.ConfigUpdated))
	assert.Zero(t, bus.HandlerCount(event.SpinIssued))
}

func TestCleanupLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"authority_2026-01-01_00-00-00.log",
		"authority_2026-01-02_00-00-00.log",
		"authority_2026-01-03_00-00-00.log",
		"notes.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}

	cleanupLogs(dir, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{"authority_2026-01-03_00-00-00.log", "notes.txt"}, left)
}

func TestGracefulShutdown_SkipsNilComponents(t *testing.T) {
	assert.NotPanics(t, func() {
		GracefulShutdown(context.Background(), ShutdownComponents{})
	})
}
