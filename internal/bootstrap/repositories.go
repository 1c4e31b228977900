package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/SpinWheel_Go/internal/config"
	"github.com/osse101/SpinWheel_Go/internal/cooldown"
	"github.com/osse101/SpinWheel_Go/internal/database"
	"github.com/osse101/SpinWheel_Go/internal/database/memory"
	"github.com/osse101/SpinWheel_Go/internal/database/postgres"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/repository"
)

// Storage holds the persistence backends of the authority.
// Pool is nil when the in-memory store is in use.
type Storage struct {
	Wheel     repository.Wheel
	Cooldowns cooldown.Service
	Pool      *pgxpool.Pool
}

// HealthPool returns the pool for readiness checks, or a nil interface for the memory store
func (s *Storage) HealthPool() database.Pool {
	if s.Pool == nil {
		return nil
	}
	return s.Pool
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// InitializeStorage selects the wheel repository and the cooldown backend.
// For Postgres it connects and applies the embedded migrations.
func InitializeStorage(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (*Storage, error) {
	if !cfg.UsesPostgres() {
		logger.Warn(LogMsgUsingMemoryStore)
		return &Storage{
			Wheel:     memory.NewStore(),
			Cooldowns: cooldown.NewMemoryService(cooldown.Config{Clock: clock}),
		}, nil
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdle, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDB, err)
	}

	logger.Info(LogMsgUsingPostgresStore, "host", cfg.DBHost, "db", cfg.DBName)
	return &Storage{
		Wheel:     postgres.NewWheelRepository(pool),
		Cooldowns: cooldown.NewPostgresService(pool, cooldown.Config{Clock: clock}),
		Pool:      pool,
	}, nil
}
