package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/SpinWheel_Go/internal/concurrency"
	"github.com/osse101/SpinWheel_Go/internal/logger"
)

// memoryBackend implements Service in process memory.
// A per-key mutex gives EnforceCooldown the same mutual exclusion as the advisory lock.
type memoryBackend struct {
	config Config
	clock  clockwork.Clock

	mu       sync.Mutex
	lastUsed map[string]time.Time
	locks    *concurrency.KeyedMutex
}

// NewMemoryService creates a cooldown service that keeps timestamps in memory
func NewMemoryService(config Config) Service {
	return &memoryBackend{
		config:   config,
		clock:    config.clock(),
		lastUsed: make(map[string]time.Time),
		locks:    concurrency.NewKeyedMutex(),
	}
}

func key(userID, action string) string {
	return userID + HashSeparator + action
}

func (b *memoryBackend) CheckCooldown(ctx context.Context, userID, action string, cooldown time.Duration) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}
	last, _ := b.GetLastUsed(ctx, userID, action)
	onCooldown, left := remaining(b.clock.Now(), last, cooldown)
	return onCooldown, left, nil
}

func (b *memoryBackend) EnforceCooldown(ctx context.Context, userID, action string, cooldown time.Duration, fn func() error) error {
	unlock := b.locks.Lock(key(userID, action))
	defer unlock()

	onCooldown, left, err := b.CheckCooldown(ctx, userID, action, cooldown)
	if err != nil {
		return err
	}
	if onCooldown {
		return ErrOnCooldown{Action: action, Remaining: left}
	}

	if err := fn(); err != nil {
		return err
	}

	b.mu.Lock()
	b.lastUsed[key(userID, action)] = b.clock.Now()
	b.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgCooldownEnforced, "action", action, "userID", userID)
	return nil
}

func (b *memoryBackend) ResetCooldown(ctx context.Context, userID, action string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.lastUsed, key(userID, action))
	return nil
}

func (b *memoryBackend) GetLastUsed(ctx context.Context, userID, action string) (*time.Time, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	last, ok := b.lastUsed[key(userID, action)]
	if !ok {
		return nil, nil
	}
	return &last, nil
}
