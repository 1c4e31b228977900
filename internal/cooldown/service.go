package cooldown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// Service manages per-user action cooldowns
type Service interface {
	// CheckCooldown reports whether the action is on cooldown and how long remains
	CheckCooldown(ctx context.Context, userID, action string, cooldown time.Duration) (bool, time.Duration, error)

	// EnforceCooldown atomically checks the cooldown and runs fn if allowed.
	// The timestamp is only updated when fn succeeds.
	EnforceCooldown(ctx context.Context, userID, action string, cooldown time.Duration, fn func() error) error

	// ResetCooldown manually resets a cooldown (admin/testing)
	ResetCooldown(ctx context.Context, userID, action string) error

	// GetLastUsed returns when the action was last performed, nil if never
	GetLastUsed(ctx context.Context, userID, action string) (*time.Time, error)
}

// ErrOnCooldown is returned when action is still on cooldown
type ErrOnCooldown struct {
	Action    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % SecondsPerMinute

	if minutes > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, e.Action, minutes, seconds)
	}
	return fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.Action, seconds)
}

// Is allows errors.Is() to match any ErrOnCooldown and the domain sentinel
func (e ErrOnCooldown) Is(target error) bool {
	if _, ok := target.(ErrOnCooldown); ok {
		return true
	}
	return errors.Is(domain.ErrOnCooldown, target)
}

// remaining returns whether lastUsed is still within duration at now
func remaining(now time.Time, lastUsed *time.Time, duration time.Duration) (bool, time.Duration) {
	if lastUsed == nil || duration <= 0 {
		return false, 0
	}

	elapsed := now.Sub(*lastUsed)
	if elapsed < duration {
		return true, duration - elapsed
	}

	return false, 0
}
