package cooldown_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/cooldown"
	"github.com/osse101/SpinWheel_Go/internal/domain"
)

func TestErrOnCooldown_Error(t *testing.T) {
	tests := []struct {
		name string
		err  cooldown.ErrOnCooldown
		want string
	}{
		{
			name: "minutes and seconds",
			err:  cooldown.ErrOnCooldown{Action: "spin", Remaining: 2*time.Minute + 30*time.Second},
			want: fmt.Sprintf(cooldown.ErrFmtCooldownWithMinutes, "spin", 2, 30),
		},
		{
			name: "seconds only",
			err:  cooldown.ErrOnCooldown{Action: "roll", Remaining: 45 * time.Second},
			want: fmt.Sprintf(cooldown.ErrFmtCooldownSecondsOnly, "roll", 45),
		},
		{
			name: "zero remaining",
			err:  cooldown.ErrOnCooldown{Action: "roll"},
			want: fmt.Sprintf(cooldown.ErrFmtCooldownSecondsOnly, "roll", 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrOnCooldown_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", cooldown.ErrOnCooldown{Action: "test", Remaining: time.Minute})

	assert.True(t, errors.Is(err, cooldown.ErrOnCooldown{}))
	assert.True(t, errors.Is(err, domain.ErrOnCooldown))
	assert.False(t, errors.Is(err, domain.ErrNotEligible))
}

func TestMemoryService_EnforceCooldown(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	svc := cooldown.NewMemoryService(cooldown.Config{Clock: clock})

	calls := 0
	fn := func() error { calls++; return nil }

	require.NoError(t, svc.EnforceCooldown(ctx, "u1", cooldown.ActionRandomGrant, time.Hour, fn))

	err := svc.EnforceCooldown(ctx, "u1", cooldown.ActionRandomGrant, time.Hour, fn)
	var cd cooldown.ErrOnCooldown
	require.ErrorAs(t, err, &cd)
	assert.Equal(t, time.Hour, cd.Remaining)

	require.NoError(t, svc.EnforceCooldown(ctx, "u2", cooldown.ActionRandomGrant, time.Hour, fn), "other users are independent")

	clock.Advance(time.Hour)
	require.NoError(t, svc.EnforceCooldown(ctx, "u1", cooldown.ActionRandomGrant, time.Hour, fn))
	assert.Equal(t, 3, calls)
}

func TestMemoryService_FailedActionDoesNotStartCooldown(t *testing.T) {
	ctx := context.Background()
	svc := cooldown.NewMemoryService(cooldown.Config{Clock: clockwork.NewFakeClock()})

	boom := errors.New("roll lost")
	err := svc.EnforceCooldown(ctx, "u1", cooldown.ActionRandomGrant, time.Hour, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	onCooldown, _, err := svc.CheckCooldown(ctx, "u1", cooldown.ActionRandomGrant, time.Hour)
	require.NoError(t, err)
	assert.False(t, onCooldown)

	last, err := svc.GetLastUsed(ctx, "u1", cooldown.ActionRandomGrant)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestMemoryService_ResetAndDevMode(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	svc := cooldown.NewMemoryService(cooldown.Config{Clock: clock})
	noop := func() error { return nil }

	require.NoError(t, svc.EnforceCooldown(ctx, "u1", cooldown.ActionRandomRoll, time.Hour, noop))
	last, err := svc.GetLastUsed(ctx, "u1", cooldown.ActionRandomRoll)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, clock.Now(), *last)

	require.NoError(t, svc.ResetCooldown(ctx, "u1", cooldown.ActionRandomRoll))
	assert.NoError(t, svc.EnforceCooldown(ctx, "u1", cooldown.ActionRandomRoll, time.Hour, noop))

	dev := cooldown.NewMemoryService(cooldown.Config{DevMode: true, Clock: clock})
	require.NoError(t, dev.EnforceCooldown(ctx, "u1", cooldown.ActionRandomRoll, time.Hour, noop))
	assert.NoError(t, dev.EnforceCooldown(ctx, "u1", cooldown.ActionRandomRoll, time.Hour, noop))
}
