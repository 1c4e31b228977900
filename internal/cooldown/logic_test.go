package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHashUserAction(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		action string
	}{
		{"normal", "user123", ActionRandomGrant},
		{"empty", "", ""},
		{"long", "user-uuid-long-string", "action-name-very-long"},
		{"symbols", "user!@#", "action$%^"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := hashUserAction(tt.userID, tt.action)
			h2 := hashUserAction(tt.userID, tt.action)

			assert.Equal(t, h1, h2, "hash should be deterministic")
			assert.GreaterOrEqual(t, h1, int64(0), "hash should be positive")
		})
	}

	t.Run("collisions", func(t *testing.T) {
		h1 := hashUserAction("user1", ActionRandomGrant)
		h2 := hashUserAction("user1", ActionRandomRoll)
		assert.NotEqual(t, h1, h2, "different actions should have different hashes")

		h3 := hashUserAction("user2", ActionRandomGrant)
		assert.NotEqual(t, h1, h3, "different users should have different hashes")
	})
}

func TestRemaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	duration := 24 * time.Hour
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name           string
		lastUsed       *time.Time
		duration       time.Duration
		wantOnCooldown bool
		wantRemaining  time.Duration
	}{
		{"never used", nil, duration, false, 0},
		{"just used", ptr(now), duration, true, duration},
		{"halfway", ptr(now.Add(-12 * time.Hour)), duration, true, 12 * time.Hour},
		{"exact boundary", ptr(now.Add(-duration)), duration, false, 0},
		{"long ago", ptr(now.Add(-48 * time.Hour)), duration, false, 0},
		{"zero duration", ptr(now), 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			onCooldown, left := remaining(now, tt.lastUsed, tt.duration)
			assert.Equal(t, tt.wantOnCooldown, onCooldown)
			assert.Equal(t, tt.wantRemaining, left)
		})
	}
}
