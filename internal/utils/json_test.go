package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

func TestLoadJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "wheel config",
			content: `{"isActive": true, "rewards": [{"id": 1, "amount": 100, "type": "GC", "rarity": "common", "probability": 100, "active": true}]}`,
		},
		{name: "empty object", content: `{}`},
		{name: "invalid JSON", content: `{invalid`, wantErr: "failed to unmarshal JSON"},
		{name: "wrong shape", content: `{"rewards": "none"}`, wantErr: "failed to unmarshal JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wheel.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			var cfg domain.Config
			err := LoadJSON(path, &cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Contains(t, err.Error(), path)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadJSON_DecodesRewards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.json")
	content := `{"isActive": true, "rewards": [{"id": 7, "amount": 2.5, "type": "SC", "rarity": "top_reward", "probability": 100, "active": true}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var cfg domain.Config
	require.NoError(t, LoadJSON(path, &cfg))

	require.Len(t, cfg.Rewards, 1)
	r := cfg.Rewards[0]
	assert.Equal(t, 7, r.ID)
	assert.InDelta(t, 2.5, r.Amount, 1e-9)
	assert.Equal(t, domain.CurrencySC, r.Type)
	assert.Equal(t, domain.RarityTopReward, r.Rarity)
}

func TestLoadJSON_MissingFile(t *testing.T) {
	var cfg domain.Config
	err := LoadJSON(filepath.Join(t.TempDir(), "absent.json"), &cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
