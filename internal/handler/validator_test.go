package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

func TestValidator_TriggerValidation(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		trigger domain.TriggerKind
		wantErr bool
	}{
		{"first time", domain.TriggerFirstTime, false},
		{"random", domain.TriggerRandom, false},
		{"threshold", domain.TriggerThreshold, false},
		{"empty is required", "", true},
		{"unknown", "daily", true},
		{"wrong case", "RANDOM", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(domain.SpinContext{Trigger: tt.trigger})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	InitValidator()
	v := GetValidator()

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, FormatValidationError(nil))
	})

	t.Run("required uses json name", func(t *testing.T) {
		err := v.ValidateStruct(domain.SpinContext{})
		require.Error(t, err)

		fields := FormatValidationError(err)
		assert.Equal(t, map[string]string{"trigger": "This field is required"}, fields)
	})

	t.Run("unknown trigger", func(t *testing.T) {
		err := v.ValidateStruct(domain.SpinContext{Trigger: "daily"})
		require.Error(t, err)

		fields := FormatValidationError(err)
		assert.Equal(t, `Unknown trigger "daily"`, fields["trigger"])
	})

	t.Run("reward fields", func(t *testing.T) {
		err := v.ValidateStruct(domain.Reward{ID: 1, Amount: -1, Type: "EUR", Rarity: "mythic", Probability: 120})
		require.Error(t, err)

		fields := FormatValidationError(err)
		assert.Equal(t, "Must be at least 0", fields["amount"])
		assert.Equal(t, `Unknown currency "EUR"`, fields["type"])
		assert.Equal(t, `Unknown rarity "mythic"`, fields["rarity"])
		assert.Equal(t, "Must be at most 100", fields["probability"])
	})

	t.Run("non validation error", func(t *testing.T) {
		fields := FormatValidationError(assert.AnError)
		assert.Equal(t, "Invalid request format", fields["error"])
	})
}
