package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  int
	}{
		{"unset", "", false, 42},
		{"valid", "100", true, 100},
		{"invalid", "not-a-number", true, 42},
		{"negative", "-10", true, -10},
		{"zero", "0", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("TEST_INT_VAR", tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsInt("TEST_INT_VAR", 42))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  time.Duration
	}{
		{"unset", "", false, 5 * time.Minute},
		{"seconds", "30s", true, 30 * time.Second},
		{"millis", "400ms", true, 400 * time.Millisecond},
		{"invalid", "soon", true, 5 * time.Minute},
		{"bare number", "10", true, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("TEST_DURATION_VAR", tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
		})
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT_VAR", "2.5")
	assert.InDelta(t, 2.5, getEnvAsFloat("TEST_FLOAT_VAR", 1), 1e-9)

	t.Setenv("TEST_FLOAT_VAR", "x")
	assert.InDelta(t, 1.0, getEnvAsFloat("TEST_FLOAT_VAR", 1), 1e-9)
}
