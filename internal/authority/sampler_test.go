package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

func weighted(probabilities ...float64) []domain.Reward {
	out := make([]domain.Reward, len(probabilities))
	for i, p := range probabilities {
		out[i] = domain.Reward{ID: i + 1, Probability: p, Active: true}
	}
	return out
}

func TestPickReward(t *testing.T) {
	tests := []struct {
		name    string
		rewards []domain.Reward
		roll    float64
		wantID  int
	}{
		{"first bucket at zero", weighted(70, 30), 0, 1},
		{"first bucket upper edge", weighted(70, 30), 0.6999, 1},
		{"second bucket lower edge", weighted(70, 30), 0.7, 2},
		{"second bucket near one", weighted(70, 30), 0.99999, 2},
		{"zero weight is never picked", weighted(50, 0, 50), 0.5, 3},
		{"negative weight is never picked", weighted(-10, 100), 0, 2},
		{"sum below hundred is normalized", weighted(10, 10), 0.5, 2},
		{"all zero weights fall back to uniform", weighted(0, 0, 0, 0), 0.5, 3},
		{"uniform fallback clamps to last", weighted(0, 0), 0.99999999, 2},
		{"single reward", weighted(100), 0.42, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantID, pickReward(tt.rewards, tt.roll).ID)
		})
	}
}

func TestPickReward_FrequenciesFollowWeights(t *testing.T) {
	rewards := weighted(60, 30, 10)
	counts := make(map[int]int)

	const steps = 1000
	for i := 0; i < steps; i++ {
		counts[pickReward(rewards, float64(i)/steps).ID]++
	}

	assert.Equal(t, 600, counts[1])
	assert.Equal(t, 300, counts[2])
	assert.Equal(t, 100, counts[3])
}
