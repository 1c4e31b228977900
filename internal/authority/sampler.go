package authority

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// pickReward chooses one reward by weight from a roll in [0,1).
// Negative probabilities weigh nothing. When no reward carries weight the choice is uniform,
// so a saved config with a broken probability sum still yields a reward.
func pickReward(rewards []domain.Reward, roll float64) domain.Reward {
	weights := make([]decimal.Decimal, len(rewards))
	total := decimal.Zero
	for i, r := range rewards {
		w := decimal.NewFromFloat(r.Probability)
		if w.IsNegative() {
			w = decimal.Zero
		}
		weights[i] = w
		total = total.Add(w)
	}

	if !total.IsPositive() {
		idx := int(roll * float64(len(rewards)))
		if idx >= len(rewards) {
			idx = len(rewards) - 1
		}
		return rewards[idx]
	}

	target := decimal.NewFromFloat(roll).Mul(total)
	acc := decimal.Zero
	last := 0
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		acc = acc.Add(w)
		last = i
		if target.LessThan(acc) {
			return rewards[i]
		}
	}
	return rewards[last]
}
