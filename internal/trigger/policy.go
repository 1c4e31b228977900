package trigger

import (
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// Policy decides spin eligibility for the three trigger kinds.
// It holds no per-user state; callers pass a UserSpinState in and get an updated copy back.
type Policy struct {
	clock clockwork.Clock
}

// NewPolicy creates a policy reading time from clock
func NewPolicy(clock clockwork.Clock) *Policy {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Policy{clock: clock}
}

// CanSpin reports whether the user may request a spin of the given kind.
// For the random kind this only says a grant is possible now; the authority still samples it.
func (p *Policy) CanSpin(kind domain.TriggerKind, state domain.UserSpinState, cfg domain.TriggerConfig) bool {
	switch kind {
	case domain.TriggerFirstTime:
		return cfg.FirstTime.Enabled && state.FirstTimeGranted < cfg.FirstTime.SpinsPerUser
	case domain.TriggerRandom:
		if !cfg.Random.Enabled || cfg.Random.Probability <= 0 {
			return false
		}
		return !p.clock.Now().Before(p.NextRandomEligibleAt(state, cfg.Random))
	case domain.TriggerThreshold:
		return cfg.Threshold.Enabled && state.ThresholdSpins > 0
	default:
		return false
	}
}

// Eligible lists every kind the user may currently spin with
func (p *Policy) Eligible(state domain.UserSpinState, cfg domain.TriggerConfig) []domain.TriggerKind {
	kinds := make([]domain.TriggerKind, 0, 3)
	for _, k := range []domain.TriggerKind{domain.TriggerFirstTime, domain.TriggerRandom, domain.TriggerThreshold} {
		if p.CanSpin(k, state, cfg) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// RandomCooldown is the minimum gap between two random grants
func RandomCooldown(cfg domain.RandomTrigger) time.Duration {
	return time.Duration(cfg.CooldownHours) * time.Hour
}

// NextRandomEligibleAt returns when the random trigger may grant again.
// A user who was never granted is eligible from the zero time.
func (p *Policy) NextRandomEligibleAt(state domain.UserSpinState, cfg domain.RandomTrigger) time.Time {
	if state.LastRandomGrant == nil {
		return time.Time{}
	}
	return state.LastRandomGrant.Add(RandomCooldown(cfg))
}

// RandomGranted decides one random grant from a roll in [0, 100).
// Only the authority calls this; it owns the source of randomness.
func (p *Policy) RandomGranted(roll float64, cfg domain.RandomTrigger) bool {
	if !cfg.Enabled || cfg.Probability <= 0 {
		return false
	}
	return roll < cfg.Probability
}

// Grant records that a spin of the given kind was issued and returns the updated state
func (p *Policy) Grant(kind domain.TriggerKind, state domain.UserSpinState) (domain.UserSpinState, error) {
	out := state.Clone()
	switch kind {
	case domain.TriggerFirstTime:
		out.FirstTimeGranted++
	case domain.TriggerRandom:
		now := p.clock.Now()
		out.LastRandomGrant = &now
	case domain.TriggerThreshold:
		if out.ThresholdSpins <= 0 {
			return state, domain.ErrNoSpinsAvailable
		}
		out.ThresholdSpins--
	default:
		return state, fmt.Errorf("%w: %q", domain.ErrUnknownTrigger, kind)
	}
	return out, nil
}

// SpinsRemaining counts spins the user holds without further sampling or spend
func SpinsRemaining(state domain.UserSpinState, cfg domain.TriggerConfig) int {
	remaining := 0
	if cfg.FirstTime.Enabled && state.FirstTimeGranted < cfg.FirstTime.SpinsPerUser {
		remaining += cfg.FirstTime.SpinsPerUser - state.FirstTimeGranted
	}
	if cfg.Threshold.Enabled && state.ThresholdSpins > 0 {
		remaining += state.ThresholdSpins
	}
	return remaining
}

// AccrueSpend adds spend toward every active threshold and returns the updated state and the spins awarded.
// Thresholds are walked by ascending spending amount. Each tracks spend since its own last grant.
// A repeatable threshold fires once per whole multiple of its amount and carries the remainder;
// a zero-amount one fires once per accrual. A threshold that already fired is skipped unless it is repeatable.
func AccrueSpend(state domain.UserSpinState, cfg domain.ThresholdTrigger, amount decimal.Decimal) (domain.UserSpinState, int) {
	if !cfg.Enabled || !amount.IsPositive() {
		return state, 0
	}

	out := state.Clone()
	if out.Thresholds == nil {
		out.Thresholds = make(map[string]domain.ThresholdProgress)
	}

	thresholds := make([]domain.SpendThreshold, 0, len(cfg.Thresholds))
	for _, th := range cfg.Thresholds {
		if th.Active {
			thresholds = append(thresholds, th)
		}
	}
	sort.SliceStable(thresholds, func(i, j int) bool {
		return thresholds[i].SpendingAmount < thresholds[j].SpendingAmount
	})

	awarded := 0
	for _, th := range thresholds {
		progress := out.Thresholds[th.ID]
		if progress.TimesFired > 0 && !th.Repeatable {
			continue
		}

		target := decimal.NewFromFloat(th.SpendingAmount)
		progress.Spend = progress.Spend.Add(amount)
		for progress.Spend.GreaterThanOrEqual(target) {
			awarded += th.SpinsAwarded
			progress.TimesFired++
			if !th.Repeatable || !target.IsPositive() {
				progress.Spend = decimal.Zero
				break
			}
			progress.Spend = progress.Spend.Sub(target)
		}
		out.Thresholds[th.ID] = progress
	}

	out.ThresholdSpins += awarded
	return out, awarded
}
