package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TriggerKind names one of the three trigger policies
type TriggerKind string

const (
	TriggerFirstTime TriggerKind = "first_time"
	TriggerRandom    TriggerKind = "random"
	TriggerThreshold TriggerKind = "threshold"
)

// Valid reports whether the kind is known
func (k TriggerKind) Valid() bool {
	switch k {
	case TriggerFirstTime, TriggerRandom, TriggerThreshold:
		return true
	}
	return false
}

// SpinOutcome is issued by the authority for one spin. Clients only reference it by SpinID.
type SpinOutcome struct {
	SpinID      string       `json:"spinId"`
	UserID      string       `json:"userId,omitempty"`
	RewardID    int          `json:"rewardId"`
	Amount      float64      `json:"amount"`
	Type        CurrencyType `json:"type"`
	Rarity      Rarity       `json:"rarity"`
	Description string       `json:"description"`
	Trigger     TriggerKind  `json:"trigger,omitempty"`
	IssuedAt    time.Time    `json:"issuedAt"`
	ClaimedAt   *time.Time   `json:"claimedAt,omitempty"`
}

// IsClaimed reports whether the outcome has been finalized
func (o SpinOutcome) IsClaimed() bool {
	return o.ClaimedAt != nil
}

// SpinContext carries the request parameters of a spin
type SpinContext struct {
	Trigger TriggerKind `json:"trigger" validate:"required,trigger"`
}

// SpinResponse is what the authority returns for a spin request
type SpinResponse struct {
	SpinResult     SpinOutcome `json:"spinResult"`
	SpinsRemaining int         `json:"spinsRemaining"`
}

// Balances are a user's wallet balances
type Balances struct {
	GoldCoins  decimal.Decimal `json:"goldCoins"`
	SweepCoins decimal.Decimal `json:"sweepCoins"`
}

// Credit returns the balances with amount added to the given currency
func (b Balances) Credit(currency CurrencyType, amount decimal.Decimal) Balances {
	switch currency {
	case CurrencyGC:
		b.GoldCoins = b.GoldCoins.Add(amount)
	case CurrencySC:
		b.SweepCoins = b.SweepCoins.Add(amount)
	}
	return b
}

// ClaimAck acknowledges a claim
type ClaimAck struct {
	SpinID         string    `json:"spinId"`
	ClaimedAt      time.Time `json:"claimedAt"`
	Balances       *Balances `json:"balances,omitempty"`
	SpinsRemaining *int      `json:"spinsRemaining,omitempty"`
	AlreadyClaimed bool      `json:"alreadyClaimed,omitempty"`
}

// UserSpinState is the trigger bookkeeping the authority keeps per user
type UserSpinState struct {
	UserID           string                       `json:"userId"`
	FirstTimeGranted int                          `json:"firstTimeGranted"`
	LastRandomGrant  *time.Time                   `json:"lastRandomGrant,omitempty"`
	ThresholdSpins   int                          `json:"thresholdSpins"`
	Thresholds       map[string]ThresholdProgress `json:"thresholds,omitempty"`
}

// ThresholdProgress tracks spend toward one threshold since its last grant
type ThresholdProgress struct {
	Spend      decimal.Decimal `json:"spend"`
	TimesFired int             `json:"timesFired"`
}

// Clone returns a deep copy of the state
func (s UserSpinState) Clone() UserSpinState {
	out := s
	if s.LastRandomGrant != nil {
		t := *s.LastRandomGrant
		out.LastRandomGrant = &t
	}
	if s.Thresholds != nil {
		out.Thresholds = make(map[string]ThresholdProgress, len(s.Thresholds))
		for k, v := range s.Thresholds {
			out.Thresholds[k] = v
		}
	}
	return out
}

// SpinStateView is the eligibility summary shown to a user
type SpinStateView struct {
	UserID         string        `json:"userId"`
	Eligible       []TriggerKind `json:"eligible"`
	SpinsRemaining int           `json:"spinsRemaining"`
	NextRandomAt   *time.Time    `json:"nextRandomAt,omitempty"`
	Unclaimed      []string      `json:"unclaimed,omitempty"`
}

// SpendRequest reports spend toward the threshold trigger
type SpendRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SpendResult is returned after spend has been recorded
type SpendResult struct {
	SpinsAwarded   int `json:"spinsAwarded"`
	SpinsRemaining int `json:"spinsRemaining"`
}
