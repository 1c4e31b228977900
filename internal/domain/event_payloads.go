package domain

import "time"

// ResolvedOption is what the presentation receives at reveal time
type ResolvedOption struct {
	Index       int          `json:"index"`
	RewardID    int          `json:"rewardId"`
	Label       string       `json:"label"`
	Amount      float64      `json:"amount"`
	Type        CurrencyType `json:"type"`
	Rarity      Rarity       `json:"rarity"`
	Description string       `json:"description"`
	SpinID      string       `json:"spinId,omitempty"`
	// Fallback marks a display-only result with no server-confirmed outcome
	Fallback bool `json:"fallback"`
}

// Claimable reports whether the option refers to a real outcome
func (o ResolvedOption) Claimable() bool {
	return !o.Fallback && o.SpinID != ""
}

// SpinIssuedPayload is the payload for spin.issued events
type SpinIssuedPayload struct {
	SpinID    string      `json:"spin_id"`
	UserID    string      `json:"user_id"`
	RewardID  int         `json:"reward_id"`
	Trigger   TriggerKind `json:"trigger"`
	Timestamp int64       `json:"timestamp"`
}

// SpinSettledPayload is the payload for spin.settled events
type SpinSettledPayload struct {
	Option ResolvedOption `json:"option"`
	Forced bool           `json:"forced"`
}

// SpinClaimedPayload is the payload for spin.claimed events
type SpinClaimedPayload struct {
	SpinID         string       `json:"spin_id"`
	Type           CurrencyType `json:"type"`
	Amount         float64      `json:"amount"`
	AlreadyClaimed bool         `json:"already_claimed"`
	ClaimedAt      time.Time    `json:"claimed_at"`
}

// ClaimFailedPayload is the payload for claim.failed events
type ClaimFailedPayload struct {
	SpinID string `json:"spin_id"`
	Error  string `json:"error"`
}

// SpinsUpdatedPayload is the payload for spins.updated events
type SpinsUpdatedPayload struct {
	SpinsRemaining int `json:"spins_remaining"`
}

// ConfigUpdatedPayload is the payload for config.updated events
type ConfigUpdatedPayload struct {
	Version int64 `json:"version"`
	Valid   bool  `json:"valid"`
}

// SpendRecordedPayload is the payload for spend.recorded events
type SpendRecordedPayload struct {
	UserID       string `json:"user_id"`
	Amount       string `json:"amount"`
	SpinsAwarded int    `json:"spins_awarded"`
}
