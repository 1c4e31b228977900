package domain

import (
	"fmt"
	"strings"
)

// CurrencyType identifies which balance a reward is paid into
type CurrencyType string

const (
	// CurrencyGC is Gold Coins, used for casual play
	CurrencyGC CurrencyType = "GC"
	// CurrencySC is Sweep Coins, redeemable
	CurrencySC CurrencyType = "SC"
)

// Valid reports whether the currency is one of the known types
func (c CurrencyType) Valid() bool {
	return c == CurrencyGC || c == CurrencySC
}

// Rarity is an ordered scarcity tier used for display.
// It is independent of the numeric probability of a reward.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityTopReward Rarity = "top_reward"
)

// rarityOrder lists tiers from most to least common
var rarityOrder = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
	RarityTopReward,
}

// Rank returns the position of the rarity in the tier ordering, or -1 if unknown
func (r Rarity) Rank() int {
	for i, tier := range rarityOrder {
		if tier == r {
			return i
		}
	}
	return -1
}

// Valid reports whether the rarity is a known tier
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// Less reports whether r is a more common tier than other
func (r Rarity) Less(other Rarity) bool {
	return r.Rank() < other.Rank()
}

// Rarities returns every known tier in ascending order
func Rarities() []Rarity {
	out := make([]Rarity, len(rarityOrder))
	copy(out, rarityOrder)
	return out
}

// ParseRarity converts a string into a Rarity, accepting any case
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rarity %q", ErrInvalidInput, s)
	}
	return r, nil
}

// Reward is one entry of the wheel catalog
type Reward struct {
	ID          int          `json:"id"`
	Amount      float64      `json:"amount" validate:"gte=0"`
	Type        CurrencyType `json:"type" validate:"required,currency"`
	Rarity      Rarity       `json:"rarity" validate:"required,rarity"`
	Probability float64      `json:"probability" validate:"lte=100"`
	Description string       `json:"description"`
	Active      bool         `json:"active"`
}

// FirstTimeTrigger grants spins to users who have not spun before
type FirstTimeTrigger struct {
	Enabled      bool `json:"enabled"`
	SpinsPerUser int  `json:"spinsPerUser" validate:"gte=0"`
}

// RandomTrigger lets the authority grant a spin at random, at most once per cooldown window
type RandomTrigger struct {
	Enabled       bool    `json:"enabled"`
	Probability   float64 `json:"probability" validate:"gte=0,lte=100"`
	CooldownHours int     `json:"cooldownHours" validate:"gte=0"`
}

// SpendThreshold awards spins once a user's spend reaches SpendingAmount.
// A threshold fires once ever unless Repeatable is set, in which case spend
// beyond the amount counts toward the next grant.
type SpendThreshold struct {
	ID             string  `json:"id" validate:"required"`
	SpendingAmount float64 `json:"spendingAmount" validate:"gte=0"`
	SpinsAwarded   int     `json:"spinsAwarded" validate:"gte=1"`
	Active         bool    `json:"active"`
	Repeatable     bool    `json:"repeatable"`
}

// ThresholdTrigger holds the spend thresholds
type ThresholdTrigger struct {
	Enabled    bool             `json:"enabled"`
	Thresholds []SpendThreshold `json:"thresholds" validate:"dive"`
}

// TriggerConfig groups the three independent trigger policies
type TriggerConfig struct {
	FirstTime FirstTimeTrigger `json:"firstTime"`
	Random    RandomTrigger    `json:"random"`
	Threshold ThresholdTrigger `json:"threshold"`
}

// Config is the whole wheel configuration document. It is replaced as one object.
// Version is assigned by the authority on every save.
type Config struct {
	IsActive bool          `json:"isActive"`
	Rewards  []Reward      `json:"rewards" validate:"dive"`
	Triggers TriggerConfig `json:"triggers"`
	Version  int64         `json:"version,omitempty"`
}

// ActiveRewards returns the active rewards in catalog order.
// This is the list the wheel displays, one segment per reward.
func (c Config) ActiveRewards() []Reward {
	out := make([]Reward, 0, len(c.Rewards))
	for _, r := range c.Rewards {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// FindReward returns the reward with the given id, active or not
func (c Config) FindReward(id int) (Reward, bool) {
	for _, r := range c.Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// Clone returns a deep copy of the config
func (c Config) Clone() Config {
	out := c
	out.Rewards = append([]Reward(nil), c.Rewards...)
	out.Triggers.Threshold.Thresholds = append([]SpendThreshold(nil), c.Triggers.Threshold.Thresholds...)
	return out
}

// ValidationResult is the report produced by the validation engine
type ValidationResult struct {
	Valid            bool     `json:"valid"`
	Issues           []string `json:"issues"`
	TotalProbability float64  `json:"totalProbability"`
}

// UpdateConfigResult is returned by a config save
type UpdateConfigResult struct {
	Config     Config           `json:"config"`
	Validation ValidationResult `json:"validation"`
}
