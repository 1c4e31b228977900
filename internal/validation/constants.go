package validation

// Probability invariant
const (
	// TargetProbability is the sum active reward probabilities must reach
	TargetProbability = 100
	// ProbabilityTolerance is the allowed deviation from TargetProbability
	ProbabilityTolerance = 0.1
)

// Issue message formats. Each rule produces its own message.
const (
	IssueFmtTotalProbability    = "total probability of active rewards is %s%%, expected %d%% (tolerance %s)"
	IssueFmtNegativeProbability = "reward %d has negative probability %s"
	IssueFmtDuplicateRewardID   = "duplicate reward id %d"
	IssueNoActiveRewards        = "wheel is active but no rewards are active"
	IssueFmtDuplicateThreshold  = "duplicate threshold id %q"
	IssueFmtField               = "%s: %s"
)

// Custom validator tags
const (
	TagCurrency = "currency"
	TagRarity   = "rarity"
	TagTrigger  = "trigger"
)
