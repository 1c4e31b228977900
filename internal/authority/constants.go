package authority

import "time"

// ============================================================================
// Config Cache
// ============================================================================

const (
	// DefaultConfigCacheTTL bounds how stale a cached config may get when another
	// authority instance saves a new version
	DefaultConfigCacheTTL = 30 * time.Second

	// configCacheSize is one: the config is a singleton document
	configCacheSize = 1

	// configCacheKey is the only key stored in the cache
	configCacheKey = "wheel_config"
)

// ============================================================================
// Jobs
// ============================================================================

// JobNameUnclaimedReport names the job that refreshes the unclaimed spins gauge
const JobNameUnclaimedReport = "unclaimed_spins_report"

// ============================================================================
// Sampling
// ============================================================================

// percentScale converts a roll in [0,1) to the percent scale of trigger probabilities
const percentScale = 100

// ============================================================================
// Error Context Messages
// ============================================================================

const (
	ErrContextFailedToLoadConfig    = "failed to load config"
	ErrContextFailedToSaveConfig    = "failed to save config"
	ErrContextFailedToRoll          = "failed to draw random number"
	ErrContextFailedToIssueSpin     = "failed to issue spin"
	ErrContextFailedToClaimSpin     = "failed to claim spin"
	ErrContextFailedToRecordSpend   = "failed to record spend"
	ErrContextFailedToLoadState     = "failed to load spin state"
	ErrContextFailedToCountUnclaim  = "failed to count unclaimed spins"
	ErrContextFailedToCommit        = "failed to commit"
	ErrContextFailedToCheckCooldown = "failed to check roll cooldown"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgConfigSaved         = "Wheel config saved"
	LogMsgConfigInvalid       = "Wheel config saved with validation issues"
	LogMsgSpinIssued          = "Spin issued"
	LogMsgSpinRejected        = "Spin request rejected"
	LogMsgRandomRoll          = "Random trigger rolled"
	LogMsgSpinClaimed         = "Spin claimed"
	LogMsgSpendRecorded       = "Spend recorded"
	LogMsgUnclaimedReported   = "Unclaimed spins reported"
	LogMsgSpinsRemainingStale = "Could not compute spins remaining after claim"
)
