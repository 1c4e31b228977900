package rewardservice

import "time"

// HTTP headers
const (
	HeaderAPIKey      = "X-API-Key"
	HeaderUserID      = "X-User-ID"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Routes of the authority API
const (
	PathConfig         = "/api/v1/wheel/config"
	PathConfigValidate = "/api/v1/wheel/config/validate"
	PathState          = "/api/v1/wheel/state"
	PathSpin           = "/api/v1/wheel/spin"
	PathClaimFmt       = "/api/v1/wheel/spins/%s/claim"
	PathSpend          = "/api/v1/wheel/spend"
	PathWallet         = "/api/v1/wallet"
)

// Error codes carried in error responses
const (
	CodeWheelInactive      = "wheel_inactive"
	CodeNoActiveRewards    = "no_active_rewards"
	CodeNotEligible        = "not_eligible"
	CodeNoSpins            = "no_spins"
	CodeUnknownTrigger     = "unknown_trigger"
	CodeOnCooldown         = "on_cooldown"
	CodeConfigConflict     = "config_conflict"
	CodeConfigNotFound     = "config_not_found"
	CodeSpinNotFound       = "spin_not_found"
	CodeAlreadyClaimed     = "already_claimed"
	CodeNotClaimable       = "not_claimable"
	CodeInvalidInput       = "invalid_input"
	CodeUserRequired       = "user_required"
	CodeServiceUnavailable = "unavailable"
	CodeInternal           = "internal"
)

const (
	// DefaultTimeout bounds a single request to the authority
	DefaultTimeout = 5 * time.Second

	maxErrorBody = 64 << 10
)

// Log messages
const (
	LogMsgRequestFailed = "Authority request failed"
	LogMsgErrorResponse = "Authority returned error"
)
