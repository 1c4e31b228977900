package claim

import "time"

const (
	// DefaultRetryDelay is the pause before the single retry of a transient failure
	DefaultRetryDelay = 750 * time.Millisecond
	// MaxRetries is the number of retries after the first attempt
	MaxRetries = 1
)

// Log messages
const (
	LogMsgClaimRetry          = "Claim failed, retrying"
	LogMsgClaimFailed         = "Claim failed"
	LogMsgClaimSucceeded      = "Spin claimed"
	LogMsgAlreadyClaimed      = "Spin was already claimed"
	LogMsgCreditRefreshFailed = "Wallet refresh after claim failed"
	LogMsgPublishFailed       = "Failed to publish claim event"
)
