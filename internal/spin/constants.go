package spin

// Log messages
const (
	LogMsgSpinFallback      = "Spin request failed, falling back to display-only spin"
	LogMsgUnknownReward     = "Outcome reward is not on the displayed wheel"
	LogMsgStateRefreshFail  = "Failed to refresh spin state"
	LogMsgWalletRefreshFail = "Failed to load wallet"
	LogMsgClaimFailed       = "Claim failed after reveal"
	LogMsgPublishFailed     = "Failed to publish session event"
	LogMsgSessionClosed     = "Spin session closed"
)
