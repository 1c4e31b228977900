package handler

// Generic HTTP error messages for client responses.
// Server-side failures never expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingSpinID         = "Missing spin ID"
	ErrMsgUserIDTooLong         = "User ID is too long"

	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."
	ErrMsgOnCooldownError    = "Action is on cooldown. Try again later"
)

// Request limits
const (
	MaxUserIDLength = 128
)

// Log messages
const (
	LogMsgServiceError     = "Service call failed"
	LogMsgServiceRejection = "Service rejected request"
	LogMsgDecodeFailed     = "Failed to decode %s request"
	LogMsgRequestDecoded   = "%s request decoded"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
)

// Operation names used in logs
const (
	OpGetConfig      = "Get config"
	OpUpdateConfig   = "Update config"
	OpValidateConfig = "Validate config"
	OpGetSpinState   = "Get spin state"
	OpRequestSpin    = "Request spin"
	OpClaimSpin      = "Claim spin"
	OpRecordSpend    = "Record spend"
	OpGetWallet      = "Get wallet"
)
