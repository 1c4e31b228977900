package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Wheel errors
	ErrMsgWheelInactive    = "wheel is not active"
	ErrMsgNoActiveRewards  = "no active rewards"
	ErrMsgNotEligible      = "not eligible to spin"
	ErrMsgNoSpinsAvailable = "no spins available"
	ErrMsgUnknownTrigger   = "unknown trigger"
	ErrMsgConfigConflict   = "config was modified concurrently"
	ErrMsgConfigNotFound   = "config not found"

	// Spin/claim errors
	ErrMsgSpinNotFound   = "spin not found"
	ErrMsgAlreadyClaimed = "spin already claimed"
	ErrMsgNotClaimable   = "outcome is not claimable"

	// Cooldown errors
	ErrMsgOnCooldown = "action on cooldown"

	// Database/System errors
	ErrMsgConnectionTimeout  = "connection timeout"
	ErrMsgDatabaseError      = "database error"
	ErrMsgServiceUnavailable = "service unavailable"
	ErrMsgTxClosed           = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
	ErrMsgUserRequired = "user id is required"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrWheelInactive    = errors.New(ErrMsgWheelInactive)
	ErrNoActiveRewards  = errors.New(ErrMsgNoActiveRewards)
	ErrNotEligible      = errors.New(ErrMsgNotEligible)
	ErrNoSpinsAvailable = errors.New(ErrMsgNoSpinsAvailable)
	ErrUnknownTrigger   = errors.New(ErrMsgUnknownTrigger)
	ErrConfigConflict   = errors.New(ErrMsgConfigConflict)
	ErrConfigNotFound   = errors.New(ErrMsgConfigNotFound)

	ErrSpinNotFound   = errors.New(ErrMsgSpinNotFound)
	ErrAlreadyClaimed = errors.New(ErrMsgAlreadyClaimed)
	ErrNotClaimable   = errors.New(ErrMsgNotClaimable)

	ErrOnCooldown = errors.New(ErrMsgOnCooldown)

	ErrConnectionTimeout  = errors.New(ErrMsgConnectionTimeout)
	ErrDatabaseError      = errors.New(ErrMsgDatabaseError)
	ErrServiceUnavailable = errors.New(ErrMsgServiceUnavailable)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
	ErrUserRequired = errors.New(ErrMsgUserRequired)
)
