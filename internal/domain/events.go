package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "spin.revealed")
const (
	// EventTypeSpinIssued is published by the authority when it issues an outcome
	EventTypeSpinIssued = "spin.issued"

	// EventTypeSpinRevealed is published by a session when the wheel reveals a result
	EventTypeSpinRevealed = "spin.revealed"

	// EventTypeSpinSettled is published by a session when the wheel stops
	EventTypeSpinSettled = "spin.settled"

	// EventTypeSpinClaimed is published once per spin after a successful claim
	EventTypeSpinClaimed = "spin.claimed"

	// EventTypeClaimFailed is published when a claim fails after its retry
	EventTypeClaimFailed = "claim.failed"

	// EventTypeSpinsUpdated is published when the remaining spin count changes
	EventTypeSpinsUpdated = "spins.updated"

	// EventTypeConfigUpdated is published by the authority after a config save
	EventTypeConfigUpdated = "config.updated"

	// EventTypeSpendRecorded is published by the authority after threshold spend is recorded
	EventTypeSpendRecorded = "spend.recorded"
)
