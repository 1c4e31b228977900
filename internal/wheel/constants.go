package wheel

// Log messages
const (
	LogMsgWatchdogSettle = "Wheel settle timer lost, watchdog forced settle"
)
