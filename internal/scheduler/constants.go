package scheduler

// Log messages
const (
	LogMsgJobFailed       = "Scheduled job failed"
	LogMsgSchedulerClosed = "Scheduler closed"
)
