package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "authority_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files kept, including the new one
	LogFileRetentionCount = 10
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingAuthority   = "Starting spin wheel authority"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgConfigAuditRegistered          = "Config audit logger registered"
	LogMsgConfigAudit                    = "Wheel config changed"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgUsingMemoryStore   = "Using in-memory wheel store; data is lost on restart"
	LogMsgUsingPostgresStore = "Using Postgres wheel store"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedMigrateDB    = "failed to migrate database"
)

// =============================================================================
// Config Seed
// =============================================================================

const (
	LogMsgSeedingConfig     = "Seeding wheel config from JSON..."
	LogMsgConfigSeeded      = "Wheel config seeded"
	LogMsgConfigPresent     = "Wheel config already stored, seed skipped"
	LogMsgSeedFileMissing   = "No seed config file, wheel stays unconfigured until an admin saves one"
	LogMsgSeedConfigInvalid = "Seeded wheel config has validation issues"

	ErrMsgFailedReadStoredConfig = "failed to read stored wheel config"
	ErrMsgInvalidSeedConfig      = "invalid seed wheel config"
	ErrMsgFailedLoadSeedConfig   = "failed to load seed wheel config"
	ErrMsgFailedSaveSeedConfig   = "failed to save seed wheel config"
)

// =============================================================================
// Workers
// =============================================================================

const (
	// WorkerQueueSize bounds the background job queue
	WorkerQueueSize = 16

	LogMsgJobsScheduled = "Background jobs scheduled"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
)
