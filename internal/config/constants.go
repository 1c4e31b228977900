package config

import "time"

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Server defaults
const (
	DefaultServiceName     = "spinwheel-authority"
	DefaultVersion         = "dev"
	DefaultLogDir          = "logs"
	DefaultSeedConfigPath  = "configs/wheel.json"
	DefaultEventMaxRetries = 5
	DefaultEventRetryDelay = 2 * time.Second
	DefaultWorkerCount     = 2
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultEnvironment     = "dev"
	DefaultDBMaxConns      = 10
	DefaultDBMaxConnIdle   = 5 * time.Minute
	DefaultDBMaxConnLife   = 30 * time.Minute
	DefaultConfigCacheTTL  = 30 * time.Second
	DefaultDeadLetterPath  = "deadletter.jsonl"
	DefaultUnclaimedReport = time.Minute
)

// Client defaults
const (
	DefaultAuthorityURL     = "http://localhost:8080"
	DefaultRequestTimeout   = 5 * time.Second
	DefaultSpinDuration     = 4 * time.Second
	DefaultRevealOffset     = 400 * time.Millisecond
	DefaultFullRotations    = 6
	DefaultPointerOffsetDeg = 0.0
	DefaultJitterRatio      = 0.6
	DefaultClaimRetryDelay  = 750 * time.Millisecond
)

// Environment variable names
const (
	EnvSchemaVersion   = "ENV_SCHEMA_VERSION"
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvEnvironment     = "ENVIRONMENT"
	EnvDBUser          = "DB_USER"
	EnvDBPassword      = "DB_PASSWORD"
	EnvDBHost          = "DB_HOST"
	EnvDBPort          = "DB_PORT"
	EnvDBName          = "DB_NAME"
	EnvDBMaxConns      = "DB_MAX_CONNS"
	EnvDBMaxConnIdle   = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLife   = "DB_MAX_CONN_LIFETIME"
	EnvAPIKey          = "API_KEY"
	EnvConfigCacheTTL  = "WHEEL_CONFIG_CACHE_TTL"
	EnvDeadLetterPath  = "EVENT_DEAD_LETTER_PATH"
	EnvUnclaimedEvery  = "WHEEL_UNCLAIMED_REPORT_INTERVAL"
	EnvVersion         = "VERSION"
	EnvStore           = "WHEEL_STORE"
	EnvTrustedProxies  = "TRUSTED_PROXIES"
	EnvLogDir          = "LOG_DIR"
	EnvSeedConfigPath  = "WHEEL_SEED_CONFIG"
	EnvEventMaxRetries = "EVENT_MAX_RETRIES"
	EnvEventRetryDelay = "EVENT_RETRY_DELAY"
	EnvWorkerCount     = "WORKER_COUNT"

	EnvAuthorityURL     = "SPIN_AUTHORITY_URL"
	EnvUserID           = "SPIN_USER_ID"
	EnvRequestTimeout   = "SPIN_REQUEST_TIMEOUT"
	EnvSpinDuration     = "SPIN_DURATION"
	EnvRevealOffset     = "SPIN_REVEAL_OFFSET"
	EnvFullRotations    = "SPIN_FULL_ROTATIONS"
	EnvPointerOffsetDeg = "SPIN_POINTER_OFFSET_DEG"
	EnvJitterRatio      = "SPIN_JITTER_RATIO"
	EnvClaimRetryDelay  = "SPIN_CLAIM_RETRY_DELAY"
)
