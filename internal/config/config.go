package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the authority server configuration
type Config struct {
	Port          int
	ServiceName   string
	Version       string
	LogLevel      string
	LogFormat     string
	Environment   string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int
	DBMaxConnIdle time.Duration
	DBMaxConnLife time.Duration
	APIKey        string // API key for authentication

	// Store selects the wheel repository backend: "postgres" or "memory"
	Store          string
	TrustedProxies []string
	LogDir         string
	SeedConfigPath string

	ConfigCacheTTL          time.Duration
	DeadLetterPath          string
	EventMaxRetries         int
	EventRetryDelay         time.Duration
	WorkerCount             int
	UnclaimedReportInterval time.Duration
}

// ClientConfig holds the settings of a spin client session
type ClientConfig struct {
	AuthorityURL     string
	APIKey           string
	UserID           string
	RequestTimeout   time.Duration
	SpinDuration     time.Duration
	RevealOffset     time.Duration
	FullRotations    int
	PointerOffsetDeg float64
	JitterRatio      float64
	ClaimRetryDelay  time.Duration
	LogLevel         string
	LogFormat        string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:   DefaultServiceName,
		Version:       getEnv(EnvVersion, DefaultVersion),
		LogLevel:      getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:     getEnv(EnvLogFormat, DefaultLogFormat),
		Environment:   getEnv(EnvEnvironment, DefaultEnvironment),
		DBUser:        getEnv(EnvDBUser, "postgres"),
		DBPassword:    getEnv(EnvDBPassword, "postgres"),
		DBHost:        getEnv(EnvDBHost, "localhost"),
		DBPort:        getEnv(EnvDBPort, "5432"),
		DBName:        getEnv(EnvDBName, "spinwheel"),
		DBMaxConns:    getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdle: getEnvAsDuration(EnvDBMaxConnIdle, DefaultDBMaxConnIdle),
		DBMaxConnLife: getEnvAsDuration(EnvDBMaxConnLife, DefaultDBMaxConnLife),
		APIKey:        getEnv(EnvAPIKey, ""),

		Store:          strings.ToLower(getEnv(EnvStore, StorePostgres)),
		TrustedProxies: splitList(getEnv(EnvTrustedProxies, "")),
		LogDir:         getEnv(EnvLogDir, DefaultLogDir),
		SeedConfigPath: getEnv(EnvSeedConfigPath, DefaultSeedConfigPath),

		ConfigCacheTTL:          getEnvAsDuration(EnvConfigCacheTTL, DefaultConfigCacheTTL),
		DeadLetterPath:          getEnv(EnvDeadLetterPath, DefaultDeadLetterPath),
		EventMaxRetries:         getEnvAsInt(EnvEventMaxRetries, DefaultEventMaxRetries),
		EventRetryDelay:         getEnvAsDuration(EnvEventRetryDelay, DefaultEventRetryDelay),
		WorkerCount:             getEnvAsInt(EnvWorkerCount, DefaultWorkerCount),
		UnclaimedReportInterval: getEnvAsDuration(EnvUnclaimedEvery, DefaultUnclaimedReport),
	}
	if cfg.Store == "" {
		cfg.Store = StorePostgres
	}
	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return nil, fmt.Errorf("invalid %s value %q: expected %s or %s", EnvStore, cfg.Store, StorePostgres, StoreMemory)
	}

	portStr := getEnv(EnvPort, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// LoadClient loads the spin client configuration from environment variables
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{
		AuthorityURL:     getEnv(EnvAuthorityURL, DefaultAuthorityURL),
		APIKey:           getEnv(EnvAPIKey, ""),
		UserID:           getEnv(EnvUserID, ""),
		RequestTimeout:   getEnvAsDuration(EnvRequestTimeout, DefaultRequestTimeout),
		SpinDuration:     getEnvAsDuration(EnvSpinDuration, DefaultSpinDuration),
		RevealOffset:     getEnvAsDuration(EnvRevealOffset, DefaultRevealOffset),
		FullRotations:    getEnvAsInt(EnvFullRotations, DefaultFullRotations),
		PointerOffsetDeg: getEnvAsFloat(EnvPointerOffsetDeg, DefaultPointerOffsetDeg),
		JitterRatio:      getEnvAsFloat(EnvJitterRatio, DefaultJitterRatio),
		ClaimRetryDelay:  getEnvAsDuration(EnvClaimRetryDelay, DefaultClaimRetryDelay),
		LogLevel:         getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:        getEnv(EnvLogFormat, DefaultLogFormat),
	}

	if cfg.UserID == "" {
		return nil, fmt.Errorf("%s environment variable must be set", EnvUserID)
	}
	if cfg.RevealOffset < 0 || cfg.RevealOffset >= cfg.SpinDuration {
		return nil, fmt.Errorf("%s must be in [0, %s)", EnvRevealOffset, cfg.SpinDuration)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UsesPostgres reports whether the authority persists to Postgres
func (c *Config) UsesPostgres() bool {
	return c.Store == StorePostgres
}

// getEnvAsInt parses an integer environment variable, falling back on parse failure
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsFloat parses a float environment variable, falling back on parse failure
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getEnvAsDuration parses a Go duration string, falling back on parse failure
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
