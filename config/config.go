package config

import (
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the claimer
type Config struct {
	API       APIConfig     `json:"api"`
	Handshake RetryConfig   `json:"handshake_retry"`
	Rewards   RetryConfig   `json:"reward_retry"`
	Batch     BatchConfig   `json:"batch"`
	Storage   StorageConfig `json:"storage"`
	Logging   LoggingConfig `json:"logging"`
	Proxy     string        `json:"proxy"`
	Metrics   string        `json:"metrics_file"`
	Events    string        `json:"events"` // "" or "redis"
}

// APIConfig holds the remote endpoints and request parameters
type APIConfig struct {
	WalletsBaseURL  string        `json:"wallets_base_url"`
	IdentityBaseURL string        `json:"identity_base_url"`
	BaseURL         string        `json:"base_url"`
	ProjectID       string        `json:"project_id"`
	ChainID         string        `json:"chain_id"`
	Entries         int           `json:"entries"`
	ReferralCode    string        `json:"referral_code"`
	Origin          string        `json:"origin"`
	UserAgent       string        `json:"user_agent"`
	Timeout         time.Duration `json:"timeout"`
}

// RetryConfig is an attempt budget with a base delay.
// MaxDelay caps exponential growth and Retry-After hints.
type RetryConfig struct {
	Attempts int           `json:"attempts"`
	Delay    time.Duration `json:"delay"`
	MaxDelay time.Duration `json:"max_delay"`
}

// BatchConfig holds multi-account processing settings
type BatchConfig struct {
	AccountDelay DelayRange `json:"account_delay"`
}

// StorageConfig selects where credentials and key lists live
type StorageConfig struct {
	Backend      string `json:"backend"` // "file" or "redis"
	AccountsFile string `json:"accounts_file"`
	KeysFile     string `json:"keys_file"`
	RedisURL     string `json:"redis_url"`
	RedisKey     string `json:"redis_key"`
}

// LoggingConfig holds logging and status output configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Environment string `json:"environment"`
	Timezone    string `json:"timezone"`
}

// DelayRange is a closed interval to draw pauses from
type DelayRange struct {
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
}

// RandomDelay returns a uniformly distributed delay within the range
func (r DelayRange) RandomDelay(rng *rand.Rand) time.Duration {
	delta := r.Max - r.Min
	if delta <= 0 {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(delta)+1))
}

// Default returns the configuration without consulting the environment
func Default() *Config {
	return &Config{
		API: APIConfig{
			WalletsBaseURL:  "https://api.web3modal.org",
			IdentityBaseURL: "https://rpc.walletconnect.org/v1",
			BaseURL:         "https://api.x.ink/v1",
			ProjectID:       "7f8bd096752366cf84c52aa43f99504b",
			ChainID:         "eip155:42161",
			Entries:         4,
			Origin:          "https://x.ink",
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
			Timeout:         60 * time.Second,
		},
		Handshake: RetryConfig{Attempts: 3, Delay: 2 * time.Second, MaxDelay: 30 * time.Second},
		Rewards:   RetryConfig{Attempts: 3, Delay: 2 * time.Second},
		Batch: BatchConfig{
			AccountDelay: DelayRange{Min: 15 * time.Second, Max: 30 * time.Second},
		},
		Storage: StorageConfig{
			Backend:      "file",
			AccountsFile: "account.txt",
			KeysFile:     "private_keys.txt",
			RedisURL:     "redis://localhost:6379/0",
			RedisKey:     "xosclaim:accounts",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Environment: "development",
			Timezone:    "Asia/Jakarta",
		},
	}
}

// Load reads an optional .env file and overrides defaults from the environment
func Load() *Config {
	// A missing .env is fine
	_ = godotenv.Load()

	d := Default()
	return &Config{
		API: APIConfig{
			WalletsBaseURL:  getEnv("XOS_WALLETS_URL", d.API.WalletsBaseURL),
			IdentityBaseURL: getEnv("XOS_IDENTITY_URL", d.API.IdentityBaseURL),
			BaseURL:         getEnv("XOS_API_URL", d.API.BaseURL),
			ProjectID:       getEnv("XOS_PROJECT_ID", d.API.ProjectID),
			ChainID:         getEnv("XOS_CHAIN_ID", d.API.ChainID),
			Entries:         getIntEnv("XOS_WALLET_ENTRIES", d.API.Entries),
			ReferralCode:    getEnv("XOS_REFERRAL_CODE", d.API.ReferralCode),
			Origin:          getEnv("XOS_ORIGIN", d.API.Origin),
			UserAgent:       getEnv("XOS_USER_AGENT", d.API.UserAgent),
			Timeout:         getDurationEnv("XOS_HTTP_TIMEOUT", d.API.Timeout),
		},
		Handshake: RetryConfig{
			Attempts: getIntEnv("XOS_HANDSHAKE_ATTEMPTS", d.Handshake.Attempts),
			Delay:    getDurationEnv("XOS_HANDSHAKE_DELAY", d.Handshake.Delay),
			MaxDelay: getDurationEnv("XOS_HANDSHAKE_MAX_DELAY", d.Handshake.MaxDelay),
		},
		Rewards: RetryConfig{
			Attempts: getIntEnv("XOS_REWARD_ATTEMPTS", d.Rewards.Attempts),
			Delay:    getDurationEnv("XOS_REWARD_DELAY", d.Rewards.Delay),
		},
		Batch: BatchConfig{
			AccountDelay: DelayRange{
				Min: getDurationEnv("XOS_ACCOUNT_DELAY_MIN", d.Batch.AccountDelay.Min),
				Max: getDurationEnv("XOS_ACCOUNT_DELAY_MAX", d.Batch.AccountDelay.Max),
			},
		},
		Storage: StorageConfig{
			Backend:      getEnv("XOS_STORE", d.Storage.Backend),
			AccountsFile: getEnv("XOS_ACCOUNTS_FILE", d.Storage.AccountsFile),
			KeysFile:     getEnv("XOS_KEYS_FILE", d.Storage.KeysFile),
			RedisURL:     getEnv("REDIS_URL", d.Storage.RedisURL),
			RedisKey:     getEnv("XOS_REDIS_KEY", d.Storage.RedisKey),
		},
		Logging: LoggingConfig{
			Level:       getEnv("XOS_LOG_LEVEL", d.Logging.Level),
			Environment: getEnv("XOS_LOG_ENV", d.Logging.Environment),
			Timezone:    getEnv("XOS_TIMEZONE", d.Logging.Timezone),
		},
		Proxy:   getEnv("XOS_PROXY", ""),
		Metrics: getEnv("XOS_METRICS_FILE", ""),
		Events:  getEnv("XOS_EVENTS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
