// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Значения по умолчанию
const (
	DefaultPartyRoles    = "@listeningparty"
	DefaultCatalogHost   = "open.spotify.com"
	DefaultSweepSchedule = "@every 15m"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Telegram
	BotToken       string
	AdminUsernames []string

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	CatalogHost         string
	FetchTimeout        time.Duration

	// Party
	PartyRoles       []string
	RegistryCapacity int
	PartyRetention   time.Duration
	SweepSchedule    string

	// Worker pool
	WorkerCount     int
	WorkerQueueSize int

	// Middleware
	RateLimitRequests int
	RateLimitWindow   time.Duration
	DebounceInterval  time.Duration

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string
	LogPath  string

	// HTTP Client
	HTTPClientConfig HTTPClientConfig

	// Retry
	RetryConfig RetryConfig
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
	Timeout               time.Duration
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	config := &Config{
		BotToken:            getEnv("BOT_TOKEN", ""),
		AdminUsernames:      getEnvList("ADMIN_USERNAMES", ""),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		CatalogHost:         getEnv("CATALOG_HOST", DefaultCatalogHost),
		FetchTimeout:        getEnvDuration("FETCH_TIMEOUT", 20*time.Second),
		PartyRoles:          getEnvList("PARTY_ROLES", DefaultPartyRoles),
		RegistryCapacity:    getEnvInt("REGISTRY_CAPACITY", 1000),
		PartyRetention:      getEnvDuration("PARTY_RETENTION", 24*time.Hour),
		SweepSchedule:       getEnv("SWEEP_SCHEDULE", DefaultSweepSchedule),
		WorkerCount:         getEnvInt("WORKER_COUNT", 4),
		WorkerQueueSize:     getEnvInt("WORKER_QUEUE_SIZE", 64),
		RateLimitRequests:   getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		DebounceInterval:    getEnvDuration("DEBOUNCE_INTERVAL", time.Second),
		HealthPort:          getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled:  getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPath:             getEnv("LOG_PATH", ""),
		HTTPClientConfig: HTTPClientConfig{
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
			Timeout:               getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		},
		RetryConfig: RetryConfig{
			MaxRetries:        getEnvInt("RETRY_MAX_RETRIES", 3),
			InitialDelay:      getEnvDuration("RETRY_INITIAL_DELAY", 1*time.Second),
			MaxDelay:          getEnvDuration("RETRY_MAX_DELAY", 30*time.Second),
			BackoffMultiplier: getEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.SpotifyClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}

	if c.SpotifyClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}

	if len(c.PartyRoles) == 0 {
		return fmt.Errorf("PARTY_ROLES must contain at least one role")
	}

	if c.CatalogHost == "" || strings.ContainsAny(c.CatalogHost, "/ ") {
		return fmt.Errorf("CATALOG_HOST must be a bare host name, got %q", c.CatalogHost)
	}

	if c.RegistryCapacity <= 0 {
		return fmt.Errorf("REGISTRY_CAPACITY must be positive")
	}

	if c.PartyRetention < 0 {
		return fmt.Errorf("PARTY_RETENTION must not be negative")
	}

	if c.WorkerCount <= 0 || c.WorkerQueueSize <= 0 {
		return fmt.Errorf("WORKER_COUNT and WORKER_QUEUE_SIZE must be positive")
	}

	if c.HealthCheckEnabled {
		port, err := strconv.Atoi(c.HealthPort)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("HEALTH_PORT must be a valid port, got %q", c.HealthPort)
		}
	}

	if c.RetryConfig.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX_RETRIES must not be negative")
	}

	return nil
}

// IsAdmin проверяет, входит ли пользователь в список администраторов.
// Пустой список означает, что ограничений нет.
func (c *Config) IsAdmin(username string) bool {
	if len(c.AdminUsernames) == 0 {
		return true
	}
	username = strings.TrimPrefix(username, "@")
	for _, admin := range c.AdminUsernames {
		if strings.EqualFold(strings.TrimPrefix(admin, "@"), username) {
			return true
		}
	}
	return false
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList получает переменную окружения как список через запятую
func getEnvList(key, defaultValue string) []string {
	return splitList(getEnv(key, defaultValue))
}

// splitList разбивает строку по запятым, пустые элементы отбрасываются
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
