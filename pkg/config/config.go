package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Directory transports
const (
	TransportSheets = "sheets"
	TransportProxy  = "proxy"
)

// Storage backends
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Directory DirectoryConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Booking   BookingConfig
	Speech    SpeechConfig
	Knowledge KnowledgeConfig
	OTEL      OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Name     string
	Env      string
	LogLevel string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	TrustedProxies []string
}

// DirectoryConfig selects and configures the remote directory transport.
// The transport is fixed for the life of the process.
type DirectoryConfig struct {
	Transport     string
	SheetsExecURL string
	APIKey        string
	ProxyBaseURL  string
	Timeout       time.Duration
	CacheTTL      int
}

// StorageConfig selects where bookings are persisted
type StorageConfig struct {
	Backend     string
	FilePath    string
	BookingsKey string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// BookingConfig holds booking rules
type BookingConfig struct {
	WindowDays int
}

// SpeechConfig holds speech capability settings
type SpeechConfig struct {
	Enabled    bool
	TTSCommand string
	STTCommand string
}

// KnowledgeConfig points at an optional replacement knowledge table
type KnowledgeConfig struct {
	TablePath string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "chikitsamitra"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "127.0.0.1"),
			Port:           getEnvAsInt("SERVER_PORT", 5000),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		},
		Directory: DirectoryConfig{
			Transport:     strings.ToLower(getEnv("DIRECTORY_TRANSPORT", TransportSheets)),
			SheetsExecURL: getEnv("APPS_SCRIPT_EXEC_URL", ""),
			APIKey:        getEnv("APPS_SCRIPT_API_KEY", ""),
			ProxyBaseURL:  getEnv("PROXY_BASE_URL", "http://127.0.0.1:5000"),
			Timeout:       getEnvAsDuration("DIRECTORY_TIMEOUT", 10*time.Second),
			CacheTTL:      getEnvAsInt("DIRECTORY_CACHE_TTL", 0),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
			FilePath:    getEnv("STORAGE_FILE_PATH", "chikitsamitra-store.json"),
			BookingsKey: getEnv("STORAGE_BOOKINGS_KEY", "cm_bookings_v1"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "chikitsamitra"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Booking: BookingConfig{
			WindowDays: getEnvAsInt("BOOKING_WINDOW_DAYS", 30),
		},
		Speech: SpeechConfig{
			Enabled:    getEnvAsBool("SPEECH_ENABLED", true),
			TTSCommand: getEnv("SPEECH_TTS_COMMAND", "espeak"),
			STTCommand: getEnv("SPEECH_STT_COMMAND", ""),
		},
		Knowledge: KnowledgeConfig{
			TablePath: getEnv("KNOWLEDGE_TABLE_PATH", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "chikitsamitra"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == StorageRedis {
		cfg.Redis.Enabled = true
	}
	return cfg, nil
}

// Validate rejects settings the process cannot run with.
// A missing sheets URL is allowed: every directory query then degrades to empty.
func (c *Config) Validate() error {
	switch c.Directory.Transport {
	case TransportSheets:
		if c.Directory.SheetsExecURL != "" {
			if _, err := url.ParseRequestURI(c.Directory.SheetsExecURL); err != nil {
				return fmt.Errorf("invalid APPS_SCRIPT_EXEC_URL: %w", err)
			}
		}
	case TransportProxy:
		if c.Directory.ProxyBaseURL == "" {
			return fmt.Errorf("PROXY_BASE_URL is required for the proxy transport")
		}
		if _, err := url.ParseRequestURI(c.Directory.ProxyBaseURL); err != nil {
			return fmt.Errorf("invalid PROXY_BASE_URL: %w", err)
		}
	default:
		return fmt.Errorf("unknown DIRECTORY_TRANSPORT %q (want %s or %s)", c.Directory.Transport, TransportSheets, TransportProxy)
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("STORAGE_FILE_PATH is required for the file backend")
		}
	case StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if _, err := c.Server.TrustedProxyPrefixes(); err != nil {
		return err
	}

	if c.Storage.BookingsKey == "" {
		return fmt.Errorf("STORAGE_BOOKINGS_KEY must not be empty")
	}
	if c.Booking.WindowDays < 0 {
		return fmt.Errorf("BOOKING_WINDOW_DAYS must not be negative")
	}
	return nil
}

// UsesProxy reports whether the proxy transport is active
func (c *DirectoryConfig) UsesProxy() bool {
	return c.Transport == TransportProxy
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TrustedProxyPrefixes parses TRUSTED_PROXIES. Entries are CIDR ranges or
// single addresses.
func (c *ServerConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
