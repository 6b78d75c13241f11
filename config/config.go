// Package config provides configuration management for the cart service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cart backends.
const (
	BackendMongo = "mongo"
	BackendHTTP  = "http"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	CartAPI  CartAPIConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Audit    AuditConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	// UserRateLimit caps cart requests per user and RateWindow. Zero disables it.
	UserRateLimit  int
	IdempotencyTTL time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	RequestTimeout time.Duration
}

// CacheConfig holds cart query cache configuration.
type CacheConfig struct {
	Size int
	TTL  time.Duration
	// StaleTime is how long a fetched cart is served without refetching.
	StaleTime       time.Duration
	CleanupInterval time.Duration
	// FetchTimeout bounds a cart load shared by concurrent readers.
	FetchTimeout time.Duration
}

// CartAPIConfig selects and configures the authoritative cart backend.
type CartAPIConfig struct {
	Backend string
	BaseURL string
	Timeout time.Duration
	APIKey  string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled        bool
	APIKeys        map[string]bool
	JWTSecretKey   string
	JWTIssuer      string
	AccessTokenTTL time.Duration
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	AuditTTL     time.Duration
	Enabled      bool
	Seed         bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// AuditConfig holds the audit writer configuration.
type AuditConfig struct {
	BufferSize int
	Workers    int
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			UserRateLimit:  getEnvInt("USER_RATE_LIMIT", 60),
			IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 5*time.Minute),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Size:            getEnvInt("CART_CACHE_SIZE", 10000),
			TTL:             getEnvDuration("CART_CACHE_TTL", 30*time.Minute),
			StaleTime:       getEnvDuration("CART_CACHE_STALE_TIME", 30*time.Second),
			CleanupInterval: getEnvDuration("CART_CACHE_CLEANUP_INTERVAL", time.Minute),
			FetchTimeout:    getEnvDuration("CART_CACHE_FETCH_TIMEOUT", 10*time.Second),
		},
		CartAPI: CartAPIConfig{
			Backend: strings.ToLower(getEnv("CART_BACKEND", BackendMongo)),
			BaseURL: getEnv("CART_API_BASE_URL", ""),
			Timeout: getEnvDuration("CART_API_TIMEOUT", 5*time.Second),
			APIKey:  getEnv("CART_API_KEY", ""),
		},
		Auth: AuthConfig{
			Enabled:        getEnvBool("AUTH_ENABLED", false),
			APIKeys:        parseAPIKeys(os.Getenv("API_KEYS")),
			JWTSecretKey:   getEnv("JWT_SECRET_KEY", ""),
			JWTIssuer:      getEnv("JWT_ISSUER", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "storefront_cart"),
			AuditTTL:                       getEnvDuration("MONGODB_AUDIT_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", true),
			Seed:                           getEnvBool("MONGODB_SEED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Audit: AuditConfig{
			BufferSize: getEnvInt("AUDIT_BUFFER_SIZE", 1000),
			Workers:    getEnvInt("AUDIT_WORKERS", 2),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// Validate reports configuration combinations the service cannot start with.
func (c Config) Validate() error {
	switch c.CartAPI.Backend {
	case BackendMongo:
		if !c.Database.Enabled {
			return errors.New("CART_BACKEND=mongo requires MONGODB_ENABLED=true")
		}
	case BackendHTTP:
		if c.CartAPI.BaseURL == "" {
			return errors.New("CART_BACKEND=http requires CART_API_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.CartAPI.Backend)
	}

	if c.Cache.Size <= 0 {
		return fmt.Errorf("CART_CACHE_SIZE must be positive, got %d", c.Cache.Size)
	}
	if c.Auth.Enabled && c.Auth.JWTSecretKey == "" && len(c.Auth.APIKeys) == 0 {
		return errors.New("AUTH_ENABLED=true requires JWT_SECRET_KEY or API_KEYS")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for the storefront dev server
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
