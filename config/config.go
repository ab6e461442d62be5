// Package config provides configuration management for the image proxy.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Fetch    FetchConfig
	Image    ImageConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host       string
	Port       string
	RateLimit  int
	RateWindow time.Duration
	// RequestTimeout bounds the whole handling of one request.
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// Addr returns the listen address built from Host and Port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// CacheConfig holds source image cache configuration.
type CacheConfig struct {
	// Size is the maximum number of cached source images.
	Size int
}

// FetchConfig holds configuration for retrieving source images.
type FetchConfig struct {
	Timeout      time.Duration
	MaxBytes     int64
	UserAgent    string
	AllowFile    bool
	SingleFlight bool
}

// ImageConfig holds output encoding configuration.
type ImageConfig struct {
	// Quality is the JPEG quality used for every response (1-100).
	Quality       int
	CacheMaxAge   time.Duration
	WatermarkPath string
}

// AuthConfig holds authentication configuration for the management API.
type AuthConfig struct {
	// AdminJWTSecret enables HS256 bearer authentication on /api when set.
	AdminJWTSecret string
	AdminTokenTTL  time.Duration
}

// Enabled reports whether the management API requires a bearer token.
func (a AuthConfig) Enabled() bool {
	return a.AdminJWTSecret != ""
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
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
			Host:           getEnv("BIND_HOST", "127.0.0.1"),
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 1024),
		},
		Fetch: FetchConfig{
			Timeout:      getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
			MaxBytes:     getEnvInt64("FETCH_MAX_BYTES", 20<<20),
			UserAgent:    getEnv("FETCH_USER_AGENT", "image-proxy/1.0"),
			AllowFile:    getEnvBool("FETCH_ALLOW_FILE", true),
			SingleFlight: getEnvBool("FETCH_SINGLEFLIGHT", true),
		},
		Image: ImageConfig{
			Quality:       clampQuality(getEnvInt("IMAGE_QUALITY", 85)),
			CacheMaxAge:   getEnvDuration("IMAGE_CACHE_MAX_AGE", 24*time.Hour),
			WatermarkPath: getEnv("WATERMARK_PATH", ""),
		},
		Auth: AuthConfig{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
			AdminTokenTTL:  getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "image_proxy"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
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

// clampQuality keeps the JPEG quality inside the range accepted by the encoder.
func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
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
