// Package config loads FiLeaked settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config is read once at startup from the environment. A .env file in the
// working directory or any parent fills in variables that are not already set.
type Config struct {
	ServerHost      string        // SERVER_HOST
	ServerPort      int           // SERVER_PORT
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT_SECONDS

	LogLevel string // LOG_LEVEL: debug, info, warn or error

	// MasterSecret feeds key derivation. With KMSProvider set it holds the
	// base64 ciphertext produced by create-master-secret instead.
	MasterSecret  string
	KMSProvider   string
	KMSKeyURI     string
	AEADAlgorithm string // aes-gcm or chacha20-poly1305

	APIToken          string
	MaxUploadBytes    int64
	DistributeWorkers int

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string // comma separated

	MetricsEnabled   bool
	MetricsNamespace string
	MetricsPort      int
}

// Load builds a Config, applying defaults for anything unset.
func Load() *Config {
	if path, ok := findDotEnv(); ok {
		_ = godotenv.Load(path)
	}

	return &Config{
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),

		LogLevel: env.GetString("LOG_LEVEL", "info"),

		MasterSecret:  env.GetString("MASTER_SECRET", ""),
		KMSProvider:   env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:     env.GetString("KMS_KEY_URI", ""),
		AEADAlgorithm: env.GetString("AEAD_ALGORITHM", "aes-gcm"),

		APIToken:          env.GetString("API_TOKEN", ""),
		MaxUploadBytes:    int64(env.GetInt("MAX_UPLOAD_BYTES", 32<<20)),
		DistributeWorkers: env.GetInt("DISTRIBUTE_WORKERS", 4),

		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "fileaked"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode runs gin in debug mode only alongside debug logging.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

func findDotEnv() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
