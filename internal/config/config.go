package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings. City geometry lives in the project YAML,
// not here.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         int
	CORSOrigins  []string
	CORSDebug    bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// Load reads .env files (if present) and then the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{
		Server:    loadServerConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadServerConfig() ServerConfig {
	port, _ := strconv.Atoi(getEnv("GNOSIS_PORT", "3000"))
	readTimeout, _ := strconv.Atoi(getEnv("GNOSIS_READ_TIMEOUT_SECONDS", "15"))
	writeTimeout, _ := strconv.Atoi(getEnv("GNOSIS_WRITE_TIMEOUT_SECONDS", "15"))

	return ServerConfig{
		Port:         port,
		CORSOrigins:  splitList(getEnv("GNOSIS_CORS_ORIGINS", "http://localhost:5173")),
		CORSDebug:    getEnv("GNOSIS_CORS_DEBUG", "false") == "true",
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      strings.ToLower(getEnv("GNOSIS_LOG_LEVEL", "info")),
		JSONFormat: getEnv("GNOSIS_LOG_JSON", "false") == "true",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	rps, _ := strconv.ParseFloat(getEnv("GNOSIS_RATE_LIMIT_RPS", "20"), 64)
	burst, _ := strconv.Atoi(getEnv("GNOSIS_RATE_LIMIT_BURST", "40"))

	return RateLimitConfig{
		Enabled:           getEnv("GNOSIS_RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: rps,
		BurstSize:         burst,
		TrustProxy:        getEnv("GNOSIS_TRUST_PROXY", "false") == "true",
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("GNOSIS_PORT %d out of range", c.Server.Port)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return errors.New("rate limit requires positive GNOSIS_RATE_LIMIT_RPS and GNOSIS_RATE_LIMIT_BURST")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown GNOSIS_LOG_LEVEL %q", c.Logging.Level)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
