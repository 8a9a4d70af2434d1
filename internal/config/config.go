package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds configuration loaded from environment variables.
type Config struct {
	ListenAddr              string
	RedisAddr               string
	LogLevel                string
	LogFormat               string // json or console
	LogBufferSize           int
	TrustProxy              bool
	JWTSecret               string
	JWTIssuer               string
	ProbeInterval           int // seconds, 0 disables
	GracefulShutdownTimeout int // seconds
}

// Load reads environment variables and returns a Config with sensible defaults.
func Load() Config {
	return Config{
		ListenAddr:              getString("LISTEN_ADDR", ":8080"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		LogLevel:                strings.ToLower(getString("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getString("LOG_FORMAT", "json")),
		LogBufferSize:           getPositiveInt("LOG_BUFFER_SIZE", 1000),
		TrustProxy:              getBool("TRUST_PROXY", false),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTIssuer:               os.Getenv("JWT_ISS"),
		ProbeInterval:           getInt("PROBE_INTERVAL", 30),
		GracefulShutdownTimeout: getInt("GRACEFUL_SHUTDOWN_TIMEOUT", 15),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt falls back to def when the variable is unset, malformed or negative.
func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// getPositiveInt is getInt for values that must be at least 1.
func getPositiveInt(key string, def int) int {
	if n := getInt(key, def); n > 0 {
		return n
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
