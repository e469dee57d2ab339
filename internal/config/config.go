package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/beaconlabs/pairlink/internal/domain"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port string

	// Security
	AllowedOrigins []string

	// Relay
	RoomTTL           time.Duration
	RelayMessageLimit int

	// Pairing
	PairTTL time.Duration

	// Boundary rate limiting
	RateLimitAPI rate.Limit
	RateLimitWS  rate.Limit

	// Logging
	LogLevel string
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:              "8080",
		AllowedOrigins:    []string{"*"},
		RoomTTL:           domain.DefaultRoomTTL,
		RelayMessageLimit: domain.DefaultRelayLimit,
		PairTTL:           domain.DefaultPairTTL,
		RateLimitAPI:      domain.DefaultRateLimitAPI,
		RateLimitWS:       domain.DefaultRateLimitWS,
		LogLevel:          "info", // Options: info, silent
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if ttl := os.Getenv("ROOM_TTL_SECONDS"); ttl != "" {
		if secs, err := strconv.Atoi(ttl); err == nil && secs > 0 {
			cfg.RoomTTL = time.Duration(secs) * time.Second
		}
	}

	if limit := os.Getenv("RELAY_MSGS_PER_SECOND"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 {
			cfg.RelayMessageLimit = val
		}
	}

	if ttl := os.Getenv("PAIR_TTL_SECONDS"); ttl != "" {
		if secs, err := strconv.Atoi(ttl); err == nil && secs > 0 {
			cfg.PairTTL = time.Duration(secs) * time.Second
		}
	}

	if rl := os.Getenv("RATE_LIMIT_API"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitAPI = rate.Limit(val)
		}
	}

	if rl := os.Getenv("RATE_LIMIT_WS"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitWS = rate.Limit(val)
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Global configuration instance
var AppConfig = LoadFromEnv()
