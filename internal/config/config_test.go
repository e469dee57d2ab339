package config

import (
	"testing"
	"time"

	"github.com/beaconlabs/pairlink/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RoomTTL != domain.DefaultRoomTTL {
		t.Errorf("Expected room TTL %v, got %v", domain.DefaultRoomTTL, cfg.RoomTTL)
	}
	if cfg.PairTTL != domain.DefaultPairTTL {
		t.Errorf("Expected pair TTL %v, got %v", domain.DefaultPairTTL, cfg.PairTTL)
	}
	if cfg.RelayMessageLimit != domain.DefaultRelayLimit {
		t.Errorf("Expected relay limit %d, got %d", domain.DefaultRelayLimit, cfg.RelayMessageLimit)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("Expected permissive default origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ROOM_TTL_SECONDS", "120")
	t.Setenv("PAIR_TTL_SECONDS", "30")
	t.Setenv("RELAY_MSGS_PER_SECOND", "25")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := LoadFromEnv()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.RoomTTL != 120*time.Second {
		t.Errorf("Expected room TTL 120s, got %v", cfg.RoomTTL)
	}
	if cfg.PairTTL != 30*time.Second {
		t.Errorf("Expected pair TTL 30s, got %v", cfg.PairTTL)
	}
	if cfg.RelayMessageLimit != 25 {
		t.Errorf("Expected relay limit 25, got %d", cfg.RelayMessageLimit)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Expected parsed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("ROOM_TTL_SECONDS", "not-a-number")
	t.Setenv("RELAY_MSGS_PER_SECOND", "-5")

	cfg := LoadFromEnv()

	if cfg.RoomTTL != domain.DefaultRoomTTL {
		t.Errorf("Invalid TTL must fall back to default, got %v", cfg.RoomTTL)
	}
	if cfg.RelayMessageLimit != domain.DefaultRelayLimit {
		t.Errorf("Negative limit must fall back to default, got %d", cfg.RelayMessageLimit)
	}
}
