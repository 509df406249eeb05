package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"DISCORD_TOKEN", "COMMAND_PREFIX", "HUNTR_BOT_NAME", "GMAPS_API_KEY",
		"GEOCODE_TIMEOUT", "RAID_HISTORY_LIMIT", "MAX_CREATURE_NAME_LEN",
		"MAX_LOCATION_NAME_LEN", "SHORT_CREATURE_RULES", "SHORT_LOCATION_RULES",
		"MAP_IMAGE_ENABLED", "REPLACE_SOURCE_POST", "PURGE_ENABLED",
		"DB_DSN", "HTTP_ADDR",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommandPrefix != "+" {
		t.Errorf("CommandPrefix = %q, want +", cfg.CommandPrefix)
	}
	if cfg.HuntrBotName != "GymHuntrBot" {
		t.Errorf("HuntrBotName = %q", cfg.HuntrBotName)
	}
	if cfg.GeocodeTimeout != 5*time.Second {
		t.Errorf("GeocodeTimeout = %v", cfg.GeocodeTimeout)
	}
	if cfg.HistoryLimit != 50 || cfg.MaxCreatureLen != 11 || cfg.MaxLocationLen != 24 {
		t.Errorf("limits = %d/%d/%d", cfg.HistoryLimit, cfg.MaxCreatureLen, cfg.MaxLocationLen)
	}
	if cfg.MapImageEnabled {
		t.Error("MapImageEnabled should default off")
	}
	if !cfg.ReplaceSourcePost || !cfg.PurgeEnabled {
		t.Error("ReplaceSourcePost and PurgeEnabled should default on")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if len(cfg.CreatureRules) == 0 || len(cfg.LocationRules) == 0 {
		t.Error("default rule tables should be non-empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COMMAND_PREFIX", "!")
	t.Setenv("GEOCODE_TIMEOUT", "2s")
	t.Setenv("RAID_HISTORY_LIMIT", "25")
	t.Setenv("SHORT_CREATURE_RULES", "snorlax=lax")
	t.Setenv("REPLACE_SOURCE_POST", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("CommandPrefix = %q", cfg.CommandPrefix)
	}
	if cfg.GeocodeTimeout != 2*time.Second {
		t.Errorf("GeocodeTimeout = %v", cfg.GeocodeTimeout)
	}
	if cfg.HistoryLimit != 25 {
		t.Errorf("HistoryLimit = %d", cfg.HistoryLimit)
	}
	if len(cfg.CreatureRules) != 1 || cfg.CreatureRules[0].Pattern != "snorlax" {
		t.Errorf("CreatureRules = %+v", cfg.CreatureRules)
	}
	if cfg.ReplaceSourcePost {
		t.Error("ReplaceSourcePost should be off")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("GEOCODE_TIMEOUT", "sideways")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid GEOCODE_TIMEOUT")
	}
}

func TestValidateBotReady(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateBotReady(); err == nil {
		t.Fatal("expected error without token")
	}
	cfg.DiscordToken = "tok"
	if err := cfg.ValidateBotReady(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
