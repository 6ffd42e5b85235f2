package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.App.Name != "trip-pantry" {
		t.Errorf("App.Name = %q, want trip-pantry", cfg.App.Name)
	}
	if cfg.GroceryAPI.Timeout != 10*time.Second {
		t.Errorf("GroceryAPI.Timeout = %v, want 10s", cfg.GroceryAPI.Timeout)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("Cache.Driver = %q, want memory", cfg.Cache.Driver)
	}
	if cfg.DedupWindow != time.Second {
		t.Errorf("DedupWindow = %v, want 1s", cfg.DedupWindow)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	os.Setenv("GROCERY_API_BASE_URL", "https://grocery.example.com")
	os.Setenv("CACHE_DRIVER", "redis")
	os.Setenv("CACHE_REDIS_ADDR", "redis.example.com:6379")
	defer func() {
		os.Unsetenv("GROCERY_API_BASE_URL")
		os.Unsetenv("CACHE_DRIVER")
		os.Unsetenv("CACHE_REDIS_ADDR")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GroceryAPI.BaseURL != "https://grocery.example.com" {
		t.Errorf("GroceryAPI.BaseURL = %q, want the env value", cfg.GroceryAPI.BaseURL)
	}
	if cfg.Cache.Driver != "redis" {
		t.Errorf("Cache.Driver = %q, want redis", cfg.Cache.Driver)
	}
	if cfg.Cache.RedisAddr != "redis.example.com:6379" {
		t.Errorf("Cache.RedisAddr = %q, want the env value", cfg.Cache.RedisAddr)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: 8080},
			GroceryAPI: GroceryAPIConfig{BaseURL: "http://localhost:9090", Timeout: time.Second},
			Cache: CacheConfig{
				Enabled:         true,
				Driver:          "memory",
				MaxSize:         10,
				TTL:             time.Minute,
				CleanupInterval: time.Minute,
			},
		}
	}

	if err := validateConfig(base()); err != nil {
		t.Fatalf("expected the base config to validate, got %v", err)
	}

	noPort := base()
	noPort.Server.Port = 0
	if err := validateConfig(noPort); err == nil {
		t.Error("expected an error for a missing port")
	}

	noURL := base()
	noURL.GroceryAPI.BaseURL = ""
	if err := validateConfig(noURL); err == nil {
		t.Error("expected an error for a missing grocery API base URL")
	}

	badDriver := base()
	badDriver.Cache.Driver = "memcached"
	if err := validateConfig(badDriver); err == nil {
		t.Error("expected an error for an unknown cache driver")
	}

	badTTL := base()
	badTTL.Cache.TTL = 0
	if err := validateConfig(badTTL); err == nil {
		t.Error("expected an error for a zero cache ttl")
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey("short"); got != "****" {
		t.Errorf("MaskAPIKey(short) = %q, want ****", got)
	}
	if got := MaskAPIKey("abcdefghijkl"); got != "abcd...ijkl" {
		t.Errorf("MaskAPIKey = %q, want abcd...ijkl", got)
	}
}
