package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultConfigPath() = %q, should end with config.yaml", path)
	}
	if path != "config.yaml" && !strings.Contains(path, ".ocbot") {
		t.Errorf("DefaultConfigPath() = %q, should be under .ocbot", path)
	}
}

func TestDefaultConfigPathPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", `C:\Users\bot`)
	} else {
		t.Setenv("HOME", "/home/bot")
	}

	want := filepath.Join("/home/bot", ".ocbot", "config.yaml")
	if runtime.GOOS == "windows" {
		want = filepath.Join(`C:\Users\bot`, ".ocbot", "config.yaml")
	}
	if got := DefaultConfigPath(); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Runtimes == nil {
		t.Error("Runtimes map should be initialized")
	}
	if cfg.DefaultRuntime != "" {
		t.Errorf("DefaultRuntime = %q, want empty", cfg.DefaultRuntime)
	}
}

func TestLoadConfigValid(t *testing.T) {
	path := writeConfig(t, `
default_runtime: httpapi
bot_id: bot-123
runtimes:
  httpapi:
    base_url: https://oc.example/api
    token_ref: prod
    timeout: 15s
logging:
  level: debug
  format: json
middleware:
  rate_limit: 2.5
  rate_burst: 5
  retries: 3
  timeout: 30s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DefaultRuntime != "httpapi" || cfg.BotID != "bot-123" {
		t.Errorf("defaults = %q/%q", cfg.DefaultRuntime, cfg.BotID)
	}
	rc := cfg.GetRuntime("httpapi")
	if rc == nil {
		t.Fatal("httpapi runtime should be configured")
	}
	if rc.BaseURL != "https://oc.example/api" || rc.TokenRef != "prod" || rc.Timeout != 15*time.Second {
		t.Errorf("runtime config = %+v", rc)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	want := MiddlewareConfig{RateLimit: 2.5, RateBurst: 5, Retries: 3, Timeout: 30 * time.Second}
	if cfg.Middleware != want {
		t.Errorf("middleware = %+v, want %+v", cfg.Middleware, want)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "runtimes: [not: a map")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on invalid YAML")
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Runtimes == nil {
		t.Error("Runtimes map should be initialized")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
default_runtime: httpapi
bot_id: from-file
runtimes:
  httpapi:
    base_url: https://file.example
logging:
  level: info
`)
	t.Setenv("OCBOT_BOT_ID", "from-env")
	t.Setenv("OCBOT_LOG_LEVEL", "debug")
	t.Setenv("OCBOT_MIDDLEWARE_RETRIES", "5")
	t.Setenv("OCBOT_MIDDLEWARE_TIMEOUT", "2s")
	t.Setenv("OCBOT_BASE_URL", "https://env.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BotID != "from-env" {
		t.Errorf("BotID = %q, want from-env", cfg.BotID)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Middleware.Retries != 5 || cfg.Middleware.Timeout != 2*time.Second {
		t.Errorf("middleware = %+v", cfg.Middleware)
	}
	if got := cfg.GetRuntime("httpapi").BaseURL; got != "https://env.example" {
		t.Errorf("BaseURL = %q, want env override", got)
	}
}

func TestLoadConfigBadEnvValue(t *testing.T) {
	t.Setenv("OCBOT_MIDDLEWARE_RETRIES", "many")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() should fail on a malformed environment value")
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{
		DefaultRuntime: "memory",
		BotID:          "bot-1",
		Runtimes:       map[string]RuntimeConfig{"memory": {TokenRef: "dev"}},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.DefaultRuntime != "memory" || loaded.GetRuntime("memory").TokenRef != "dev" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestConfigGetRuntime(t *testing.T) {
	cfg := &Config{Runtimes: map[string]RuntimeConfig{"httpapi": {TokenRef: "prod"}}}

	if rc := cfg.GetRuntime("httpapi"); rc == nil || rc.TokenRef != "prod" {
		t.Errorf("GetRuntime(httpapi) = %+v", rc)
	}
	if rc := cfg.GetRuntime("unknown"); rc != nil {
		t.Errorf("GetRuntime(unknown) = %+v, want nil", rc)
	}
	if rc := (&Config{}).GetRuntime("httpapi"); rc != nil {
		t.Error("GetRuntime on nil map should return nil")
	}
}
