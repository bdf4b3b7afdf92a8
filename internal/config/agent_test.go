package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAgentDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("WADDL_USER_ID", "usr_test")

	cfg, err := LoadAgent(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadAgent() error = %v", err)
	}
	if cfg.PollInterval != 300*time.Millisecond {
		t.Fatalf("expected default poll interval, got %s", cfg.PollInterval)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Fatalf("unexpected server url %q", cfg.ServerURL)
	}
}

func TestLoadAgentFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	payload := []byte("server_url: http://waddl.internal:9000\nuser_id: usr_yaml\npoll_interval: 1s\n")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("WADDL_POLL_INTERVAL", "2s")

	cfg, err := LoadAgent(path)
	if err != nil {
		t.Fatalf("LoadAgent() error = %v", err)
	}
	if cfg.ServerURL != "http://waddl.internal:9000" {
		t.Fatalf("file value should apply, got %q", cfg.ServerURL)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Fatalf("env should override file, got %s", cfg.PollInterval)
	}
}

func TestLoadAgentRejectsMissingUser(t *testing.T) {
	t.Setenv("WADDL_USER_ID", "")
	if _, err := LoadAgent(""); err == nil {
		t.Fatalf("expected validation error for missing user_id")
	}
}
