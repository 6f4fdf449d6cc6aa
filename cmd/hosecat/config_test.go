package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hosecat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
endpoint: https://stream.example.com/prod.json
username: user
password: secret
rules_endpoint: https://api.example.com/rules.json
idle_timeout: 45s
backfill_minutes: 5
metrics_listen: ":9102"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Endpoint != "https://stream.example.com/prod.json" {
		t.Errorf("unexpected endpoint: %q", cfg.Endpoint)
	}
	if cfg.Username != "user" || cfg.Password != "secret" {
		t.Error("credentials did not load")
	}
	if cfg.IdleTimeout != 45*time.Second {
		t.Errorf("unexpected idle timeout: %v", cfg.IdleTimeout)
	}
	if cfg.BackfillMinutes == nil || *cfg.BackfillMinutes != 5 {
		t.Errorf("unexpected backfill: %v", cfg.BackfillMinutes)
	}
	if cfg.Partition != nil {
		t.Errorf("partition should be unset, got %v", *cfg.Partition)
	}
	if cfg.MetricsListen != ":9102" {
		t.Errorf("unexpected metrics addr: %q", cfg.MetricsListen)
	}
}

func TestLoadConfigRequiresEndpoint(t *testing.T) {
	path := writeConfig(t, "username: user\n")

	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected an error for the missing endpoint")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for the missing file")
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "endpoint: [unclosed\n")

	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
