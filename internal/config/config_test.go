package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[mainConfig]
port = 8080

[chatConfig]
rooms = ["lobby", "dev"]
pageSize = 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHAT_JWT_SECRET", "from-env")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Host != "0.0.0.0" {
		t.Fatalf("listen = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.DefaultRoom != "lobby" || cfg.PageSize != 10 || cfg.HistoryCapacity != 100 {
		t.Fatalf("chat config = %+v", cfg.ChatConfig)
	}
	if cfg.Secret != "from-env" {
		t.Fatalf("secret = %q", cfg.Secret)
	}
	if cfg.TokenExpiryHours != 24 || cfg.NotificationCapacity != 50 {
		t.Fatalf("defaults = %d hours, %d notifications", cfg.TokenExpiryHours, cfg.NotificationCapacity)
	}
	if cfg.KafkaConfig.Enabled || cfg.KafkaConfig.Topic != "chat_messages" {
		t.Fatalf("kafka = %+v", cfg.KafkaConfig)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
