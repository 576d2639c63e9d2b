package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LEDGER_BACKEND", "LEDGER_DB_PATH", "LEDGER_LOCALE", "LEDGER_TIMEZONE",
		"LEDGER_SHARE_SUFFIX", "LOG_LEVEL", "APP_ENV", "TELEGRAM_BOT_TOKEN",
		"SHARE_CHAT_ID", "GEMINI_API_KEY", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != BackendSQLite || cfg.DBPath != "data/ledger.db" {
		t.Errorf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.Locale != "pt-BR" || cfg.Timezone != "UTC" || cfg.MetricsAddr != ":9090" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ShareChatID != 0 {
		t.Errorf("ShareChatID = %d, want 0", cfg.ShareChatID)
	}
	if err := cfg.RequireTelegram(); err == nil {
		t.Error("RequireTelegram should fail without a token")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("LEDGER_LOCALE", "en-US")
	t.Setenv("LEDGER_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("SHARE_CHAT_ID", "-100123")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.Locale != "en-US" || cfg.ShareChatID != -100123 {
		t.Errorf("unexpected config %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/Sao_Paulo" {
		t.Errorf("Location = %v, %v", loc, err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		t.Errorf("RequireTelegram: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{name: "chat id", key: "SHARE_CHAT_ID", value: "abc", want: "SHARE_CHAT_ID"},
		{name: "backend", key: "LEDGER_BACKEND", value: "postgres", want: "LEDGER_BACKEND"},
		{name: "timezone", key: "LEDGER_TIMEZONE", value: "Mars/Olympus", want: "LEDGER_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected an error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
