package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dataset.File != "Superstore.csv" {
		t.Errorf("Dataset.File = %q, want Superstore.csv", cfg.Dataset.File)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, want 8501", cfg.Server.Port)
	}
	if cfg.Address() != "localhost:8501" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if !cfg.Compression.Enabled {
		t.Error("compression should be enabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DATASET_FILE", "data/Superstore.xlsx")
	t.Setenv("DATASET_SHEET", "Orders")
	t.Setenv("DATASET_LOAD_TIMEOUT", "5s")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Dataset.Sheet != "Orders" {
		t.Errorf("Dataset.Sheet = %q, want Orders", cfg.Dataset.Sheet)
	}
	if cfg.Dataset.LoadTimeout != 5*time.Second {
		t.Errorf("Dataset.LoadTimeout = %v, want 5s", cfg.Dataset.LoadTimeout)
	}
	if got := cfg.Security.AllowedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"port out of range", "SERVER_PORT", "70000", "server port"},
		{"unsupported extension", "DATASET_FILE", "Superstore.json", "unsupported dataset extension"},
		{"bad log level", "LOG_LEVEL", "trace", "invalid log level"},
		{"bad log format", "LOG_FORMAT", "xml", "invalid log format"},
		{"zero rps", "SECURITY_RATE_LIMIT_RPS", "0", "rate limit RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
