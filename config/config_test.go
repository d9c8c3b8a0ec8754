package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/medcabinet/reserve-engine/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
listen_addr = "127.0.0.1:8000"
base_url = "https://meds.example.com/"
auth_tokens = ["sesame"]

[storage]
driver = "json"
path = "reserves.json"

[column_profiles]
compact = ["trade-name", "remaining", "replenish"]
`

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:8000" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.MinWeeksPerPrescription != 2 {
		t.Errorf("expected default threshold 2, got %d", cfg.MinWeeksPerPrescription)
	}
	if cfg.CountHiddenInTotals {
		t.Error("count_hidden_in_totals must default to false")
	}
	if got := cfg.ColumnProfiles["compact"]; len(got) != 3 {
		t.Errorf("column profile not loaded: %v", got)
	}
	if cfg.AutoAdvance.Enabled {
		t.Error("auto_advance must default to disabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Overrides must work for keys absent from the file, including
	// booleans that the file never mentions.
	t.Setenv("RESERVE_MIN_WEEKS_PER_PRESCRIPTION", "5")
	t.Setenv("RESERVE_STORAGE_PATH", "/var/lib/reserve/override.json")
	t.Setenv("RESERVE_COUNT_HIDDEN_IN_TOTALS", "true")
	t.Setenv("RESERVE_AUTO_ADVANCE_ENABLED", "true")

	cfg, err := config.Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MinWeeksPerPrescription != 5 {
		t.Errorf("min_weeks_per_prescription = %d, want env override 5", cfg.MinWeeksPerPrescription)
	}
	if cfg.Storage.Path != "/var/lib/reserve/override.json" {
		t.Errorf("storage.path = %q, want env override", cfg.Storage.Path)
	}
	if !cfg.CountHiddenInTotals {
		t.Error("count_hidden_in_totals not overridden by env")
	}
	if !cfg.AutoAdvance.Enabled {
		t.Error("auto_advance.enabled not overridden by env")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no tokens", `
listen_addr = "127.0.0.1:8000"
auth_tokens = []
`},
		{"blank token", `
listen_addr = "127.0.0.1:8000"
auth_tokens = ["  "]
`},
		{"bad listen addr", `
listen_addr = "not-an-address"
auth_tokens = ["t"]
`},
		{"relative base url", `
listen_addr = "127.0.0.1:8000"
base_url = "meds.example.com/path"
auth_tokens = ["t"]
`},
		{"unknown driver", `
listen_addr = "127.0.0.1:8000"
auth_tokens = ["t"]
[storage]
driver = "postgres"
path = "x"
`},
		{"negative threshold", `
listen_addr = "127.0.0.1:8000"
auth_tokens = ["t"]
min_weeks_per_prescription = -1
`},
		{"bad auto advance time", `
listen_addr = "127.0.0.1:8000"
auth_tokens = ["t"]
[auto_advance]
enabled = true
at = "25:99"
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, c.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
