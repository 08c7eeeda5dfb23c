package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ROUTING_PROVIDER", "haversine")
	for _, k := range []string{"PORT", "BATCH_SIZE", "PROVIDER_TIMEOUT", "SLOTS_FILE", "ORDER_CUTOFF_MINUTES"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}

	sc, err := cfg.ServiceConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.BatchSize != 3 || sc.OrderCutoff != 30*time.Minute || sc.HandoverPerOrder != 10*time.Minute || sc.PickupPerOrder != 2*time.Minute {
		t.Fatalf("service config = %+v", sc)
	}
	if sc.ProviderTimeout != 10*time.Second {
		t.Fatalf("provider timeout = %v", sc.ProviderTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROUTING_PROVIDER", "Haversine")
	t.Setenv("BATCH_SIZE", "5")
	t.Setenv("PROVIDER_TIMEOUT", "2500ms")
	t.Setenv("ORDER_CUTOFF_MINUTES", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RoutingProvider != ProviderHaversine {
		t.Fatalf("provider = %q", cfg.RoutingProvider)
	}

	sc, err := cfg.ServiceConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.BatchSize != 5 || sc.ProviderTimeout != 2500*time.Millisecond || sc.OrderCutoff != 45*time.Minute {
		t.Fatalf("service config = %+v", sc)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("mapbox without token", func(t *testing.T) {
		t.Setenv("ROUTING_PROVIDER", "mapbox")
		t.Setenv("MAPBOX_TOKEN", "")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("ROUTING_PROVIDER", "carrier-pigeon")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("ROUTING_PROVIDER", "haversine")
		t.Setenv("BATCH_SIZE", "three")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("zero batch size", func(t *testing.T) {
		t.Setenv("ROUTING_PROVIDER", "haversine")
		t.Setenv("BATCH_SIZE", "0")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := cfg.ServiceConfig(); err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestLoadSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.yaml")
	body := `
slots:
  - label: "Morning"
    start_hour: 9
    end_hour: 12
  - label: "Evening"
    start_hour: 18
    end_hour: 24
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write slots: %v", err)
	}

	table, err := LoadSlots(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w := table["Evening"]; w.EndHour != 24 || w.StartHour != 18 {
		t.Fatalf("Evening = %+v", w)
	}

	w, err := table.Resolve("2PM-5PM")
	if err != nil || w.EndHour != 17 {
		t.Fatalf("fallback parse = %+v, %v", w, err)
	}
}

func TestParseSlotsRejectsBadTables(t *testing.T) {
	cases := map[string]string{
		"duplicate":     "slots:\n  - {label: A, start_hour: 9, end_hour: 12}\n  - {label: A, start_hour: 13, end_hour: 15}\n",
		"inverted":      "slots:\n  - {label: A, start_hour: 12, end_hour: 9}\n",
		"unknown field": "slots:\n  - {label: A, start: 9, end_hour: 12}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSlots([]byte(body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	table, err := ParseSlots(nil)
	if err != nil || len(table) != 0 {
		t.Fatalf("empty file = %v, %v", table, err)
	}
}
