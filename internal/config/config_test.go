package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Display.DayStartHour != 6 || cfg.Display.DayEndHour != 23 {
		t.Errorf("default window = %d..%d", cfg.Display.DayStartHour, cfg.Display.DayEndHour)
	}
	if cfg.Display.GridMinutes != 15 {
		t.Errorf("default grid = %d", cfg.Display.GridMinutes)
	}
	if !cfg.Update.Enabled {
		t.Error("update check should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "display:\n  day_start_hour: 8\n  day_end_hour: 20\n  use_24_hour: true\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display.DayStartHour != 8 || cfg.Display.DayEndHour != 20 {
		t.Errorf("window = %d..%d, want 8..20", cfg.Display.DayStartHour, cfg.Display.DayEndHour)
	}
	if !cfg.Display.Use24Hour {
		t.Error("use_24_hour not applied")
	}
	if cfg.Display.GridMinutes != 15 {
		t.Errorf("unset grid should keep default, got %d", cfg.Display.GridMinutes)
	}
}

func TestLoadRejectsInvertedWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "display:\n  day_start_hour: 20\n  day_end_hour: 8\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display.DayStartHour != 6 || cfg.Display.DayEndHour != 23 {
		t.Errorf("inverted window should fall back to defaults, got %d..%d",
			cfg.Display.DayStartHour, cfg.Display.DayEndHour)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Display.Use24Hour = true
	cfg.Display.DefaultColor = "#ff6b6b"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !back.Display.Use24Hour || back.Display.DefaultColor != "#ff6b6b" {
		t.Errorf("round trip lost fields: %+v", back.Display)
	}
}
