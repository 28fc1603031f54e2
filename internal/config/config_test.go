package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "limbo" {
		t.Errorf("expected Name=limbo, got %s", cfg.Name)
	}
	if cfg.Engine.DefaultDepth != 1 {
		t.Errorf("expected DefaultDepth=1, got %d", cfg.Engine.DefaultDepth)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.BATPath = "theories/kitchen.bat"
	cfg.Engine.DefaultDepth = 3

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Engine.BATPath != "theories/kitchen.bat" {
		t.Errorf("expected BATPath=theories/kitchen.bat, got %s", loaded.Engine.BATPath)
	}
	if loaded.Engine.DefaultDepth != 3 {
		t.Errorf("expected DefaultDepth=3, got %d", loaded.Engine.DefaultDepth)
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file should not error: %v", err)
	}
	if cfg.Engine.DefaultDepth != DefaultConfig().Engine.DefaultDepth {
		t.Errorf("expected defaults when the config file is missing")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}

	cfg.Engine.DefaultDepth = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative default_depth")
	}

	cfg = DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for an invalid logging level")
	}
}

func TestConfig_GetQueryTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GetQueryTimeout() != 30*time.Second {
		t.Errorf("expected default query timeout of 30s, got %v", cfg.GetQueryTimeout())
	}

	cfg.Engine.QueryTimeout = "garbage"
	if cfg.GetQueryTimeout() != 30*time.Second {
		t.Errorf("expected malformed query timeout to fall back to 30s, got %v", cfg.GetQueryTimeout())
	}

	cfg.Engine.QueryTimeout = "5s"
	if cfg.GetQueryTimeout() != 5*time.Second {
		t.Errorf("expected query timeout of 5s, got %v", cfg.GetQueryTimeout())
	}
}
