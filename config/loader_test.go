package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valetudo-ecovacs/roscore/model"
)

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defaults := model.Defaults()
	if cfg.ROSMasterURI != defaults.ROSMasterURI {
		t.Fatalf("expected default ROSMasterURI, got %q", cfg.ROSMasterURI)
	}
	if cfg.ROSConnectTimeout != defaults.ROSConnectTimeout {
		t.Fatalf("expected default ROSConnectTimeout, got %v", cfg.ROSConnectTimeout)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roscore.yaml")
	contents := "rosmasteruri: http://10.0.0.5:11311\nrosdebug: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ROSMasterURI != "http://10.0.0.5:11311" {
		t.Fatalf("expected overridden ROSMasterURI, got %q", cfg.ROSMasterURI)
	}
	if !cfg.ROSDebug {
		t.Fatalf("expected rosDebug=true from file")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roscore.yaml")
	if err := os.WriteFile(path, []byte("rosmasteruri: http://file:11311\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("ROSCORE_ROSMASTERURI", "http://env:11311")
	t.Setenv("ROSCORE_ROSCALLTIMEOUT", "42s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ROSMasterURI != "http://env:11311" {
		t.Fatalf("expected env override to win, got %q", cfg.ROSMasterURI)
	}
	if cfg.ROSCallTimeout != 42*time.Second {
		t.Fatalf("expected 42s call timeout, got %v", cfg.ROSCallTimeout)
	}
}
