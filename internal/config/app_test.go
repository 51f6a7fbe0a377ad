package config

import (
	"context"
	"path/filepath"
	"testing"
)

func TestGetRuntimePath_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROOMBOT_RUNTIME_PATH", dir)

	if got := GetRuntimePath(); got != dir {
		t.Errorf("GetRuntimePath() = %q, want %q", got, dir)
	}
}

func TestNewAppConfig_MemoryPathDefaultsUnderRuntimePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROOMBOT_RUNTIME_PATH", dir)
	t.Setenv("MEMORY_PATH", "")

	cfg := NewAppConfig(context.Background())

	want := filepath.Join(dir, "memory_storage.json")
	if cfg.MemoryPath != want {
		t.Errorf("MemoryPath = %q, want %q", cfg.MemoryPath, want)
	}
}

func TestNewAppConfig_MemoryPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv("MEMORY_PATH", path)

	cfg := NewAppConfig(context.Background())

	if cfg.MemoryPath != path {
		t.Errorf("MemoryPath = %q, want %q", cfg.MemoryPath, path)
	}
}
