package memory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sandevgo/roombot/internal/config"
)

func appConfigForTest(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		MemoryPath: filepath.Join(t.TempDir(), "memory_storage.json"),
	}
}

func TestSelect_NoCredentialUsesFileStore(t *testing.T) {
	t.Parallel()
	store, err := Select(context.Background(), &config.Mem0Config{}, appConfigForTest(t))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if store.Backend() != "file" {
		t.Errorf("Backend = %q, want file", store.Backend())
	}
}

func TestSelect_ReachableMem0(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := &config.Mem0Config{APIKey: "test-key", BaseURL: srv.URL}
	store, err := Select(context.Background(), cfg, appConfigForTest(t))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if store.Backend() != "mem0" {
		t.Errorf("Backend = %q, want mem0", store.Backend())
	}
}

func TestSelect_UnreachableMem0FallsBack(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	srv.Close() // connection refused from here on

	cfg := &config.Mem0Config{APIKey: "test-key", BaseURL: srv.URL}
	store, err := Select(context.Background(), cfg, appConfigForTest(t))
	if err != nil {
		t.Fatalf("Select must not fail when mem0 is down: %v", err)
	}
	if store.Backend() != "file" {
		t.Errorf("Backend = %q, want file fallback", store.Backend())
	}
}

func TestSelect_RejectedCredentialFallsBack(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := &config.Mem0Config{APIKey: "bad-key", BaseURL: srv.URL}
	store, err := Select(context.Background(), cfg, appConfigForTest(t))
	if err != nil {
		t.Fatalf("Select must not fail on auth rejection: %v", err)
	}
	if store.Backend() != "file" {
		t.Errorf("Backend = %q, want file fallback", store.Backend())
	}
}
