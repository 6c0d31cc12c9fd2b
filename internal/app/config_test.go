package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvTokenStore(t *testing.T) {
	cfg := AuthConfig{Storage: TokenStorageTypeEnv, EnvVar: "TEST_UPSTREAM_KEY"}
	store, err := cfg.NewTokenStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	t.Run("missing variable", func(t *testing.T) {
		t.Setenv("TEST_UPSTREAM_KEY", "")
		if _, err := store.Read(context.Background()); err == nil {
			t.Error("Expected error for unset variable")
		}
	})

	t.Run("reads trimmed value", func(t *testing.T) {
		t.Setenv("TEST_UPSTREAM_KEY", "  sk-test-123 \n")
		key, err := store.Read(context.Background())
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if key != "sk-test-123" {
			t.Errorf("Expected trimmed key, got %q", key)
		}
	})

	t.Run("write rejected", func(t *testing.T) {
		if err := store.Write(context.Background(), "sk-new"); err == nil {
			t.Error("Expected env storage to be read-only")
		}
	})
}

func TestFileTokenStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "api_key")
	cfg := AuthConfig{Storage: TokenStorageTypeFile, KeyFile: path}

	store, err := cfg.NewTokenStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := store.Read(ctx); err == nil {
		t.Error("Expected error before any key is written")
	}

	if err := store.Write(ctx, "sk-test-456"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Key file missing: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("Expected mode 0600, got %o", mode)
	}

	key, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if key != "sk-test-456" {
		t.Errorf("Expected stored key, got %q", key)
	}

	// Empty write clears the key.
	if err := store.Write(ctx, ""); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Read(ctx); err == nil {
		t.Error("Expected error after clearing")
	}

	// Clearing an already-absent key is not an error.
	if err := store.Write(ctx, ""); err != nil {
		t.Errorf("Expected idempotent clear, got %v", err)
	}
}

func TestNewTokenStore_UnsupportedStorage(t *testing.T) {
	cfg := AuthConfig{Storage: "vault"}
	if _, err := cfg.NewTokenStore(); err == nil {
		t.Error("Expected error for unsupported storage type")
	}
}
