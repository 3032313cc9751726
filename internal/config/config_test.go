package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestGetDataDirWithExplicitEnv(t *testing.T) {
	tmpDir := t.TempDir()
	customDir := filepath.Join(tmpDir, "custom")

	t.Setenv("MEMBANK_DIR", customDir)
	t.Setenv("XDG_DATA_HOME", "")

	got := GetDataDir()
	if got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetDataDirFallsBackToXDG(t *testing.T) {
	tmpDir := t.TempDir()
	xdgDir := filepath.Join(tmpDir, "xdg")

	t.Setenv("MEMBANK_DIR", "")
	t.Setenv("XDG_DATA_HOME", xdgDir)

	got := GetDataDir()
	want := filepath.Join(xdgDir, "membank")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetDBPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MEMBANK_DIR", tmpDir)

	if got, want := GetDBPath(), filepath.Join(tmpDir, "membank.db"); got != want {
		t.Fatalf("GetDBPath expected %q, got %q", want, got)
	}
}

func TestGetOwnerID(t *testing.T) {
	t.Setenv("MEMBANK_OWNER", "")
	t.Setenv("DEFAULT_OWNER_ID", "")

	if got := GetOwnerID(); got != "default" {
		t.Fatalf("expected fallback owner, got %q", got)
	}

	t.Setenv("DEFAULT_OWNER_ID", "fallback-user")
	if got := GetOwnerID(); got != "fallback-user" {
		t.Fatalf("expected DEFAULT_OWNER_ID, got %q", got)
	}

	t.Setenv("MEMBANK_OWNER", "primary-user")
	if got := GetOwnerID(); got != "primary-user" {
		t.Fatalf("expected MEMBANK_OWNER to win, got %q", got)
	}
}

func TestGetQueryTimeout(t *testing.T) {
	t.Setenv("MEMBANK_QUERY_TIMEOUT", "")
	if got := GetQueryTimeout(); got != DefaultQueryTimeout {
		t.Fatalf("expected default timeout, got %v", got)
	}

	t.Setenv("MEMBANK_QUERY_TIMEOUT", "250ms")
	if got := GetQueryTimeout(); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}

	t.Setenv("MEMBANK_QUERY_TIMEOUT", "not-a-duration")
	if got := GetQueryTimeout(); got != DefaultQueryTimeout {
		t.Fatalf("expected default for malformed value, got %v", got)
	}
}
