// Package config resolves file locations and runtime settings for membank.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// DefaultQueryTimeout bounds each storage operation so a single slow query
// cannot hang the caller indefinitely.
const DefaultQueryTimeout = 5 * time.Second

// GetDataDir resolves the base directory for all membank storage. It checks
// MEMBANK_DIR first, then XDG paths, and finally falls back to the user's
// home directory.
func GetDataDir() string {
	if explicit := os.Getenv("MEMBANK_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "membank")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "membank")
}

// GetDBPath returns the absolute path to the SQLite database file.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "membank.db")
}

// GetOwnerID resolves the owner identity all operations are scoped to.
// MEMBANK_OWNER wins, then DEFAULT_OWNER_ID, then "default".
func GetOwnerID() string {
	if owner := os.Getenv("MEMBANK_OWNER"); owner != "" {
		return owner
	}
	if owner := os.Getenv("DEFAULT_OWNER_ID"); owner != "" {
		return owner
	}
	return "default"
}

// GetQueryTimeout returns the per-operation storage timeout, honoring
// MEMBANK_QUERY_TIMEOUT when it parses as a positive duration.
func GetQueryTimeout() time.Duration {
	if raw := os.Getenv("MEMBANK_QUERY_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return DefaultQueryTimeout
}
