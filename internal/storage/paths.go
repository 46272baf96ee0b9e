// Package storage provides persistent storage for user preferences, house
// rules and game statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "cliffchess"

// HomeEnv overrides the data directory when set.
const HomeEnv = "CLIFFCHESS_HOME"

// GetDataDir returns the data directory for the application, creating it if needed.
// - $CLIFFCHESS_HOME when set
// - macOS: ~/Library/Application Support/cliffchess/
// - Linux: $XDG_DATA_HOME/cliffchess/ or ~/.local/share/cliffchess/
// - Windows: %APPDATA%/cliffchess/
func GetDataDir() (string, error) {
	dir, err := dataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
	if err != nil {
		return "", err
	}
	return dir, ensureDir(dir)
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "db")
	return dbDir, ensureDir(dbDir)
}

// dataDir resolves the data directory without touching the filesystem.
func dataDir(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	if dir := getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	base := ""
	switch goos {
	case "darwin":
		h, err := home()
		if err != nil {
			return "", err
		}
		base = filepath.Join(h, "Library", "Application Support")
	case "windows":
		base = getenv("APPDATA")
		if base == "" {
			h, err := home()
			if err != nil {
				return "", err
			}
			base = filepath.Join(h, "AppData", "Roaming")
		}
	default:
		base = getenv("XDG_DATA_HOME")
		if base == "" {
			h, err := home()
			if err != nil {
				return "", err
			}
			base = filepath.Join(h, ".local", "share")
		}
	}
	return filepath.Join(base, appName), nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
