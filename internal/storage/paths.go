// Package storage keeps user preferences, game statistics and the game in
// progress in a Badger database.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "bitchess"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/bitchess/
// - Linux: $XDG_DATA_HOME/bitchess/ or ~/.local/share/bitchess/
// - Windows: %APPDATA%/bitchess/
func GetDataDir() (string, error) {
	baseDir, err := baseDataDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

func baseDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "Library", "Application Support"), nil

	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "AppData", "Roaming"), nil

	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, ".local", "share"), nil
	}
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	log.Debug("database directory", "path", dbDir)
	return dbDir, nil
}
