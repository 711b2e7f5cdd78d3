package config

import (
	"os"
	"path/filepath"
)

// appDir is the folder name used under the XDG data and config homes.
const appDir = "tarots"

// XDGDataHome returns XDG_DATA_HOME or its default, ~/.local/share.
func XDGDataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// XDGConfigHome returns XDG_CONFIG_HOME or its default, ~/.config.
func XDGConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultDataDir is where documents are stored by the file backend.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appDir)
}

// DefaultDeckLibrary is the shared tarot deck library folder.
func DefaultDeckLibrary() string {
	return filepath.Join(XDGDataHome(), "tarot", "decks")
}

// DefaultConfigDir is searched for config.yaml after the working directory.
func DefaultConfigDir() string {
	return filepath.Join(XDGConfigHome(), appDir)
}
