package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "printlab"

// ConfigDir is $XDG_CONFIG_HOME/printlab, or ~/.config/printlab when the
// variable is unset.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(HomeDir(), ".config", appName)
}

func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// HomeDir falls back to the filesystem root so paths stay absolute even in
// stripped-down containers.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return string(filepath.Separator)
	}
	return home
}

// ExpandPath resolves a leading ~/ and $VARS, then cleans the result.
// The empty string stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(HomeDir(), rest)
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only permissions.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
