// Package discovery publishes the automation server's bound port to a
// well-known file so test runners can find a running host.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// StateDirEnv overrides the default state root.
	StateDirEnv = "GAMEHARNESS_STATE_DIR"

	// DefaultFileName is the discovery file test runners look for.
	DefaultFileName = "testharness_port.txt"

	xdgStateHomeEnv = "XDG_STATE_HOME"
	appName         = "gameharness"
)

// RootDir returns the state root.
// Resolution order:
//  1. GAMEHARNESS_STATE_DIR (if set)
//  2. XDG_STATE_HOME/gameharness (if XDG_STATE_HOME is set)
//  3. os.UserConfigDir()/gameharness
func RootDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(StateDirEnv)); override != "" {
		return normalizePath(override)
	}

	if xdg := strings.TrimSpace(os.Getenv(xdgStateHomeEnv)); xdg != "" {
		root, err := normalizePath(xdg)
		if err != nil {
			return "", err
		}
		return filepath.Join(root, appName), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	root, err := normalizePath(configDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, appName), nil
}

// Path joins dir (or RootDir when empty) with fileName (or DefaultFileName).
func Path(dir, fileName string) (string, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if strings.TrimSpace(dir) == "" {
		root, err := RootDir()
		if err != nil {
			return "", err
		}
		dir = root
	}
	dir, err := normalizePath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// DefaultPath is the discovery file under RootDir.
func DefaultPath() (string, error) {
	return Path("", "")
}

func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}
