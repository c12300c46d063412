// Package paths resolves where walkcat keeps its configuration and its
// catalogue data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "walkcat"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured. Notebook workflows keep the catalogue next to the
// notebooks.
const DefaultDataDirName = ".walkcat-db"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "WALKCAT_CONFIG_DIR"
	EnvDataDir   = "WALKCAT_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory:
//
//	Linux:   $XDG_CONFIG_HOME/walkcat (fallback ~/.config/walkcat)
//	macOS:   ~/Library/Application Support/walkcat
//	Windows: %APPDATA%/walkcat
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory:
//
//	Linux:   $XDG_DATA_HOME/walkcat (fallback ~/.local/share/walkcat)
//	macOS:   ~/Library/Application Support/walkcat
//	Windows: %APPDATA%/walkcat
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir returns the configuration directory, absolute, by
// precedence: flag, then WALKCAT_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory, absolute, by precedence:
// flag, then WALKCAT_DATA_DIR, then the data_dir value from config.yaml,
// then $(CWD)/.walkcat-db. The environment beats the file so a one-off
// WALKCAT_DATA_DIR=... run can point at another catalogue.
func ResolveDataDir(flag, configValue string) (string, error) {
	return firstAbs(cwdDataDir, flag, os.Getenv(EnvDataDir), configValue)
}

// ConfigFile returns the path of config.yaml inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

func cwdDataDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// firstAbs returns the first non-empty candidate made absolute, or the
// fallback.
func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
