// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

// AppDirName is the name of the per-user configuration directory.
const AppDirName = "i3-app-list"

// File names
const (
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
	LogFileName      = "i3-app-list.log"
)

// Dir returns the configuration directory ($XDG_CONFIG_HOME/i3-app-list/).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

// SettingsFile returns the default path of the settings file.
func SettingsFile() (string, error) {
	return inDir(SettingsFileName)
}

// DaemonFile returns the path to the daemon.yaml file.
func DaemonFile() (string, error) {
	return inDir(DaemonFileName)
}

// LogFile returns the default path of the daemon log.
func LogFile() (string, error) {
	return inDir(LogFileName)
}

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureDir creates the configuration directory if it doesn't exist.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
