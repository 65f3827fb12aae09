package config

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

// LoadDaemonInfo loads the running daemon's info from daemon.yaml.
// Returns nil if the file doesn't exist.
func LoadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := DaemonFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.DaemonInfo
	if err := Load(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveDaemonInfo saves the daemon info to daemon.yaml.
func SaveDaemonInfo(info *models.DaemonInfo) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	path, err := DaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveDaemonInfo removes the daemon.yaml file.
func RemoveDaemonInfo() error {
	path, err := DaemonFile()
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// IsDaemonRunning checks if the daemon process is still running.
// Returns true if daemon.yaml exists and the PID is alive. A stale file
// is removed.
func IsDaemonRunning() (bool, *models.DaemonInfo, error) {
	info, err := LoadDaemonInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	if !ProcessAlive(info.PID) {
		_ = RemoveDaemonInfo()
		return false, info, nil
	}
	return true, info, nil
}

// ProcessAlive sends signal 0 to pid. EPERM means the process exists but
// belongs to someone else.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
