package models

import "time"

// DaemonInfo describes the running daemon.
// This corresponds to ~/.config/i3-app-list/daemon.yaml.
type DaemonInfo struct {
	Version    int       `yaml:"version"`
	InstanceID string    `yaml:"instance_id"`
	PID        int       `yaml:"pid"`
	ConfigFile string    `yaml:"config_file"`
	SocketPath string    `yaml:"socket_path"`
	StartedAt  time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(instanceID string, pid int, configFile, socketPath string) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		InstanceID: instanceID,
		PID:        pid,
		ConfigFile: configFile,
		SocketPath: socketPath,
		StartedAt:  time.Now().UTC(),
	}
}
