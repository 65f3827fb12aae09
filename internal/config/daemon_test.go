package config

import (
	"os"
	"testing"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

func TestDaemonInfo_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	info, err := LoadDaemonInfo()
	if err != nil || info != nil {
		t.Fatalf("LoadDaemonInfo() = %v, %v; want nil, nil", info, err)
	}

	want := models.NewDaemonInfo("abc", os.Getpid(), "/tmp/settings.yaml", "/run/user/1000/i3/ipc-socket.1")
	if err := SaveDaemonInfo(want); err != nil {
		t.Fatal(err)
	}

	running, got, err := IsDaemonRunning()
	if err != nil {
		t.Fatal(err)
	}
	if !running {
		t.Error("IsDaemonRunning() = false for the test process")
	}
	if got.InstanceID != "abc" || got.PID != os.Getpid() || got.SocketPath != want.SocketPath {
		t.Errorf("loaded info = %+v", got)
	}

	if err := RemoveDaemonInfo(); err != nil {
		t.Fatal(err)
	}
	if err := RemoveDaemonInfo(); err != nil {
		t.Errorf("removing a missing file: %v", err)
	}
}

func TestIsDaemonRunning_Stale(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// PIDs above the kernel's pid_max can never be alive.
	stale := models.NewDaemonInfo("old", 1<<30, "", "")
	if err := SaveDaemonInfo(stale); err != nil {
		t.Fatal(err)
	}

	running, info, err := IsDaemonRunning()
	if err != nil {
		t.Fatal(err)
	}
	if running {
		t.Error("IsDaemonRunning() = true for a dead pid")
	}
	if info == nil || info.InstanceID != "old" {
		t.Errorf("info = %+v, want the stale entry", info)
	}

	path, _ := DaemonFile()
	if FileExists(path) {
		t.Error("stale daemon.yaml was not removed")
	}
}

func TestProcessAlive(t *testing.T) {
	if !ProcessAlive(os.Getpid()) {
		t.Error("ProcessAlive(self) = false")
	}
	if ProcessAlive(0) || ProcessAlive(-1) {
		t.Error("non-positive pids must not be reported alive")
	}
}
