package wm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// SocketPath finds the IPC socket of the running window manager. It
// checks $I3SOCK and $SWAYSOCK before asking the i3 and sway binaries.
func SocketPath(ctx context.Context) (string, error) {
	for _, env := range []string{"I3SOCK", "SWAYSOCK"} {
		if path := os.Getenv(env); path != "" {
			return path, nil
		}
	}
	for _, bin := range []string{"i3", "sway"} {
		out, err := exec.CommandContext(ctx, bin, "--get-socketpath").Output()
		if err != nil {
			continue
		}
		if path := strings.TrimSpace(string(out)); path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("no window manager socket found (set I3SOCK or SWAYSOCK)")
}
