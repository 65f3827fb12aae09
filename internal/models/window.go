// Package models contains shared data structures used across the application.
package models

import "fmt"

// WorkspaceID is the window manager's opaque identity for a workspace
// container. It is stable for the lifetime of the workspace.
type WorkspaceID int64

// Window describes one application window as seen in a single snapshot.
type Window struct {
	Title     string
	Class     string // X11 WM_CLASS class, or the Wayland app_id on sway
	Instance  string // X11 WM_CLASS instance
	Focused   bool
	Workspace WorkspaceID
}

func (w Window) String() string {
	return fmt.Sprintf("window{class=%q instance=%q title=%q}", w.Class, w.Instance, w.Title)
}
