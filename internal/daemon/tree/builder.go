// Package tree builds workspace snapshots from the window manager's
// layout tree.
package tree

import (
	"context"

	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

// Source returns the layout tree.
type Source interface {
	GetTree(ctx context.Context) (*wm.Node, error)
}

// Builder turns one tree query into a snapshot.
type Builder struct {
	source Source
}

// NewBuilder creates a builder reading from source.
func NewBuilder(source Source) *Builder {
	return &Builder{source: source}
}

// Build queries the tree once and returns its workspaces with their
// windows. Errors from the source are returned as is; there is no retry.
func (b *Builder) Build(ctx context.Context) (*models.Snapshot, error) {
	root, err := b.source.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return FromTree(root), nil
}

// FromTree converts a layout tree into a snapshot. Windows are listed in
// depth-first order, tiling containers before floating ones. i3's
// internal workspaces and dock areas are skipped.
func FromTree(root *wm.Node) *models.Snapshot {
	snap := &models.Snapshot{}
	var walk func(n *wm.Node, ws *models.Workspace)
	walk = func(n *wm.Node, ws *models.Workspace) {
		switch {
		case n.Type == wm.NodeDockArea:
			return
		case n.Type == wm.NodeWorkspace:
			if n.IsInternalWorkspace() {
				return
			}
			ws = &models.Workspace{
				ID:   models.WorkspaceID(n.ID),
				Num:  n.WorkspaceNum(),
				Name: n.Name,
			}
			snap.Workspaces = append(snap.Workspaces, ws)
		case ws != nil && n.IsWindow():
			ws.Windows = append(ws.Windows, models.Window{
				Title:     n.Name,
				Class:     n.ClassName(),
				Instance:  n.WindowProperties.Instance,
				Focused:   n.Focused,
				Workspace: ws.ID,
			})
			return
		}
		for _, child := range n.Nodes {
			walk(child, ws)
		}
		for _, child := range n.FloatingNodes {
			walk(child, ws)
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return snap
}
