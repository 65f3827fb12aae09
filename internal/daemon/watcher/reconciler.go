// Package watcher keeps workspace names in sync with the windows they
// hold, reacting to window manager events and settings changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i3-app-list/i3-app-list/internal/daemon/names"
	"github.com/i3-app-list/i3-app-list/internal/daemon/tree"
	"github.com/i3-app-list/i3-app-list/internal/glyph"
	"github.com/i3-app-list/i3-app-list/internal/label"
	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

// WindowManager is the part of the IPC client the reconciler needs.
type WindowManager interface {
	GetTree(ctx context.Context) (*wm.Node, error)
	RunCommand(ctx context.Context, command string) ([]wm.CommandResult, error)
}

// EventSource delivers window manager events. *wm.Subscription
// implements it.
type EventSource interface {
	Events() <-chan wm.Event
	Err() error
}

// ErrEventsClosed is returned by Run when the event stream ends without
// an error of its own.
var ErrEventsClosed = errors.New("event stream closed")

// Rename is a planned workspace rename.
type Rename struct {
	ID  models.WorkspaceID
	Old string
	New string
}

// Options configures a Reconciler.
type Options struct {
	// Names holds custom workspace names. A new store is created when nil.
	Names *names.Store
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// DryRun logs renames instead of sending them.
	DryRun bool
}

// Reconciler renames workspaces so their names list the applications
// they contain. It is driven from a single goroutine and is not safe for
// concurrent use.
type Reconciler struct {
	wm      WindowManager
	builder *tree.Builder
	names   *names.Store
	logger  *slog.Logger
	dryRun  bool

	settings   *models.Settings
	classifier *glyph.Classifier
	composer   *label.Composer

	last *models.Snapshot
	// pending holds, per workspace, the labels sent whose rename event
	// has not been seen yet, oldest first.
	pending map[models.WorkspaceID][]string
	// applied is the last label sent to each workspace.
	applied map[models.WorkspaceID]string
}

// maxPending bounds the unacknowledged labels kept per workspace when
// rename events go missing.
const maxPending = 256

// New creates a reconciler using the given settings.
func New(client WindowManager, settings *models.Settings, opts Options) (*Reconciler, error) {
	r := &Reconciler{
		wm:      client,
		builder: tree.NewBuilder(client),
		names:   opts.Names,
		logger:  opts.Logger,
		dryRun:  opts.DryRun,
		pending: make(map[models.WorkspaceID][]string),
		applied: make(map[models.WorkspaceID]string),
	}
	if r.names == nil {
		r.names = names.NewStore()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if err := r.Reload(settings); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload swaps in new settings. On error the previous settings stay in
// effect.
func (r *Reconciler) Reload(settings *models.Settings) error {
	classifier, err := glyph.FromSettings(settings)
	if err != nil {
		return err
	}
	composer, err := label.New(settings)
	if err != nil {
		return err
	}
	r.settings = settings
	r.classifier = classifier
	r.composer = composer
	return nil
}

// Settings returns the settings in effect.
func (r *Reconciler) Settings() *models.Settings {
	return r.settings
}

// Names returns the custom-name store.
func (r *Reconciler) Names() *names.Store {
	return r.names
}

// Run renames every workspace once, then handles events and settings
// reloads until ctx is done, the event stream fails, or the window
// manager shuts down. A window manager shutdown is reported as
// wm.ErrShutdown or wm.ErrRestart.
func (r *Reconciler) Run(ctx context.Context, events EventSource, reloads <-chan *models.Settings) error {
	if err := r.RenameAll(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events.Events():
			if !ok {
				if err := events.Err(); err != nil {
					return err
				}
				return ErrEventsClosed
			}
			if err := r.Handle(ctx, ev); err != nil {
				return err
			}

		case settings := <-reloads:
			if err := r.Reload(settings); err != nil {
				r.logger.Warn("ignoring settings", "error", err)
				continue
			}
			r.logger.Info("settings reloaded")
			if err := r.RenameAll(ctx); err != nil {
				return err
			}
		}
	}
}

// Handle processes one event to completion.
func (r *Reconciler) Handle(ctx context.Context, ev wm.Event) error {
	switch e := ev.(type) {
	case *wm.WorkspaceEvent:
		switch e.Change {
		case "focus":
			return r.RenameAll(ctx)
		case "rename":
			return r.OnWorkspaceRename(ctx, e.Current)
		}
	case *wm.WindowEvent:
		switch e.Change {
		case "focus", "move", "title", "new", "close":
			return r.RenameAll(ctx)
		}
	case *wm.ShutdownEvent:
		r.logger.Info("window manager shutting down", "change", e.Change)
		return e.Err()
	}
	return nil
}

// RenameAll rebuilds every label from a fresh snapshot and renames the
// workspaces whose label changed.
func (r *Reconciler) RenameAll(ctx context.Context) error {
	snap, err := r.rebuild(ctx)
	if err != nil {
		return err
	}
	r.adopt(snap)
	return r.apply(ctx, snap, r.Plan(snap))
}

// OnWorkspaceRename handles a rename reported by the window manager.
// Renames issued by the reconciler itself are ignored. Any other name
// becomes the workspace's custom name and its label is rebuilt around
// it, keeping the number the workspace had before.
func (r *Reconciler) OnWorkspaceRename(ctx context.Context, current *wm.Node) error {
	if current == nil {
		return nil
	}
	id := models.WorkspaceID(current.ID)
	num := current.WorkspaceNum()
	echo := r.acknowledge(id, current.Name)
	if echo || r.composer.IsOwnName(current.Name, num) {
		r.logger.Debug("ignoring own rename", "id", id, "name", current.Name)
		return nil
	}

	r.names.Set(id, current.Name)
	r.logger.Info("custom name set", "id", id, "name", current.Name)

	prevNum := models.NumUnset
	if prev := r.last.Get(id); prev != nil {
		prevNum = prev.Num
	}

	snap, err := r.rebuild(ctx)
	if err != nil {
		return err
	}
	if prevNum >= 0 {
		snap.SetNum(id, prevNum)
	}
	r.adopt(snap)
	return r.apply(ctx, snap, r.Plan(snap))
}

// Preview computes the renames a full pass would issue without sending
// them.
func (r *Reconciler) Preview(ctx context.Context) (*models.Snapshot, []Rename, error) {
	snap, err := r.rebuild(ctx)
	if err != nil {
		return nil, nil, err
	}
	r.adopt(snap)
	return snap, r.Plan(snap), nil
}

// Snapshot builds a snapshot without touching any state.
func (r *Reconciler) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	return r.builder.Build(ctx)
}

// Plan computes the label of every workspace in snap and returns one
// rename per workspace whose label differs from its current name. It
// issues no commands.
func (r *Reconciler) Plan(snap *models.Snapshot) []Rename {
	var renames []Rename
	for _, ws := range snap.Workspaces {
		want := r.Label(ws)
		if want == "" || want == ws.Name {
			continue
		}
		renames = append(renames, Rename{ID: ws.ID, Old: ws.Name, New: want})
	}
	return renames
}

// Label composes the label of one workspace.
func (r *Reconciler) Label(ws *models.Workspace) string {
	custom, _ := r.names.Get(ws.ID)
	return r.composer.Compose(ws.Num, custom, r.apps(ws))
}

func (r *Reconciler) apps(ws *models.Workspace) []label.App {
	apps := make([]label.App, 0, len(ws.Windows))
	for _, w := range ws.Windows {
		g, err := r.classifier.Glyph(w)
		if err != nil {
			var cerr *glyph.ClassificationError
			if errors.As(err, &cerr) {
				r.logger.Error("glyph rule failed", "func", cerr.Rule, "window", w.String(), "error", cerr.Cause)
			} else {
				r.logger.Error("glyph rule failed", "window", w.String(), "error", err)
			}
		}
		apps = append(apps, label.App{Glyph: g, Focused: w.Focused})
	}
	return apps
}

func (r *Reconciler) rebuild(ctx context.Context) (*models.Snapshot, error) {
	snap, err := r.builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	r.last = snap
	r.collect(snap)
	return snap, nil
}

// collect forgets custom names and sent labels of workspaces that no
// longer exist.
func (r *Reconciler) collect(snap *models.Snapshot) {
	live := snap.IDs()
	if n := r.names.GarbageCollect(live); n > 0 {
		r.logger.Debug("dropped custom names", "count", n)
	}
	alive := make(map[models.WorkspaceID]struct{}, len(live))
	for _, id := range live {
		alive[id] = struct{}{}
	}
	for id := range r.pending {
		if _, ok := alive[id]; !ok {
			delete(r.pending, id)
		}
	}
	for id := range r.applied {
		if _, ok := alive[id]; !ok {
			delete(r.applied, id)
		}
	}
}

// acknowledge reports whether name is a label sent to workspace id whose
// rename event is still outstanding, and consumes it. Events arrive in
// the order the renames were sent, so older entries are dropped too.
func (r *Reconciler) acknowledge(id models.WorkspaceID, name string) bool {
	queue := r.pending[id]
	for i, l := range queue {
		if l != name {
			continue
		}
		if rest := queue[i+1:]; len(rest) > 0 {
			r.pending[id] = rest
		} else {
			delete(r.pending, id)
		}
		return true
	}
	return false
}

func (r *Reconciler) remember(id models.WorkspaceID, name string) {
	queue := append(r.pending[id], name)
	if len(queue) > maxPending {
		queue = queue[len(queue)-maxPending:]
	}
	r.pending[id] = queue
	r.applied[id] = name
}

// adopt keeps names of unnumbered workspaces, such as ones declared in
// the i3 config, by turning them into custom names. A glyph section left
// over from an earlier run is stripped first.
func (r *Reconciler) adopt(snap *models.Snapshot) {
	for _, ws := range snap.Workspaces {
		if ws.HasNum() || ws.Name == "" || r.applied[ws.ID] == ws.Name {
			continue
		}
		if _, ok := r.names.Get(ws.ID); ok {
			continue
		}
		name := ws.Name
		if glyphs := r.composer.Compose(models.NumUnset, "", r.apps(ws)); glyphs != "" {
			if name == glyphs {
				continue
			}
			name = strings.TrimSuffix(name, r.composer.PartSeparator()+glyphs)
		}
		name = r.composer.Unescape(name)
		r.names.Set(ws.ID, name)
		r.logger.Debug("adopted workspace name", "id", ws.ID, "name", name)
	}
}

// apply issues renames in order. A rejected command is logged and
// skipped; a transport error aborts the pass.
func (r *Reconciler) apply(ctx context.Context, snap *models.Snapshot, renames []Rename) error {
	for _, rn := range renames {
		if r.dryRun {
			r.logger.Info("would rename workspace", "id", rn.ID, "from", rn.Old, "to", rn.New)
			continue
		}

		results, err := r.wm.RunCommand(ctx, label.RenameCommand(rn.Old, rn.New))
		if err != nil {
			return fmt.Errorf("rename workspace %q: %w", rn.Old, err)
		}
		if err := wm.Failed(results); err != nil {
			r.logger.Warn("rename rejected", "id", rn.ID, "from", rn.Old, "to", rn.New, "error", err)
			continue
		}

		if ws := snap.Get(rn.ID); ws != nil {
			ws.Name = rn.New
		}
		r.remember(rn.ID, rn.New)
		r.logger.Debug("renamed workspace", "id", rn.ID, "from", rn.Old, "to", rn.New)
	}
	return nil
}
