package watcher

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

type fakeWindow struct {
	class   string
	title   string
	focused bool
}

type fakeWorkspace struct {
	id      int64
	name    string
	windows []fakeWindow
}

// fakeWM keeps workspaces the way i3 does: the number is derived from
// the leading digits of the name.
type fakeWM struct {
	mu         sync.Mutex
	workspaces []*fakeWorkspace
	commands   []string
	reject     map[string]bool
	transport  error
	treeCalls  int
}

func newFakeWM(workspaces ...*fakeWorkspace) *fakeWM {
	return &fakeWM{workspaces: workspaces, reject: make(map[string]bool)}
}

func numOf(name string) int {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return models.NumUnset
	}
	n, err := strconv.Atoi(name[:end])
	if err != nil {
		return models.NumUnset
	}
	return n
}

func (f *fakeWM) GetTree(context.Context) (*wm.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeCalls++
	if f.transport != nil {
		return nil, f.transport
	}

	content := &wm.Node{ID: 2, Type: wm.NodeCon, Name: "content"}
	nextID := int64(10000)
	for _, ws := range f.workspaces {
		num := numOf(ws.name)
		node := &wm.Node{ID: ws.id, Type: wm.NodeWorkspace, Name: ws.name, Num: &num}
		for _, w := range ws.windows {
			nextID++
			xid := nextID
			node.Nodes = append(node.Nodes, &wm.Node{
				ID:               nextID,
				Type:             wm.NodeCon,
				Name:             w.title,
				Focused:          w.focused,
				Window:           &xid,
				WindowProperties: wm.WindowProperties{Class: w.class, Instance: strings.ToLower(w.class)},
			})
		}
		content.Nodes = append(content.Nodes, node)
	}
	return &wm.Node{ID: 1, Type: wm.NodeRoot, Nodes: []*wm.Node{
		{ID: 3, Type: wm.NodeOutput, Name: "eDP-1", Nodes: []*wm.Node{content}},
	}}, nil
}

var renamePattern = regexp.MustCompile(`^rename workspace "((?:[^"\\]|\\.)*)" to "((?:[^"\\]|\\.)*)"$`)

var unquote = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

func (f *fakeWM) RunCommand(_ context.Context, command string) ([]wm.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transport != nil {
		return nil, f.transport
	}
	f.commands = append(f.commands, command)

	m := renamePattern.FindStringSubmatch(command)
	if m == nil {
		return []wm.CommandResult{{Success: false, ParseError: true, Error: "unknown command"}}, nil
	}
	oldName, newName := unquote.Replace(m[1]), unquote.Replace(m[2])
	if f.reject[newName] {
		return []wm.CommandResult{{Success: false, Error: "rejected"}}, nil
	}
	var target *fakeWorkspace
	for _, ws := range f.workspaces {
		if ws.name == newName {
			return []wm.CommandResult{{Success: false, Error: "New workspace name is already in use"}}, nil
		}
		if ws.name == oldName {
			target = ws
		}
	}
	if target == nil {
		return []wm.CommandResult{{Success: false, Error: "Old workspace not found"}}, nil
	}
	target.name = newName
	return []wm.CommandResult{{Success: true}}, nil
}

// userRename renames a workspace behind the reconciler's back and returns
// the event i3 would send.
func (f *fakeWM) userRename(id int64, name string) *wm.WorkspaceEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ws := range f.workspaces {
		if ws.id == id {
			ws.name = name
		}
	}
	num := numOf(name)
	return &wm.WorkspaceEvent{Change: "rename", Current: &wm.Node{ID: id, Type: wm.NodeWorkspace, Name: name, Num: &num}}
}

func (f *fakeWM) name(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ws := range f.workspaces {
		if ws.id == id {
			return ws.name
		}
	}
	return ""
}

func (f *fakeWM) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ws := range f.workspaces {
		if ws.id == id {
			f.workspaces = append(f.workspaces[:i], f.workspaces[i+1:]...)
			return
		}
	}
}

// takeCommands returns the commands issued so far and forgets them.
func (f *fakeWM) takeCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmds := f.commands
	f.commands = nil
	return cmds
}

func testSettings() *models.Settings {
	s := models.NewSettings()
	s.Backend = models.BackendNone
	s.Glyphs = map[string]string{
		models.UndefinedGlyph: "?",
		"terminal":            "T",
		"browser":             "B",
		"mail":                "M",
	}
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReconciler(t *testing.T, f *fakeWM, opts Options) *Reconciler {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	r, err := New(f, testSettings(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}
