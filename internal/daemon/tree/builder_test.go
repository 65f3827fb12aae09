package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

type staticSource struct {
	root  *wm.Node
	err   error
	calls int
}

func (s *staticSource) GetTree(context.Context) (*wm.Node, error) {
	s.calls++
	return s.root, s.err
}

func num(n int) *int { return &n }

func window(id int64, class, title string, focused bool) *wm.Node {
	xid := id + 1000
	return &wm.Node{
		ID:               id,
		Type:             wm.NodeCon,
		Name:             title,
		Focused:          focused,
		Window:           &xid,
		WindowProperties: wm.WindowProperties{Class: class, Instance: class + "-instance"},
	}
}

func sampleTree() *wm.Node {
	floating := window(23, "mpv", "video.mkv", false)
	floating.Type = wm.NodeFloatingCon
	return &wm.Node{
		ID:   1,
		Type: wm.NodeRoot,
		Nodes: []*wm.Node{
			{ID: 2, Type: wm.NodeOutput, Name: "__i3", Nodes: []*wm.Node{
				{ID: 3, Type: wm.NodeCon, Name: "content", Nodes: []*wm.Node{
					{ID: 4, Type: wm.NodeWorkspace, Name: "__i3_scratch", Num: num(-1), Nodes: []*wm.Node{
						window(5, "KeePassXC", "passwords", false),
					}},
				}},
			}},
			{ID: 10, Type: wm.NodeOutput, Name: "eDP-1", Nodes: []*wm.Node{
				{ID: 11, Type: wm.NodeDockArea, Nodes: []*wm.Node{window(12, "i3bar", "bar", false)}},
				{ID: 13, Type: wm.NodeCon, Name: "content", Nodes: []*wm.Node{
					{ID: 20, Type: wm.NodeWorkspace, Name: "1: term", Num: num(1), Nodes: []*wm.Node{
						{ID: 21, Type: wm.NodeCon, Nodes: []*wm.Node{
							window(22, "URxvt", "zsh", true),
							window(24, "Firefox", "news", false),
						}},
					}, FloatingNodes: []*wm.Node{
						{ID: 25, Type: wm.NodeFloatingCon, Nodes: []*wm.Node{floating}},
					}},
					{ID: 30, Type: wm.NodeWorkspace, Name: "mail", Num: num(-1)},
				}},
			}},
		},
	}
}

func TestFromTree(t *testing.T) {
	snap := FromTree(sampleTree())

	if len(snap.Workspaces) != 2 {
		t.Fatalf("got %d workspaces, want 2 (scratchpad skipped)", len(snap.Workspaces))
	}

	first := snap.Workspaces[0]
	if first.ID != 20 || first.Num != 1 || first.Name != "1: term" {
		t.Errorf("first workspace = %+v", first)
	}
	var classes []string
	for _, w := range first.Windows {
		classes = append(classes, w.Class)
		if w.Workspace != first.ID {
			t.Errorf("window %q has workspace %d, want %d", w.Class, w.Workspace, first.ID)
		}
	}
	want := []string{"URxvt", "Firefox", "mpv"}
	if len(classes) != len(want) {
		t.Fatalf("windows = %v, want %v", classes, want)
	}
	for i := range want {
		if classes[i] != want[i] {
			t.Errorf("window %d = %q, want %q", i, classes[i], want[i])
		}
	}
	if !first.Windows[0].Focused || first.Windows[1].Focused {
		t.Error("focus flags not carried over")
	}
	if first.Windows[0].Instance != "URxvt-instance" || first.Windows[0].Title != "zsh" {
		t.Errorf("window 0 = %+v", first.Windows[0])
	}

	second := snap.Workspaces[1]
	if second.HasNum() || second.Name != "mail" || len(second.Windows) != 0 {
		t.Errorf("second workspace = %+v", second)
	}
}

func TestFromTree_WaylandAppID(t *testing.T) {
	appID := "foot"
	root := &wm.Node{Type: wm.NodeRoot, Nodes: []*wm.Node{
		{ID: 2, Type: wm.NodeWorkspace, Name: "1", Num: num(1), Nodes: []*wm.Node{
			{ID: 3, Type: wm.NodeCon, Name: "~", AppID: &appID},
		}},
	}}
	snap := FromTree(root)
	if got := snap.Workspaces[0].Windows[0].Class; got != "foot" {
		t.Errorf("class = %q, want app_id", got)
	}
}

func TestBuilder_SingleQuery(t *testing.T) {
	src := &staticSource{root: sampleTree()}
	snap, err := NewBuilder(src).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Errorf("GetTree called %d times, want 1", src.calls)
	}
	if snap.Get(30) == nil {
		t.Error("workspace 30 missing")
	}
}

func TestBuilder_PropagatesError(t *testing.T) {
	boom := errors.New("broken pipe")
	src := &staticSource{err: boom}
	if _, err := NewBuilder(src).Build(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Build() error = %v, want %v", err, boom)
	}
	if src.calls != 1 {
		t.Errorf("GetTree called %d times, want exactly 1", src.calls)
	}
}

func TestSnapshot_SetNum(t *testing.T) {
	snap := FromTree(sampleTree())
	if !snap.SetNum(30, 4) {
		t.Fatal("SetNum(30) = false")
	}
	if ws := snap.Get(30); ws.Num != 4 || !ws.HasNum() {
		t.Errorf("workspace 30 = %+v", ws)
	}
	if snap.SetNum(models.WorkspaceID(999), 1) {
		t.Error("SetNum on a missing workspace should report false")
	}
}
