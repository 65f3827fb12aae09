package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

type stubWM struct {
	mu       sync.Mutex
	name     string
	commands []string
}

func (s *stubWM) GetTree(context.Context) (*wm.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	num := 1
	xid := int64(42)
	return &wm.Node{Type: wm.NodeRoot, Nodes: []*wm.Node{
		{ID: 7, Type: wm.NodeWorkspace, Name: s.name, Num: &num, Nodes: []*wm.Node{
			{ID: 8, Type: wm.NodeCon, Window: &xid, WindowProperties: wm.WindowProperties{Class: "URxvt"}},
		}},
	}}, nil
}

func (s *stubWM) RunCommand(_ context.Context, command string) ([]wm.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command)
	if i := strings.LastIndex(command, ` to "`); i >= 0 {
		s.name = strings.TrimSuffix(command[i+len(` to "`):], `"`)
	}
	return []wm.CommandResult{{Success: true}}, nil
}

type stubEvents struct {
	ch  chan wm.Event
	err error
}

func (s *stubEvents) Events() <-chan wm.Event { return s.ch }
func (s *stubEvents) Err() error              { return s.err }

func newTestSupervisor(dial dialFunc) *Supervisor {
	s := NewSupervisor("/tmp/i3-test.sock", slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.InitialInterval = time.Millisecond
	s.MaxElapsed = 5 * time.Second
	s.dial = dial
	return s
}

func testSettings() *models.Settings {
	s := models.NewSettings()
	s.Backend = models.BackendNone
	return s
}

func TestSupervisor_ReconnectsUntilShutdown(t *testing.T) {
	stub := &stubWM{name: "1"}
	var dials int
	dial := func(ctx context.Context, socket string) (*session, error) {
		dials++
		switch dials {
		case 1:
			return nil, errors.New("connection refused")
		case 2:
			// The window manager restarts in place.
			ev := &stubEvents{ch: make(chan wm.Event, 1)}
			ev.ch <- &wm.ShutdownEvent{Change: "restart"}
			return &session{wm: stub, events: ev, close: func() {}}, nil
		default:
			ev := &stubEvents{ch: make(chan wm.Event, 1)}
			ev.ch <- &wm.ShutdownEvent{Change: "exit"}
			return &session{wm: stub, events: ev, close: func() {}}, nil
		}
	}

	sup := newTestSupervisor(dial)
	if err := sup.Run(context.Background(), testSettings()); err != nil {
		t.Fatalf("Run() error = %v, want clean exit", err)
	}
	if dials != 3 {
		t.Errorf("dialed %d times, want 3", dials)
	}
	if len(stub.commands) != 1 {
		t.Errorf("commands = %v, want one rename", stub.commands)
	}
}

func TestSupervisor_KeepsNamesAcrossReconnects(t *testing.T) {
	stub := &stubWM{name: "1"}
	var dials int
	dial := func(ctx context.Context, socket string) (*session, error) {
		dials++
		ev := &stubEvents{ch: make(chan wm.Event, 2)}
		if dials == 1 {
			num := models.NumUnset
			stub.mu.Lock()
			stub.name = "web"
			stub.mu.Unlock()
			ev.ch <- &wm.WorkspaceEvent{Change: "rename", Current: &wm.Node{ID: 7, Type: wm.NodeWorkspace, Name: "web", Num: &num}}
			close(ev.ch)
			ev.err = errors.New("EOF")
		} else {
			ev.ch <- &wm.ShutdownEvent{Change: "exit"}
		}
		return &session{wm: stub, events: ev, close: func() {}}, nil
	}

	sup := newTestSupervisor(dial)
	if err := sup.Run(context.Background(), testSettings()); err != nil {
		t.Fatal(err)
	}
	if name, _ := sup.names.Get(7); name != "web" {
		t.Errorf("custom name = %q after reconnect, want web", name)
	}
}

func TestSupervisor_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dial := func(ctx context.Context, socket string) (*session, error) {
		cancel()
		return nil, ctx.Err()
	}
	sup := newTestSupervisor(dial)
	if err := sup.Run(ctx, testSettings()); err != nil {
		t.Errorf("Run() error = %v, want nil on cancel", err)
	}
}

func TestSupervisor_GivesUp(t *testing.T) {
	boom := errors.New("no such file or directory")
	dial := func(ctx context.Context, socket string) (*session, error) {
		return nil, boom
	}
	sup := newTestSupervisor(dial)
	sup.MaxElapsed = 20 * time.Millisecond
	if err := sup.Run(context.Background(), testSettings()); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestSupervisor_LongSessionDoesNotExhaustRetries(t *testing.T) {
	stub := &stubWM{name: "1"}
	var dials int
	dial := func(ctx context.Context, socket string) (*session, error) {
		dials++
		ev := &stubEvents{ch: make(chan wm.Event, 1)}
		if dials == 1 {
			// The first session outlives MaxElapsed before i3 restarts.
			go func() {
				time.Sleep(300 * time.Millisecond)
				ev.ch <- &wm.ShutdownEvent{Change: "restart"}
			}()
		} else {
			ev.ch <- &wm.ShutdownEvent{Change: "exit"}
		}
		return &session{wm: stub, events: ev, close: func() {}}, nil
	}

	sup := newTestSupervisor(dial)
	sup.MaxElapsed = 100 * time.Millisecond
	if err := sup.Run(context.Background(), testSettings()); err != nil {
		t.Fatalf("Run() error = %v, want clean exit", err)
	}
	if dials != 2 {
		t.Errorf("dialed %d times, want 2", dials)
	}
}

func TestSupervisor_FailedDialsAfterSession(t *testing.T) {
	stub := &stubWM{name: "1"}
	boom := errors.New("connection refused")
	var dials int
	dial := func(ctx context.Context, socket string) (*session, error) {
		dials++
		switch {
		case dials == 1:
			ev := &stubEvents{ch: make(chan wm.Event, 1)}
			go func() {
				time.Sleep(100 * time.Millisecond)
				ev.ch <- &wm.ShutdownEvent{Change: "restart"}
			}()
			return &session{wm: stub, events: ev, close: func() {}}, nil
		case dials < 4:
			return nil, boom
		default:
			ev := &stubEvents{ch: make(chan wm.Event, 1)}
			ev.ch <- &wm.ShutdownEvent{Change: "exit"}
			return &session{wm: stub, events: ev, close: func() {}}, nil
		}
	}

	sup := newTestSupervisor(dial)
	sup.MaxElapsed = 50 * time.Millisecond
	if err := sup.Run(context.Background(), testSettings()); err != nil {
		t.Fatalf("Run() error = %v, want clean exit", err)
	}
	if dials != 4 {
		t.Errorf("dialed %d times, want 4", dials)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"config-file", "socket", "log-file", "dry-run", "debug"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
	if f := rootCmd.Flags().ShorthandLookup("c"); f == nil || f.Name != "config-file" {
		t.Error("-c should be short for --config-file")
	}
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "version" {
			found = true
		}
	}
	if !found {
		t.Error("version subcommand not registered")
	}
}
