package wm

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeServer answers IPC requests on a Unix socket. Replies are looked up
// by message type; subscriptions receive whatever is queued in events.
type fakeServer struct {
	t        *testing.T
	path     string
	listener net.Listener

	mu       sync.Mutex
	replies  map[messageType]any
	commands []string
	events   []fakeEvent
}

type fakeEvent struct {
	typ  EventType
	body any
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	// Unix socket paths are limited to 108 bytes; t.TempDir can exceed it.
	dir, err := os.MkdirTemp("", "wm")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "ipc.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fakeServer{
		t:        t,
		path:     path,
		listener: listener,
		replies:  make(map[messageType]any),
	}
	t.Cleanup(func() { listener.Close() })
	go s.serve()
	return s
}

func (s *fakeServer) reply(typ messageType, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[typ] = v
}

func (s *fakeServer) queueEvent(typ EventType, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fakeEvent{typ: typ, body: body})
}

func (s *fakeServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *fakeServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()
	for {
		typ, payload, err := readMessage(conn)
		if err != nil {
			return
		}
		switch messageType(typ) {
		case messageSubscribe:
			s.send(conn, typ, map[string]bool{"success": true})
			s.mu.Lock()
			events := append([]fakeEvent(nil), s.events...)
			s.mu.Unlock()
			for _, ev := range events {
				s.send(conn, uint32(ev.typ)|eventBit, ev.body)
			}
		case messageRunCommand:
			s.mu.Lock()
			s.commands = append(s.commands, string(payload))
			s.mu.Unlock()
			s.send(conn, typ, s.lookup(messageType(typ)))
		default:
			s.send(conn, typ, s.lookup(messageType(typ)))
		}
	}
}

func (s *fakeServer) lookup(typ messageType) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replies[typ]
}

func (s *fakeServer) send(conn net.Conn, typ uint32, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.t.Errorf("marshal fake reply: %v", err)
		return
	}
	if err := writeMessage(conn, typ, body); err != nil {
		return
	}
}
