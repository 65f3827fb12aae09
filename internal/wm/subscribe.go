package wm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
)

// Subscription delivers events from a dedicated socket. The Events
// channel is closed when the stream ends; Err then reports why.
type Subscription struct {
	conn   net.Conn
	events chan Event
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// Subscribe opens a new socket and subscribes it to the given event
// types.
func (c *Client) Subscribe(ctx context.Context, types ...EventType) (*Subscription, error) {
	conn, err := dialSocket(ctx, c.path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	payload, err := json.Marshal(names)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("encode subscription: %w", err)
	}
	if err := writeMessage(conn, uint32(messageSubscribe), payload); err != nil {
		conn.Close()
		return nil, err
	}
	typ, body, err := readMessage(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read subscribe reply: %w", err)
	}
	if messageType(typ) != messageSubscribe {
		conn.Close()
		return nil, fmt.Errorf("unexpected reply type %d to subscribe", typ)
	}
	var reply struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		conn.Close()
		return nil, fmt.Errorf("decode subscribe reply: %w", err)
	}
	if !reply.Success {
		conn.Close()
		return nil, fmt.Errorf("subscribe to %v refused", names)
	}

	s := &Subscription{
		conn:   conn,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

// Events returns the event channel.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Err returns the error that ended the stream, or nil after Close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the subscription.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Subscription) loop() {
	defer close(s.events)
	for {
		typ, body, err := readMessage(s.conn)
		if err != nil {
			s.fail(err)
			return
		}
		if typ&eventBit == 0 {
			continue
		}
		ev, err := decodeEvent(EventType(typ&^eventBit), body)
		if err != nil {
			s.fail(err)
			return
		}
		if ev == nil {
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) fail(err error) {
	select {
	case <-s.done:
		return
	default:
	}
	if errors.Is(err, net.ErrClosed) {
		return
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// decodeEvent returns nil for event types the package does not model.
func decodeEvent(t EventType, body []byte) (Event, error) {
	var ev Event
	switch t {
	case EventWorkspace:
		ev = &WorkspaceEvent{}
	case EventWindow:
		ev = &WindowEvent{}
	case EventShutdown:
		ev = &ShutdownEvent{}
	default:
		return nil, nil
	}
	if err := json.Unmarshal(body, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", t, err)
	}
	return ev, nil
}
