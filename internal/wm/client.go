package wm

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Client is a request/reply connection to the window manager. Requests
// are serialized; a Client is safe for concurrent use.
type Client struct {
	path string

	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to the IPC socket at path.
func Dial(ctx context.Context, path string) (*Client, error) {
	conn, err := dialSocket(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Client{path: path, conn: conn}, nil
}

func dialSocket(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}
	return conn, nil
}

// SocketPath returns the path the client is connected to.
func (c *Client) SocketPath() string {
	return c.path
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// GetTree returns the root of the layout tree.
func (c *Client) GetTree(ctx context.Context) (*Node, error) {
	var root Node
	if err := c.roundTrip(ctx, messageGetTree, nil, &root); err != nil {
		return nil, fmt.Errorf("get_tree: %w", err)
	}
	return &root, nil
}

// GetWorkspaces returns every workspace.
func (c *Client) GetWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.roundTrip(ctx, messageGetWorkspaces, nil, &workspaces); err != nil {
		return nil, fmt.Errorf("get_workspaces: %w", err)
	}
	return workspaces, nil
}

// GetVersion returns the window manager version.
func (c *Client) GetVersion(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.roundTrip(ctx, messageGetVersion, nil, &v); err != nil {
		return nil, fmt.Errorf("get_version: %w", err)
	}
	return &v, nil
}

// RunCommand runs a command string and returns one result per command.
// Command-level failures are reported in the results, not as an error.
func (c *Client) RunCommand(ctx context.Context, command string) ([]CommandResult, error) {
	var results []CommandResult
	if err := c.roundTrip(ctx, messageRunCommand, []byte(command), &results); err != nil {
		return nil, fmt.Errorf("run_command %q: %w", command, err)
	}
	return results, nil
}

func (c *Client) roundTrip(ctx context.Context, typ messageType, payload []byte, reply any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
		defer c.conn.SetDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := writeMessage(c.conn, uint32(typ), payload); err != nil {
		return contextErr(ctx, err)
	}
	for {
		gotType, body, err := readMessage(c.conn)
		if err != nil {
			return contextErr(ctx, err)
		}
		if gotType&eventBit != 0 {
			// Events are only expected on subscription sockets.
			continue
		}
		if messageType(gotType) != typ {
			return fmt.Errorf("reply type %d does not match request type %d", gotType, typ)
		}
		if err := json.Unmarshal(body, reply); err != nil {
			return fmt.Errorf("decode reply: %w", err)
		}
		return nil
	}
}

func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Failed returns a combined error for the unsuccessful results, or nil.
func Failed(results []CommandResult) error {
	var msgs []string
	for _, r := range results {
		if !r.Success {
			msgs = append(msgs, r.Error)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("command failed: %s", strings.Join(msgs, "; "))
}
