package wm

import (
	"errors"
	"strings"
)

// messageType identifies a request or reply.
type messageType uint32

const (
	messageRunCommand    messageType = 0
	messageGetWorkspaces messageType = 1
	messageSubscribe     messageType = 2
	messageGetTree       messageType = 4
	messageGetVersion    messageType = 7
)

// EventType identifies an event stream that can be subscribed to.
type EventType uint32

// Event streams.
const (
	EventWorkspace EventType = 0
	EventWindow    EventType = 3
	EventShutdown  EventType = 6
)

// eventBit is set on the type of every event message.
const eventBit = 1 << 31

func (t EventType) String() string {
	switch t {
	case EventWorkspace:
		return "workspace"
	case EventWindow:
		return "window"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Errors reported when the window manager announces a shutdown.
var (
	ErrShutdown = errors.New("window manager exited")
	ErrRestart  = errors.New("window manager is restarting")
)

// NodeType is the type of a tree node.
type NodeType string

// Node types.
const (
	NodeRoot        NodeType = "root"
	NodeOutput      NodeType = "output"
	NodeCon         NodeType = "con"
	NodeFloatingCon NodeType = "floating_con"
	NodeWorkspace   NodeType = "workspace"
	NodeDockArea    NodeType = "dockarea"
)

// WindowProperties are the X11 properties of a window.
type WindowProperties struct {
	Class    string `json:"class"`
	Instance string `json:"instance"`
	Title    string `json:"title"`
	Role     string `json:"window_role"`
}

// Node is a container of the layout tree.
type Node struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Type             NodeType         `json:"type"`
	Num              *int             `json:"num,omitempty"`
	Focused          bool             `json:"focused"`
	Urgent           bool             `json:"urgent"`
	Window           *int64           `json:"window"`
	AppID            *string          `json:"app_id,omitempty"`
	WindowProperties WindowProperties `json:"window_properties"`
	Nodes            []*Node          `json:"nodes"`
	FloatingNodes    []*Node          `json:"floating_nodes"`
}

// WorkspaceNum returns the node's workspace number, or -1 when it has
// none.
func (n *Node) WorkspaceNum() int {
	if n.Num == nil {
		return -1
	}
	return *n.Num
}

// IsWindow reports whether the node holds an application window.
func (n *Node) IsWindow() bool {
	if len(n.Nodes) > 0 || len(n.FloatingNodes) > 0 {
		return false
	}
	if n.Type != NodeCon && n.Type != NodeFloatingCon {
		return false
	}
	if n.Window != nil && *n.Window != 0 {
		return true
	}
	return n.AppID != nil
}

// ClassName returns the X11 class, falling back to the Wayland app_id.
func (n *Node) ClassName() string {
	if n.WindowProperties.Class != "" {
		return n.WindowProperties.Class
	}
	if n.AppID != nil {
		return *n.AppID
	}
	return ""
}

// IsInternalWorkspace reports whether the node is one of i3's hidden
// workspaces, such as __i3_scratch.
func (n *Node) IsInternalWorkspace() bool {
	return n.Type == NodeWorkspace && strings.HasPrefix(n.Name, "__")
}

// Workspace is one entry of a GET_WORKSPACES reply.
type Workspace struct {
	ID      int64  `json:"id"`
	Num     int    `json:"num"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Focused bool   `json:"focused"`
	Urgent  bool   `json:"urgent"`
	Output  string `json:"output"`
}

// CommandResult is the outcome of one command of a RUN_COMMAND request.
type CommandResult struct {
	Success    bool   `json:"success"`
	ParseError bool   `json:"parse_error,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Version is the reply to GET_VERSION.
type Version struct {
	Major                int    `json:"major"`
	Minor                int    `json:"minor"`
	Patch                int    `json:"patch"`
	HumanReadable        string `json:"human_readable"`
	LoadedConfigFileName string `json:"loaded_config_file_name"`
}

// Event is a decoded event message.
type Event interface {
	EventType() EventType
}

// WorkspaceEvent is sent when a workspace changes.
type WorkspaceEvent struct {
	Change  string `json:"change"`
	Current *Node  `json:"current"`
	Old     *Node  `json:"old"`
}

// EventType implements Event.
func (*WorkspaceEvent) EventType() EventType { return EventWorkspace }

// WindowEvent is sent when a window changes.
type WindowEvent struct {
	Change    string `json:"change"`
	Container *Node  `json:"container"`
}

// EventType implements Event.
func (*WindowEvent) EventType() EventType { return EventWindow }

// ShutdownEvent is sent when the window manager exits or restarts.
type ShutdownEvent struct {
	Change string `json:"change"`
}

// EventType implements Event.
func (*ShutdownEvent) EventType() EventType { return EventShutdown }

// Err returns ErrRestart or ErrShutdown depending on the change.
func (e *ShutdownEvent) Err() error {
	if e.Change == "restart" {
		return ErrRestart
	}
	return ErrShutdown
}
