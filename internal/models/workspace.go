package models

// NumUnset is the ordinal the window manager reports for a workspace
// whose name does not start with a number.
const NumUnset = -1

// Workspace is one workspace of a snapshot with its windows in window
// manager order.
type Workspace struct {
	ID      WorkspaceID
	Num     int
	Name    string
	Windows []Window
}

// HasNum reports whether the workspace has an ordinal.
func (w *Workspace) HasNum() bool {
	return w.Num >= 0
}

// Snapshot is the result of one tree query. Only Workspace.Name is
// updated after construction, when a rename has been confirmed.
type Snapshot struct {
	Workspaces []*Workspace
}

// Get returns the workspace with the given identity, or nil.
func (s *Snapshot) Get(id WorkspaceID) *Workspace {
	if s == nil {
		return nil
	}
	for _, ws := range s.Workspaces {
		if ws.ID == id {
			return ws
		}
	}
	return nil
}

// IDs returns the identities of every workspace in the snapshot.
func (s *Snapshot) IDs() []WorkspaceID {
	ids := make([]WorkspaceID, 0, len(s.Workspaces))
	for _, ws := range s.Workspaces {
		ids = append(ids, ws.ID)
	}
	return ids
}

// SetNum overrides the ordinal of a workspace. It reports false when the
// workspace is not part of the snapshot.
func (s *Snapshot) SetNum(id WorkspaceID, num int) bool {
	ws := s.Get(id)
	if ws == nil {
		return false
	}
	ws.Num = num
	return true
}
