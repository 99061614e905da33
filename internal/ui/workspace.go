package ui

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
)

var (
	ErrWorkspaceExists   = errors.New("workspace already open")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// Workspace is an open project with its tool windows
type Workspace struct {
	name    string
	dir     string
	windows *ToolWindowManager
}

// Name returns the workspace name
func (w *Workspace) Name() string { return w.name }

// Dir returns the workspace directory
func (w *Workspace) Dir() string { return w.dir }

// ToolWindows returns the tool window manager. Only use it on the UI loop.
func (w *Workspace) ToolWindows() *ToolWindowManager { return w.windows }

type toolWindowDecl struct {
	id      string
	factory ContentFactory
}

// Workspaces tracks open workspaces. The list itself is safe for concurrent
// use; the tool windows of each workspace are confined to the UI loop.
type Workspaces struct {
	mu     sync.RWMutex
	open   []*Workspace // Protected by mu, in opening order
	decls  []toolWindowDecl
	sched  Scheduler
	logger *logging.Logger
}

// NewWorkspaces creates an empty workspace list. Workspace disposal is posted to sched.
func NewWorkspaces(sched Scheduler, logger *logging.Logger) *Workspaces {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Workspaces{
		sched:  sched,
		logger: logger.Named("workspaces"),
	}
}

// DeclareToolWindow adds a tool window to every workspace opened afterwards
func (ws *Workspaces) DeclareToolWindow(id string, factory ContentFactory) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.decls = append(ws.decls, toolWindowDecl{id: id, factory: factory})
}

// Open opens a workspace with all declared tool windows
func (ws *Workspaces) Open(name, dir string) (*Workspace, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for _, w := range ws.open {
		if w.name == name {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, name)
		}
	}

	w := &Workspace{name: name, dir: dir, windows: newToolWindowManager()}
	for _, d := range ws.decls {
		w.windows.Register(d.id, d.factory)
	}
	ws.open = append(ws.open, w)

	ws.logger.Info("Workspace opened", zap.String("name", name), zap.String("dir", dir))
	return w, nil
}

// Close removes a workspace and disposes its tool windows on the UI loop
func (ws *Workspaces) Close(name string) error {
	ws.mu.Lock()
	var closed *Workspace
	for i, w := range ws.open {
		if w.name == name {
			closed = w
			ws.open = append(ws.open[:i], ws.open[i+1:]...)
			break
		}
	}
	ws.mu.Unlock()

	if closed == nil {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}

	if err := ws.sched.Post(closed.windows.DisposeAll); err != nil {
		ws.logger.Warn("Failed to schedule tool window disposal",
			zap.String("name", name),
			zap.Error(err),
		)
	}
	ws.logger.Info("Workspace closed", zap.String("name", name))
	return nil
}

// CloseAll closes every open workspace
func (ws *Workspaces) CloseAll() {
	for _, name := range ws.Names() {
		_ = ws.Close(name)
	}
}

// First returns the earliest opened workspace still open
func (ws *Workspaces) First() (*Workspace, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	if len(ws.open) == 0 {
		return nil, false
	}
	return ws.open[0], true
}

// Get returns an open workspace by name
func (ws *Workspaces) Get(name string) (*Workspace, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	for _, w := range ws.open {
		if w.name == name {
			return w, true
		}
	}
	return nil, false
}

// ToolWindowIDs returns the tool window ids of an open workspace. The set is
// fixed when the workspace opens, so it may be read off the UI loop.
func (ws *Workspaces) ToolWindowIDs(name string) ([]string, bool) {
	w, ok := ws.Get(name)
	if !ok {
		return nil, false
	}
	return w.windows.IDs(), true
}

// Count returns the number of open workspaces
func (ws *Workspaces) Count() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.open)
}

// Names returns the names of open workspaces in opening order
func (ws *Workspaces) Names() []string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	names := make([]string, len(ws.open))
	for i, w := range ws.open {
		names[i] = w.name
	}
	return names
}
