package ui

import (
	"fmt"
	"sort"
)

// ContentFactory fills a freshly created content container
type ContentFactory func(content *Container) error

// ToolWindow is a named panel of a workspace. Its content is created lazily on
// the first Show and lives until Dispose. Confined to the UI loop.
type ToolWindow struct {
	id      string
	factory ContentFactory
	content *Container
	visible bool
}

// ID returns the tool window id
func (w *ToolWindow) ID() string {
	return w.id
}

// Show makes the window visible, materializing its content first if needed,
// then calls onShown.
func (w *ToolWindow) Show(onShown func()) error {
	if w.content == nil {
		content := NewContainer()
		if w.factory != nil {
			if err := w.factory(content); err != nil {
				content.Dispose()
				return fmt.Errorf("create %s content: %w", w.id, err)
			}
		}
		w.content = content
	}

	w.visible = true
	if onShown != nil {
		onShown()
	}
	return nil
}

// Visible reports whether the window is shown
func (w *ToolWindow) Visible() bool {
	return w.visible
}

// SelectedContent returns the content container or nil before the first Show
func (w *ToolWindow) SelectedContent() *Container {
	return w.content
}

// Dispose disposes the content. A later Show creates fresh content.
func (w *ToolWindow) Dispose() {
	if w.content != nil {
		w.content.Dispose()
		w.content = nil
	}
	w.visible = false
}

// ToolWindowManager holds the tool windows of one workspace
type ToolWindowManager struct {
	windows map[string]*ToolWindow
}

func newToolWindowManager() *ToolWindowManager {
	return &ToolWindowManager{windows: make(map[string]*ToolWindow)}
}

// Register declares a tool window. Registering an existing id replaces its
// factory for content created afterwards.
func (m *ToolWindowManager) Register(id string, factory ContentFactory) *ToolWindow {
	if w, ok := m.windows[id]; ok {
		w.factory = factory
		return w
	}
	w := &ToolWindow{id: id, factory: factory}
	m.windows[id] = w
	return w
}

// Get returns the tool window with the given id
func (m *ToolWindowManager) Get(id string) (*ToolWindow, bool) {
	w, ok := m.windows[id]
	return w, ok
}

// IDs returns the registered ids in sorted order
func (m *ToolWindowManager) IDs() []string {
	ids := make([]string, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DisposeAll disposes the content of every tool window
func (m *ToolWindowManager) DisposeAll() {
	for _, w := range m.windows {
		w.Dispose()
	}
}
