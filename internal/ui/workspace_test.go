package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var labelKey = NewKey[string]("label")

func TestContainerUserDataAndDispose(t *testing.T) {
	c := NewContainer()

	_, ok := labelKey.Get(c)
	assert.False(t, ok)

	labelKey.Set(c, "browser")
	v, ok := labelKey.Get(c)
	require.True(t, ok)
	assert.Equal(t, "browser", v)

	var order []int
	c.OnDispose(func() { order = append(order, 1) })
	c.OnDispose(func() { order = append(order, 2) })

	c.Dispose()
	c.Dispose()

	assert.True(t, c.Disposed())
	assert.Equal(t, []int{2, 1}, order)
	_, ok = labelKey.Get(c)
	assert.False(t, ok)

	late := false
	c.OnDispose(func() { late = true })
	assert.True(t, late)
}

func TestToolWindowShowMaterializesOnce(t *testing.T) {
	m := newToolWindowManager()
	created := 0
	w := m.Register("Browser", func(content *Container) error {
		created++
		labelKey.Set(content, "content")
		return nil
	})

	assert.Nil(t, w.SelectedContent())

	shown := 0
	require.NoError(t, w.Show(func() { shown++ }))
	require.NoError(t, w.Show(func() { shown++ }))

	assert.Equal(t, 1, created)
	assert.Equal(t, 2, shown)
	assert.True(t, w.Visible())

	label, ok := labelKey.Get(w.SelectedContent())
	require.True(t, ok)
	assert.Equal(t, "content", label)

	first := w.SelectedContent()
	w.Dispose()
	assert.True(t, first.Disposed())
	assert.Nil(t, w.SelectedContent())
	assert.False(t, w.Visible())

	require.NoError(t, w.Show(nil))
	assert.Equal(t, 2, created)
}

func TestToolWindowFactoryError(t *testing.T) {
	m := newToolWindowManager()
	w := m.Register("Broken", func(content *Container) error {
		return errors.New("no engine")
	})

	called := false
	err := w.Show(func() { called = true })
	assert.Error(t, err)
	assert.False(t, called)
	assert.Nil(t, w.SelectedContent())
}

func TestWorkspacesLifecycle(t *testing.T) {
	sched := NewManualScheduler()
	ws := NewWorkspaces(sched, nil)
	ws.DeclareToolWindow("Browser", func(*Container) error { return nil })

	_, ok := ws.First()
	assert.False(t, ok)
	assert.Equal(t, 0, ws.Count())

	a, err := ws.Open("a", "/tmp/a")
	require.NoError(t, err)
	_, err = ws.Open("b", "/tmp/b")
	require.NoError(t, err)

	_, err = ws.Open("a", "/elsewhere")
	assert.ErrorIs(t, err, ErrWorkspaceExists)

	first, ok := ws.First()
	require.True(t, ok)
	assert.Equal(t, "a", first.Name())
	assert.Equal(t, []string{"a", "b"}, ws.Names())

	w, ok := a.ToolWindows().Get("Browser")
	require.True(t, ok)
	require.NoError(t, w.Show(nil))
	content := w.SelectedContent()

	require.NoError(t, ws.Close("a"))
	assert.False(t, content.Disposed(), "disposal runs on the UI loop")
	sched.Drain()
	assert.True(t, content.Disposed())

	first, ok = ws.First()
	require.True(t, ok)
	assert.Equal(t, "b", first.Name())

	assert.ErrorIs(t, ws.Close("a"), ErrWorkspaceNotFound)

	ws.CloseAll()
	assert.Equal(t, 0, ws.Count())
}

func TestWorkspacesLookup(t *testing.T) {
	ws := NewWorkspaces(NewManualScheduler(), nil)
	ws.DeclareToolWindow("Terminal", nil)
	ws.DeclareToolWindow("Browser", nil)

	_, err := ws.Open("a", "/tmp/a")
	require.NoError(t, err)

	w, ok := ws.Get("a")
	require.True(t, ok)
	assert.Equal(t, "/tmp/a", w.Dir())

	ids, ok := ws.ToolWindowIDs("a")
	require.True(t, ok)
	assert.Equal(t, []string{"Browser", "Terminal"}, ids)

	_, ok = ws.Get("missing")
	assert.False(t, ok)
	_, ok = ws.ToolWindowIDs("missing")
	assert.False(t, ok)
}
