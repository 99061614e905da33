package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/ui"
)

func TestRegisterResolve(t *testing.T) {
	r := New()

	_, ok := r.Resolve(Browser)
	assert.False(t, ok)

	s := surface.New(nil)
	r.Register(Browser, s, nil)

	got, ok := r.Resolve(Browser)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	r.Unregister(Browser)
	_, ok = r.Resolve(Browser)
	assert.False(t, ok)
}

func TestDisposeRemovesEntry(t *testing.T) {
	r := New()
	content := ui.NewContainer()
	s := surface.New(nil)

	r.Register(Browser, s, content)
	content.Dispose()

	_, ok := r.Resolve(Browser)
	assert.False(t, ok)
}

func TestReplacedEntrySurvivesOldOwnerDispose(t *testing.T) {
	r := New()

	oldContent := ui.NewContainer()
	oldSurface := surface.New(nil)
	r.Register(Browser, oldSurface, oldContent)

	newContent := ui.NewContainer()
	newSurface := surface.New(nil)
	r.Register(Browser, newSurface, newContent)

	oldContent.Dispose()

	got, ok := r.Resolve(Browser)
	require.True(t, ok)
	assert.Same(t, newSurface, got)

	newContent.Dispose()
	assert.Equal(t, 0, r.Len())
}
