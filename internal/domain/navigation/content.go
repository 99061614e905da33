package navigation

import (
	"io"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/registry"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/ui"
)

// SurfaceKey stores the browser surface in its tool window content
var SurfaceKey = ui.NewKey[*surface.Surface]("ide-browser.surface")

// TitleFunc reports the title of a loaded page. It may be called from any goroutine.
type TitleFunc func(url, title string)

// EngineFactory creates the render engine of a new surface
type EngineFactory func(onTitle TitleFunc) surface.Engine

// BrowserContent returns the content factory of the Browser tool window
func BrowserContent(reg *registry.Registry, sched ui.Scheduler, newEngine EngineFactory, opts ...surface.Option) ui.ContentFactory {
	return func(content *ui.Container) error {
		var surf *surface.Surface

		var engine surface.Engine = surface.NopEngine{}
		if newEngine != nil {
			engine = newEngine(func(url, title string) {
				_ = sched.Post(func() {
					if surf != nil && surf.URL() == url {
						surf.SetTitle(title)
					}
				})
			})
		}

		surf = surface.New(engine, opts...)
		SurfaceKey.Set(content, surf)
		reg.Register(registry.Browser, surf, content)

		if closer, ok := engine.(io.Closer); ok {
			content.OnDispose(func() { _ = closer.Close() })
		}
		return nil
	}
}
