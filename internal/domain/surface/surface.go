package surface

import (
	"math"
	"strings"
)

const (
	MinZoom         = 0.25
	MaxZoom         = 5.0
	DefaultZoom     = 1.0
	DefaultZoomStep = 0.1
)

// State is a snapshot of a surface
type State struct {
	URL          string   `json:"url"`
	Title        string   `json:"title,omitempty"`
	Back         []string `json:"back"`
	Forward      []string `json:"forward"`
	CanGoBack    bool     `json:"canGoBack"`
	CanGoForward bool     `json:"canGoForward"`
	Zoom         float64  `json:"zoom"`
}

// Option configures a Surface
type Option func(*Surface)

// WithHomeURL sets the page loaded by GoHome
func WithHomeURL(url string) Option {
	return func(s *Surface) { s.home = strings.TrimSpace(url) }
}

// WithZoomStep sets the increment used by IncreaseZoom and DecreaseZoom
func WithZoomStep(step float64) Option {
	return func(s *Surface) {
		if step > 0 {
			s.zoomStep = step
		}
	}
}

// WithObserver receives a snapshot after every state change
func WithObserver(fn func(State)) Option {
	return func(s *Surface) { s.observer = fn }
}

// Surface is a navigable content view
type Surface struct {
	engine   Engine
	history  []string
	cursor   int // index of the current entry, -1 before the first navigation
	zoom     float64
	zoomStep float64
	home     string
	title    string
	observer func(State)
}

// New creates a surface with no current URL
func New(engine Engine, opts ...Option) *Surface {
	if engine == nil {
		engine = NopEngine{}
	}
	s := &Surface{
		engine:   engine,
		cursor:   -1,
		zoom:     DefaultZoom,
		zoomStep: DefaultZoomStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the current URL, empty before the first navigation
func (s *Surface) URL() string {
	if s.cursor < 0 {
		return ""
	}
	return s.history[s.cursor]
}

// LoadURL navigates to url. Blank urls are ignored. Loading the current URL
// again reloads it without adding a history entry.
func (s *Surface) LoadURL(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}

	if url != s.URL() {
		s.history = append(s.history[:s.cursor+1], url)
		s.cursor = len(s.history) - 1
		s.title = ""
	}
	s.engine.Load(url)
	s.notify()
}

// CanGoBack reports whether there is an earlier history entry
func (s *Surface) CanGoBack() bool {
	return s.cursor > 0
}

// CanGoForward reports whether there is a later history entry
func (s *Surface) CanGoForward() bool {
	return s.cursor >= 0 && s.cursor < len(s.history)-1
}

// GoBack moves one entry back
func (s *Surface) GoBack() {
	if !s.CanGoBack() {
		return
	}
	s.cursor--
	s.title = ""
	s.engine.Load(s.URL())
	s.notify()
}

// GoForward moves one entry forward
func (s *Surface) GoForward() {
	if !s.CanGoForward() {
		return
	}
	s.cursor++
	s.title = ""
	s.engine.Load(s.URL())
	s.notify()
}

// Reload loads the current URL again
func (s *Surface) Reload() {
	if url := s.URL(); url != "" {
		s.engine.Load(url)
		s.notify()
	}
}

// GoHome loads the home URL, if one is configured
func (s *Surface) GoHome() {
	s.LoadURL(s.home)
}

// Zoom returns the current zoom level
func (s *Surface) Zoom() float64 {
	return s.zoom
}

// SetZoom changes the zoom level by delta, clamped to [MinZoom, MaxZoom]
func (s *Surface) SetZoom(delta float64) {
	s.applyZoom(s.zoom + delta)
}

// IncreaseZoom zooms in by one step
func (s *Surface) IncreaseZoom() {
	s.SetZoom(s.zoomStep)
}

// DecreaseZoom zooms out by one step
func (s *Surface) DecreaseZoom() {
	s.SetZoom(-s.zoomStep)
}

// ResetZoom restores the default zoom level
func (s *Surface) ResetZoom() {
	s.applyZoom(DefaultZoom)
}

// OpenDevTools opens the engine's developer tools when it has them
func (s *Surface) OpenDevTools() bool {
	return s.engine.OpenDevTools()
}

// SetTitle records the title of the current page
func (s *Surface) SetTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.notify()
}

// State returns a snapshot of the surface
func (s *Surface) State() State {
	st := State{
		URL:          s.URL(),
		Title:        s.title,
		Back:         []string{},
		Forward:      []string{},
		CanGoBack:    s.CanGoBack(),
		CanGoForward: s.CanGoForward(),
		Zoom:         s.zoom,
	}
	if s.cursor > 0 {
		st.Back = append(st.Back, s.history[:s.cursor]...)
	}
	if s.cursor >= 0 {
		st.Forward = append(st.Forward, s.history[s.cursor+1:]...)
	}
	return st
}

func (s *Surface) applyZoom(level float64) {
	level = math.Round(level*100) / 100
	level = math.Max(MinZoom, math.Min(MaxZoom, level))
	if level == s.zoom {
		return
	}
	s.zoom = level
	s.engine.SetZoom(level)
	s.notify()
}

func (s *Surface) notify() {
	if s.observer != nil {
		s.observer(s.State())
	}
}
