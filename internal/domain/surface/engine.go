package surface

// Engine renders the content of a surface
type Engine interface {
	Load(url string)
	SetZoom(level float64)
	// OpenDevTools reports whether the engine has developer tools
	OpenDevTools() bool
}

// NopEngine renders nothing
type NopEngine struct{}

func (NopEngine) Load(string)        {}
func (NopEngine) SetZoom(float64)    {}
func (NopEngine) OpenDevTools() bool { return false }
