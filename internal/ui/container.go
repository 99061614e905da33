package ui

// Key is a typed user-data key for a Container
type Key[T any] struct {
	name string
}

// NewKey creates a user-data key. Keys compare by identity, not by name.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

func (k *Key[T]) String() string { return k.name }

// Get returns the value stored under k in c
func (k *Key[T]) Get(c *Container) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.data[k]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Set stores a value under k in c
func (k *Key[T]) Set(c *Container, v T) {
	c.data[k] = v
}

// Container holds the content of a tool window: arbitrary user data plus hooks
// run when the content is disposed. Confined to the UI loop.
type Container struct {
	data     map[any]any
	hooks    []func()
	disposed bool
}

// NewContainer creates an empty container
func NewContainer() *Container {
	return &Container{data: make(map[any]any)}
}

// OnDispose registers a hook. On an already disposed container the hook runs
// immediately.
func (c *Container) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	if c.disposed {
		fn()
		return
	}
	c.hooks = append(c.hooks, fn)
}

// Dispose runs the hooks in reverse registration order. Subsequent calls are no-ops.
func (c *Container) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true

	for i := len(c.hooks) - 1; i >= 0; i-- {
		c.hooks[i]()
	}
	c.hooks = nil
	clear(c.data)
}

// Disposed reports whether Dispose has run
func (c *Container) Disposed() bool {
	return c.disposed
}
