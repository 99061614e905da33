// Package command implements the browser toolbar actions as data: each command
// id maps to a pure function of the surface state that yields an operation and
// whether the command is enabled.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
)

// ID identifies a browser command
type ID string

const (
	Home      ID = "home"
	Back      ID = "back"
	Forward   ID = "forward"
	Reload    ID = "reload"
	OpenURL   ID = "open-url"
	DevTools  ID = "devtools"
	ZoomIn    ID = "zoom-in"
	ZoomOut   ID = "zoom-out"
	ZoomReset ID = "zoom-reset"
)

var ErrUnknownCommand = errors.New("unknown command")

// Op is a mutation applied to a surface
type Op func(*surface.Surface)

// Resolver decides what a command does for the given state and argument
type Resolver func(st surface.State, arg string) (Op, bool)

func always(op Op) Resolver {
	return func(surface.State, string) (Op, bool) { return op, true }
}

var table = map[ID]Resolver{
	Home: always((*surface.Surface).GoHome),
	Back: func(st surface.State, _ string) (Op, bool) {
		return (*surface.Surface).GoBack, st.CanGoBack
	},
	Forward: func(st surface.State, _ string) (Op, bool) {
		return (*surface.Surface).GoForward, st.CanGoForward
	},
	Reload: func(st surface.State, _ string) (Op, bool) {
		return (*surface.Surface).Reload, st.URL != ""
	},
	OpenURL: func(_ surface.State, arg string) (Op, bool) {
		arg = strings.TrimSpace(arg)
		return func(s *surface.Surface) { s.LoadURL(arg) }, arg != ""
	},
	DevTools:  always(func(s *surface.Surface) { s.OpenDevTools() }),
	ZoomIn:    always((*surface.Surface).IncreaseZoom),
	ZoomOut:   always((*surface.Surface).DecreaseZoom),
	ZoomReset: always((*surface.Surface).ResetZoom),
}

// IDs returns all command ids in sorted order
func IDs() []ID {
	ids := make([]ID, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Enabled reports whether a command applies to the given state
func Enabled(id ID, st surface.State, arg string) bool {
	resolve, ok := table[id]
	if !ok {
		return false
	}
	_, enabled := resolve(st, arg)
	return enabled
}

// Apply runs a command against s on the calling goroutine. It reports whether
// the command was enabled.
func Apply(s *surface.Surface, id ID, arg string) (bool, error) {
	resolve, ok := table[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	op, enabled := resolve(s.State(), arg)
	if !enabled {
		return false, nil
	}
	op(s)
	return true, nil
}

// Runner schedules a function against the browser surface
type Runner interface {
	WithSurface(ctx context.Context, fn func(*surface.Surface)) error
}

// Executor schedules commands on the UI loop
type Executor struct {
	runner Runner
}

// NewExecutor creates an executor backed by runner
func NewExecutor(runner Runner) *Executor {
	return &Executor{runner: runner}
}

// Execute schedules a command. Disabled commands are dropped when they run.
func (e *Executor) Execute(ctx context.Context, id ID, arg string) error {
	if _, ok := table[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return e.runner.WithSurface(ctx, func(s *surface.Surface) {
		_, _ = Apply(s, id, arg)
	})
}
