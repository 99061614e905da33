package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Threshold is the number of consecutive failures that opens the circuit
	Threshold uint32
	// Cooldown is how long the circuit stays open before one probe is let through
	Cooldown time.Duration
	// OnStateChange is called when an outcome changes the state
	OnStateChange func(name string, from State, to State)
}

func (s Settings) withDefaults() Settings {
	if s.Threshold == 0 {
		s.Threshold = 3
	}
	if s.Cooldown == 0 {
		s.Cooldown = 30 * time.Second
	}
	return s
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	return &Breaker{
		name:     name,
		settings: settings.withDefaults(),
		now:      time.Now,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Allow admits one call. The caller reports its outcome through done: nil is
// a success, context.Canceled counts as neither, anything else is a failure.
func (b *Breaker) Allow() (done func(err error), err error) {
	b.mu.Lock()
	state := b.current()
	switch {
	case state == StateOpen:
		b.mu.Unlock()
		return nil, ErrCircuitOpen
	case state == StateHalfOpen && b.probing:
		b.mu.Unlock()
		return nil, ErrCircuitOpen
	case state == StateHalfOpen:
		b.probing = true
	}
	b.mu.Unlock()

	var once sync.Once
	return func(err error) {
		once.Do(func() { b.record(state, err) })
	}, nil
}

func (b *Breaker) record(admittedIn State, err error) {
	b.mu.Lock()
	from := b.state
	if admittedIn == StateHalfOpen {
		b.probing = false
	}

	switch {
	case errors.Is(err, context.Canceled):
	case err == nil:
		b.failures = 0
		b.state = StateClosed
	default:
		b.failures++
		if admittedIn == StateHalfOpen || b.failures >= b.settings.Threshold {
			b.state = StateOpen
			b.openedAt = b.now()
		}
	}
	to := b.state
	b.mu.Unlock()

	if from != to && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}

// current moves an expired open circuit to half-open. Must hold mu.
func (b *Breaker) current() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.state = StateHalfOpen
		b.failures = 0
	}
	return b.state
}

// Group holds one breaker per key, created on first use
type Group struct {
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates a group whose breakers share settings
func NewGroup(settings Settings) *Group {
	return &Group{
		settings: settings,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker of key
func (g *Group) Get(key string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.breakers[key]
	if !ok {
		b = New(key, g.settings)
		g.breakers[key] = b
	}
	return b
}

// Open returns the keys whose circuit is not closed
func (g *Group) Open() []string {
	g.mu.Lock()
	breakers := make([]*Breaker, 0, len(g.breakers))
	for _, b := range g.breakers {
		breakers = append(breakers, b)
	}
	g.mu.Unlock()

	var keys []string
	for _, b := range breakers {
		if b.State() != StateClosed {
			keys = append(keys, b.Name())
		}
	}
	return keys
}
