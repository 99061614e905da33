package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/command"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
)

const maxHistoryShown = 5

// Executor schedules a browser command
type Executor interface {
	Execute(ctx context.Context, id command.ID, arg string) error
}

// StateMsg carries a surface snapshot
type StateMsg surface.State

type streamClosedMsg struct{}

type resultMsg struct {
	id  command.ID
	err error
}

var keymap = map[string]command.ID{
	"b": command.Back,
	"f": command.Forward,
	"r": command.Reload,
	"h": command.Home,
	"+": command.ZoomIn,
	"=": command.ZoomIn,
	"-": command.ZoomOut,
	"0": command.ZoomReset,
	"d": command.DevTools,
}

type model struct {
	ctx    context.Context
	exec   Executor
	states <-chan surface.State
	theme  theme

	state    surface.State
	hasState bool

	prompting bool
	input     string

	status    string
	statusErr bool
	width     int
}

func newModel(ctx context.Context, states <-chan surface.State, exec Executor) model {
	return model{
		ctx:    ctx,
		exec:   exec,
		states: states,
		theme:  defaultTheme(),
	}
}

func listen(states <-chan surface.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return streamClosedMsg{}
		}
		return StateMsg(st)
	}
}

func (m model) Init() tea.Cmd {
	return listen(m.states)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case StateMsg:
		m.state = surface.State(t)
		m.hasState = true
		return m, listen(m.states)
	case streamClosedMsg:
		return m, tea.Quit
	case resultMsg:
		if t.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", t.id, t.err)
			m.statusErr = true
		} else {
			m.status = string(t.id)
			m.statusErr = false
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = t.Width
		return m, nil
	case tea.KeyMsg:
		if t.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.prompting {
			return m.updatePrompt(t)
		}
		return m.updateKeys(t)
	}
	return m, nil
}

func (m model) updateKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "o":
		m.prompting = true
		m.input = ""
		return m, nil
	}

	id, ok := keymap[key]
	if !ok {
		return m, nil
	}
	if m.hasState && !command.Enabled(id, m.state, "") {
		m.status = fmt.Sprintf("%s unavailable", id)
		m.statusErr = true
		return m, nil
	}
	return m, m.execute(id, "")
}

func (m model) updatePrompt(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		target := strings.TrimSpace(m.input)
		m.prompting = false
		m.input = ""
		if target == "" {
			return m, nil
		}
		return m, m.execute(command.OpenURL, target)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(k.Runes)
	}
	return m, nil
}

func (m model) execute(id command.ID, arg string) tea.Cmd {
	ctx, exec := m.ctx, m.exec
	return func() tea.Msg {
		return resultMsg{id: id, err: exec.Execute(ctx, id, arg)}
	}
}

func (m model) View() string {
	th := m.theme
	var b strings.Builder

	b.WriteString(th.Header.Render("IDE Browser"))
	b.WriteString("\n\n")

	if !m.hasState {
		b.WriteString(th.Muted.Render("waiting for the browser tool window..."))
	} else {
		url := m.state.URL
		if url == "" {
			url = th.Muted.Render("(blank)")
		} else {
			url = th.Accent.Render(url)
		}
		b.WriteString(m.row("URL", url))
		if m.state.Title != "" {
			b.WriteString(m.row("Title", m.state.Title))
		}
		b.WriteString(m.row("Zoom", fmt.Sprintf("%d%%", int(m.state.Zoom*100+0.5))))
		b.WriteString(m.row("Back", m.history(m.state.Back, true)))
		b.WriteString(m.row("Forward", m.history(m.state.Forward, false)))
	}

	b.WriteString("\n")
	if m.prompting {
		b.WriteString(th.Input.Render("open> " + m.input + "_"))
	} else {
		b.WriteString(m.help())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(th.Danger.Render(m.status))
		} else {
			b.WriteString(th.Success.Render(m.status))
		}
	}

	frame := th.Frame
	if m.width > 4 {
		frame = frame.Width(m.width - 2)
	}
	return frame.Render(b.String())
}

func (m model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Label.Render(label), value) + "\n"
}

// history lists the entries nearest to the current page first
func (m model) history(entries []string, back bool) string {
	if len(entries) == 0 {
		return m.theme.Muted.Render("-")
	}
	shown := make([]string, 0, maxHistoryShown)
	for i := range entries {
		if len(shown) == maxHistoryShown {
			shown = append(shown, fmt.Sprintf("(+%d)", len(entries)-i))
			break
		}
		idx := i
		if back {
			idx = len(entries) - 1 - i
		}
		shown = append(shown, entries[idx])
	}
	return strings.Join(shown, m.theme.Muted.Render(" | "))
}

func (m model) help() string {
	keys := []struct{ key, label string }{
		{"b", "back"}, {"f", "forward"}, {"r", "reload"}, {"h", "home"},
		{"+", "zoom in"}, {"-", "zoom out"}, {"0", "reset"}, {"d", "devtools"},
		{"o", "open"}, {"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.theme.Key.Render(k.key)+" "+m.theme.Muted.Render(k.label))
	}
	return strings.Join(parts, "  ")
}
