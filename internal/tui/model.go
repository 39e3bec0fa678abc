package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/completeinfo/internal/loop"
)

// Model hosts the update loop inside Bubble Tea. Bubble Tea calls Update from
// a single goroutine, so transitions never overlap; command results come back
// as resultMsg and go through the same path as key presses.
type Model struct {
	ctx      context.Context
	exec     loop.Executor
	view     View
	logger   *slog.Logger
	state    loop.State
	initCmd  loop.Cmd
	help     help.Model
	width    int
	inflight int
}

type resultMsg struct {
	msg loop.Msg
}

func New(ctx context.Context, exec loop.Executor, view View, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	state, cmd := loop.Init()
	return &Model{
		ctx:     ctx,
		exec:    exec,
		view:    view,
		logger:  logger,
		state:   state,
		initCmd: cmd,
		help:    help.New(),
	}
}

// State returns the current application state.
func (m *Model) State() loop.State {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	cmd := m.initCmd
	m.initCmd = nil
	return m.run(cmd)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if key.Matches(msg, m.view.keys.Quit) {
			return m, tea.Quit
		}
		var queued []loop.Msg
		screen := m.view.Render(m.state, func(lm loop.Msg) {
			queued = append(queued, lm)
		})
		screen.Press(msg)
		cmds := make([]tea.Cmd, 0, len(queued))
		for _, lm := range queued {
			cmds = append(cmds, m.apply(lm))
		}
		return m, tea.Batch(cmds...)
	case resultMsg:
		m.inflight--
		return m, m.apply(msg.msg)
	}
	return m, nil
}

func (m *Model) View() string {
	screen := m.view.Render(m.state, func(loop.Msg) {})
	var b strings.Builder
	b.WriteString(screen.Body)
	b.WriteString("\n\n")
	if m.inflight > 0 {
		b.WriteString(statusStyle.Render(fmt.Sprintf("fetching... (%d in flight)", m.inflight)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(append(screen.Bindings(), m.view.keys.Quit)))
	if m.width <= 0 {
		return b.String()
	}
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, m.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) apply(msg loop.Msg) tea.Cmd {
	next, cmd := loop.Update(msg, m.state)
	m.state = next
	return m.run(cmd)
}

func (m *Model) run(cmd loop.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.inflight++
	ctx, exec, logger := m.ctx, m.exec, m.logger
	return func() tea.Msg {
		return resultMsg{msg: loop.Execute(ctx, exec, cmd, logger)}
	}
}
