package tui

import (
	"context"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/completeinfo/internal/api"
	"github.com/jask/completeinfo/internal/loop"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// recordingExec answers every fetch with "user <id>" and remembers the ids.
type recordingExec struct {
	ids []uint32
}

func (r *recordingExec) Execute(ctx context.Context, cmd loop.Cmd) loop.Msg {
	id := cmd.(loop.FetchUser).ID
	r.ids = append(r.ids, id.Value())
	if id.Value() == 9 {
		return loop.OnUserFetched(nil, nil)
	}
	u := api.NewUser(id, "user "+strconv.FormatUint(uint64(id.Value()), 10))
	return loop.OnUserFetched(&u, nil)
}

func TestRenderDispatchesOneMessagePerKey(t *testing.T) {
	view := NewView(api.NewUserID(1))
	cases := map[string]loop.Msg{
		"f": loop.GetUser{ID: api.NewUserID(1)},
		"4": loop.GetUser{ID: api.NewUserID(4)},
		"r": loop.SetText{Text: loop.InitialText},
	}
	for k, want := range cases {
		var got []loop.Msg
		screen := view.Render(loop.State{Text: "x"}, func(m loop.Msg) { got = append(got, m) })
		require.True(t, screen.Press(runes(k)), k)
		require.Equal(t, []loop.Msg{want}, got, k)
	}

	var got []loop.Msg
	screen := view.Render(loop.State{}, func(m loop.Msg) { got = append(got, m) })
	require.False(t, screen.Press(runes("z")))
	require.Empty(t, got)
}

func TestRenderShowsText(t *testing.T) {
	screen := NewView(api.NewUserID(1)).Render(loop.State{Text: "Alice"}, func(loop.Msg) {})
	require.Contains(t, screen.Body, "Alice")
	require.Len(t, screen.Bindings(), 3)
}

func TestModelFetchFlow(t *testing.T) {
	exec := &recordingExec{}
	m := New(context.Background(), exec, NewView(api.NewUserID(1)), nil)
	require.Nil(t, m.Init())
	require.Equal(t, loop.InitialText, m.State().Text)
	require.Contains(t, m.View(), loop.InitialText)

	_, cmd := m.Update(runes("f"))
	require.NotNil(t, cmd)
	require.Equal(t, loop.InitialText, m.State().Text, "fetch does not touch the text")
	require.Contains(t, m.View(), "in flight")

	result := cmd()
	_, next := m.Update(result)
	require.Nil(t, next)
	require.Equal(t, "user 1", m.State().Text)
	require.NotContains(t, m.View(), "in flight")
	require.Equal(t, []uint32{1}, exec.ids)

	_, cmd = m.Update(runes("9"))
	m.Update(cmd())
	require.Equal(t, loop.NotFoundText, m.State().Text)

	_, cmd = m.Update(runes("r"))
	require.Nil(t, cmd)
	require.Equal(t, loop.InitialText, m.State().Text)
}

func TestModelCompletionsMayInterleave(t *testing.T) {
	m := New(context.Background(), &recordingExec{}, NewView(api.NewUserID(1)), nil)

	_, first := m.Update(runes("2"))
	_, second := m.Update(runes("3"))
	m.Update(second())
	require.Equal(t, "user 3", m.State().Text)
	m.Update(first())
	require.Equal(t, "user 2", m.State().Text, "last completion wins")
}

func TestModelQuit(t *testing.T) {
	m := New(context.Background(), &recordingExec{}, NewView(api.NewUserID(1)), nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelViewTruncatesToWidth(t *testing.T) {
	m := New(context.Background(), &recordingExec{}, NewView(api.NewUserID(1)), nil)
	m.Update(tea.WindowSizeMsg{Width: 12, Height: 10})
	m.Update(runes("r"))
	for _, line := range strings.Split(m.View(), "\n") {
		require.LessOrEqual(t, len([]rune(stripANSI(line))), 12, line)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
