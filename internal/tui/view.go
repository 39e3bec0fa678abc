package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/completeinfo/internal/api"
	"github.com/jask/completeinfo/internal/loop"
)

// Screen is what View renders: the body to draw and the actions a key press
// can trigger.
type Screen struct {
	Body    string
	Actions []Action
}

// Action dispatches exactly one message when a key matching Binding is
// pressed.
type Action struct {
	Binding key.Binding
	Press   func(tea.KeyMsg)
}

// Bindings lists the bindings of s, in order, for the help line.
func (s Screen) Bindings() []key.Binding {
	out := make([]key.Binding, 0, len(s.Actions))
	for _, a := range s.Actions {
		out = append(out, a.Binding)
	}
	return out
}

// Press runs the first action matching k and reports whether one did.
func (s Screen) Press(k tea.KeyMsg) bool {
	for _, a := range s.Actions {
		if key.Matches(k, a.Binding) {
			a.Press(k)
			return true
		}
	}
	return false
}

// View renders the state. It holds only configuration.
type View struct {
	DefaultUser api.UserID
	keys        keyMap
}

var _ loop.Renderer[Screen] = View{}

func NewView(defaultUser api.UserID) View {
	return View{DefaultUser: defaultUser, keys: defaultKeyMap()}
}

func (v View) Render(state loop.State, dispatch loop.Dispatch) Screen {
	body := titleStyle.Render("CompleteInformation") + "\n\n" + textStyle.Render(state.Text)
	return Screen{
		Body: body,
		Actions: []Action{
			{
				Binding: v.keys.Fetch,
				Press: func(tea.KeyMsg) {
					dispatch(loop.GetUser{ID: v.DefaultUser})
				},
			},
			{
				Binding: v.keys.FetchID,
				Press: func(k tea.KeyMsg) {
					n, err := strconv.ParseUint(k.String(), 10, 32)
					if err != nil {
						n = uint64(v.DefaultUser.Value())
					}
					dispatch(loop.GetUser{ID: api.NewUserID(uint32(n))})
				},
			},
			{
				Binding: v.keys.Reset,
				Press: func(tea.KeyMsg) {
					dispatch(loop.SetText{Text: loop.InitialText})
				},
			},
		},
	}
}
