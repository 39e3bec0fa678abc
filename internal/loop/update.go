package loop

import (
	"fmt"

	"github.com/jask/completeinfo/internal/api"
)

// Init returns the starting state and no command.
func Init() (State, Cmd) {
	return State{Text: InitialText}, nil
}

// Update is the transition function. It is pure: equal inputs give equal
// outputs, and it never blocks.
func Update(msg Msg, state State) (State, Cmd) {
	switch m := msg.(type) {
	case GetUser:
		return state, FetchUser{ID: m.ID}
	case SetText:
		return State{Text: m.Text}, nil
	default:
		panic(fmt.Sprintf("loop: unhandled message %T", msg))
	}
}

// OnUserFetched turns the outcome of a FetchUser command into the message fed
// back into Update.
func OnUserFetched(user *api.User, err error) Msg {
	switch {
	case err != nil:
		return SetText{Text: FailureText}
	case user == nil:
		return SetText{Text: NotFoundText}
	default:
		return SetText{Text: user.Name}
	}
}
