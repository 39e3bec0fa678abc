package loop

import "context"

// Dispatch feeds a message into the loop.
type Dispatch func(Msg)

// Renderer maps the current state to a UI description of type V. It keeps no
// state of its own and reports every user event it recognises as exactly one
// message through dispatch.
type Renderer[V any] interface {
	Render(state State, dispatch Dispatch) V
}

// Executor runs a command and returns the message carrying its outcome. It
// must not fail: errors are folded into the returned message.
type Executor interface {
	Execute(ctx context.Context, cmd Cmd) Msg
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, cmd Cmd) Msg

func (f ExecutorFunc) Execute(ctx context.Context, cmd Cmd) Msg {
	return f(ctx, cmd)
}
