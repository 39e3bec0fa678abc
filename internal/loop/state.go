// Package loop holds the application state, the closed set of messages that
// change it and the pure transition function between them. Side effects are
// described as Cmd values and run elsewhere; their results come back as
// ordinary messages.
package loop

const (
	// InitialText is shown before anything has been fetched.
	InitialText = "start"
	// NotFoundText is shown when the server has no such user.
	NotFoundText = "error"
	// FailureText is shown when the call itself failed.
	FailureText = "request failed"
)

// State is everything the renderer draws. Update never mutates a State; it
// returns a new one.
type State struct {
	Text string
}
