package loop

import "github.com/jask/completeinfo/internal/api"

// Msg is the closed set of events Update reacts to. Only this package can add
// a case; Update panics on anything it does not know.
type Msg interface {
	isMsg()
}

// GetUser asks for the user with ID to be fetched.
type GetUser struct {
	ID api.UserID
}

// SetText replaces the displayed text.
type SetText struct {
	Text string
}

func (GetUser) isMsg() {}
func (SetText) isMsg() {}

// Cmd describes a side effect for an Executor to run. A nil Cmd means none.
type Cmd interface {
	isCmd()
}

// FetchUser calls the user API's get operation. Its outcome comes back as the
// message built by OnUserFetched.
type FetchUser struct {
	ID api.UserID
}

func (FetchUser) isCmd() {}
