package remoting

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks every failure of a call: network errors, non-success
	// statuses and payloads that do not decode into the declared result type.
	ErrTransport = errors.New("remoting: transport failure")
	// ErrDecode is an ErrTransport whose cause is an undecodable payload.
	ErrDecode = fmt.Errorf("%w: undecodable payload", ErrTransport)

	ErrNoBaseURL        = errors.New("remoting: base url not configured")
	ErrUnknownOperation = errors.New("remoting: operation not declared by contract")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remoting: %s: http %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("remoting: %s: http %d: %s", e.Endpoint, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
