package loop

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Runtime drives Update outside an event-loop host. Dispatch is serialised by
// a mutex, so no two transitions run at once; commands run on their own
// goroutines and re-enter through Dispatch when they finish.
type Runtime struct {
	ctx      context.Context
	exec     Executor
	logger   *slog.Logger
	onChange func(State)

	mu       sync.Mutex
	state    State
	inflight sync.WaitGroup
}

type RuntimeOption func(*Runtime)

func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithOnChange registers fn to observe every state after a transition. fn
// runs while the dispatch lock is held and must not call Dispatch.
func WithOnChange(fn func(State)) RuntimeOption {
	return func(r *Runtime) {
		r.onChange = fn
	}
}

func NewRuntime(ctx context.Context, exec Executor, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		ctx:    ctx,
		exec:   exec,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	state, cmd := Init()
	r.state = state
	r.run(cmd)
	return r
}

func (r *Runtime) Dispatch(msg Msg) {
	r.mu.Lock()
	next, cmd := Update(msg, r.state)
	r.state = next
	r.logger.Debug("dispatch", "msg", msgName(msg), "text", next.Text, "cmd", cmd != nil)
	if r.onChange != nil {
		r.onChange(next)
	}
	r.mu.Unlock()
	r.run(cmd)
}

// State returns the current state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Wait blocks until no command is in flight, including commands started by
// the messages of commands that finished while waiting.
func (r *Runtime) Wait() {
	r.inflight.Wait()
}

func (r *Runtime) run(cmd Cmd) {
	if cmd == nil {
		return
	}
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.Dispatch(Execute(r.ctx, r.exec, cmd, r.logger))
	}()
}

// Execute runs cmd on exec and always yields a message: a panic or a nil
// result becomes SetText{FailureText}.
func Execute(ctx context.Context, exec Executor, cmd Cmd, logger *slog.Logger) (msg Msg) {
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "command panicked", "cmd", cmdName(cmd), "panic", p)
			msg = SetText{Text: FailureText}
		}
	}()
	msg = exec.Execute(ctx, cmd)
	if msg == nil {
		logger.ErrorContext(ctx, "command returned no message", "cmd", cmdName(cmd))
		return SetText{Text: FailureText}
	}
	return msg
}

func msgName(msg Msg) string {
	switch msg.(type) {
	case GetUser:
		return "GetUser"
	case SetText:
		return "SetText"
	}
	return "unknown"
}

func cmdName(cmd Cmd) string {
	switch cmd.(type) {
	case FetchUser:
		return "FetchUser"
	}
	return "unknown"
}
