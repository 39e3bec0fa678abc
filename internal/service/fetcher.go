package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jask/completeinfo/internal/api"
	"github.com/jask/completeinfo/internal/database/repository"
	"github.com/jask/completeinfo/internal/loop"
)

// Fetcher runs the commands emitted by loop.Update against the user API.
// History is optional; when set, every fetch outcome is recorded there.
type Fetcher struct {
	API     api.UserAPI
	History *repository.FetchLogRepo
	Logger  *slog.Logger
	Timeout time.Duration
}

var _ loop.Executor = (*Fetcher)(nil)

func (f *Fetcher) Execute(ctx context.Context, cmd loop.Cmd) loop.Msg {
	switch c := cmd.(type) {
	case loop.FetchUser:
		return f.FetchUser(ctx, c.ID)
	default:
		panic(fmt.Sprintf("service: unhandled command %T", cmd))
	}
}

// FetchUser calls get and folds the outcome into the next message.
func (f *Fetcher) FetchUser(ctx context.Context, id api.UserID) loop.Msg {
	user, err := f.get(ctx, id)
	f.record(ctx, id, user, err)
	return loop.OnUserFetched(user, err)
}

func (f *Fetcher) get(ctx context.Context, id api.UserID) (*api.User, error) {
	if f.API.Get == nil {
		return nil, fmt.Errorf("fetcher: user api not configured")
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	return f.API.Get(ctx, id)
}

func (f *Fetcher) record(ctx context.Context, id api.UserID, user *api.User, err error) {
	logger := f.logger()
	entry := repository.FetchLogEntry{UserID: id.Value()}
	switch {
	case err != nil:
		msg := err.Error()
		entry.Outcome, entry.Error = repository.OutcomeFailed, &msg
		logger.WarnContext(ctx, "fetch user failed", "user_id", id.Value(), "error", err)
	case user == nil:
		entry.Outcome = repository.OutcomeNotFound
		logger.InfoContext(ctx, "user not found", "user_id", id.Value())
	default:
		name := user.Name
		entry.Outcome, entry.Name = repository.OutcomeFound, &name
		logger.InfoContext(ctx, "user fetched", "user_id", id.Value(), "name", name)
	}
	if f.History == nil {
		return
	}
	// the fetch itself may have timed out; history gets its own budget
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := f.History.Record(rctx, entry); err != nil {
		logger.WarnContext(ctx, "record fetch history", "error", err)
	}
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f.Logger
}
