package loop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/completeinfo/internal/api"
)

// fakeUsers answers FetchUser from a map; ids in fail return an error.
func fakeUsers(users map[uint32]string, fail map[uint32]bool) Executor {
	return ExecutorFunc(func(ctx context.Context, cmd Cmd) Msg {
		id := cmd.(FetchUser).ID
		if fail[id.Value()] {
			return OnUserFetched(nil, errors.New("connection refused"))
		}
		name, ok := users[id.Value()]
		if !ok {
			return OnUserFetched(nil, nil)
		}
		u := api.NewUser(id, name)
		return OnUserFetched(&u, nil)
	})
}

func TestRuntimeScenarios(t *testing.T) {
	exec := fakeUsers(map[uint32]string{1: "Alice"}, map[uint32]bool{7: true})
	tests := []struct {
		name string
		msg  Msg
		want string
	}{
		{name: "set text", msg: SetText{Text: "hello"}, want: "hello"},
		{name: "found", msg: GetUser{ID: api.NewUserID(1)}, want: "Alice"},
		{name: "absent", msg: GetUser{ID: api.NewUserID(999)}, want: NotFoundText},
		{name: "transport failure", msg: GetUser{ID: api.NewUserID(7)}, want: FailureText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRuntime(context.Background(), exec)
			require.Equal(t, InitialText, rt.State().Text)
			rt.Dispatch(tt.msg)
			rt.Wait()
			require.Equal(t, tt.want, rt.State().Text)
		})
	}
}

func TestRuntimeObservesEveryTransition(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	rt := NewRuntime(context.Background(),
		fakeUsers(map[uint32]string{1: "Alice"}, nil),
		WithOnChange(func(s State) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, s.Text)
		}),
	)
	rt.Dispatch(GetUser{ID: api.NewUserID(1)})
	rt.Wait()

	mu.Lock()
	defer mu.Unlock()
	// GetUser leaves the text alone, the completion replaces it
	require.Equal(t, []string{InitialText, "Alice"}, seen)
}

func TestRuntimeInterleavesUserMessages(t *testing.T) {
	release := make(chan struct{})
	exec := ExecutorFunc(func(ctx context.Context, cmd Cmd) Msg {
		<-release
		u := api.NewUser(cmd.(FetchUser).ID, "Alice")
		return OnUserFetched(&u, nil)
	})
	rt := NewRuntime(context.Background(), exec)
	rt.Dispatch(GetUser{ID: api.NewUserID(1)})
	rt.Dispatch(SetText{Text: "typed meanwhile"})
	require.Equal(t, "typed meanwhile", rt.State().Text)

	close(release)
	rt.Wait()
	require.Equal(t, "Alice", rt.State().Text)
}

func TestRuntimeRecoversFromFaultyExecutor(t *testing.T) {
	panicky := ExecutorFunc(func(ctx context.Context, cmd Cmd) Msg {
		panic("boom")
	})
	rt := NewRuntime(context.Background(), panicky)
	rt.Dispatch(GetUser{ID: api.NewUserID(1)})
	rt.Wait()
	require.Equal(t, FailureText, rt.State().Text)

	silent := ExecutorFunc(func(ctx context.Context, cmd Cmd) Msg { return nil })
	rt = NewRuntime(context.Background(), silent)
	rt.Dispatch(GetUser{ID: api.NewUserID(1)})
	rt.Wait()
	require.Equal(t, FailureText, rt.State().Text)
}

func TestRuntimeConcurrentDispatch(t *testing.T) {
	rt := NewRuntime(context.Background(), fakeUsers(map[uint32]string{1: "Alice"}, nil))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rt.Dispatch(GetUser{ID: api.NewUserID(1)})
		}()
	}
	wg.Wait()
	rt.Wait()
	require.Equal(t, "Alice", rt.State().Text)
}
