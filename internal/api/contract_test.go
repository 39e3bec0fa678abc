package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/completeinfo/internal/remoting"
)

func newUserServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/IUserApi/get" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		switch string(body) {
		case `[{"UserId":1}]`:
			_, _ = io.WriteString(w, `{"id":{"UserId":1},"name":"Alice"}`)
		case `[{"UserId":2}]`:
			_, _ = io.WriteString(w, `{"id":{"UserId":2}}`)
		default:
			_, _ = io.WriteString(w, `null`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUserAPIGet(t *testing.T) {
	srv := newUserServer(t)
	users, err := NewUserAPI(remoting.CreateAPI().WithBaseURL(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	u, err := users.Get(ctx, NewUserID(1))
	require.NoError(t, err)
	require.Equal(t, &User{ID: NewUserID(1), Name: "Alice"}, u)

	u, err = users.Get(ctx, NewUserID(999))
	require.NoError(t, err)
	require.Nil(t, u, "absent is not an error")

	u, err = users.Get(ctx, NewUserID(2))
	require.ErrorIs(t, err, remoting.ErrDecode)
	require.Nil(t, u)
}

func TestUserAPIWrongRoute(t *testing.T) {
	srv := newUserServer(t)
	proxy := remoting.CreateAPI().
		WithBaseURL(srv.URL).
		WithRouteBuilder(func(contract, op string) string { return "/rpc/" + op })
	users, err := NewUserAPI(proxy)
	require.NoError(t, err)

	_, err = users.Get(context.Background(), NewUserID(1))
	require.ErrorIs(t, err, remoting.ErrTransport)
}

func TestNewUserAPIWithoutBaseURL(t *testing.T) {
	_, err := NewUserAPI(remoting.CreateAPI())
	require.ErrorIs(t, err, remoting.ErrNoBaseURL)
}
