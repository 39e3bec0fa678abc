package api

import (
	"context"

	"github.com/jask/completeinfo/internal/remoting"
)

// UserAPI is the user contract as seen by callers. Get yields a nil *User with
// a nil error when the user does not exist; a non-nil error means the call
// itself failed.
type UserAPI struct {
	Get func(ctx context.Context, id UserID) (*User, error)
}

// GetUser is the wire description of UserAPI.Get.
var GetUser = remoting.Operation[UserID, *User]{
	Name:   "get",
	Encode: EncodeUserIDArgs,
	Decode: DecodeOptionalUser,
}

// UserContract is served under /IUserApi/<operation> by default.
var UserContract = remoting.NewContract("IUserApi", GetUser.Name)

// NewUserAPI builds a UserAPI whose calls go through proxy.
func NewUserAPI(proxy remoting.Proxy) (UserAPI, error) {
	client, err := proxy.Build(UserContract)
	if err != nil {
		return UserAPI{}, err
	}
	get, err := remoting.Bind(client, GetUser)
	if err != nil {
		return UserAPI{}, err
	}
	return UserAPI{Get: get}, nil
}
