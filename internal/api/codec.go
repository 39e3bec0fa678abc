package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	errEmptyPayload = errors.New("api: empty payload")
	errMissingField = errors.New("api: missing field")
)

// userIDWire is the single-case union shape the server speaks: {"UserId":1}.
type userIDWire struct {
	UserID json.RawMessage `json:"UserId"`
}

type userWire struct {
	ID   *UserID `json:"id"`
	Name *string `json:"name"`
}

func (id UserID) MarshalJSON() ([]byte, error) {
	return []byte(`{"UserId":` + strconv.FormatUint(uint64(id.v), 10) + `}`), nil
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	var w userIDWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("api: decode user id: %w", err)
	}
	if len(w.UserID) == 0 {
		return fmt.Errorf("api: decode user id: %w: UserId", errMissingField)
	}
	v, err := strconv.ParseUint(string(w.UserID), 10, 32)
	if err != nil {
		return fmt.Errorf("api: decode user id: %w", err)
	}
	id.v = uint32(v)
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userWire{ID: &u.ID, Name: &u.Name})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("api: decode user: %w", err)
	}
	switch {
	case w.ID == nil:
		return fmt.Errorf("api: decode user: %w: id", errMissingField)
	case w.Name == nil:
		return fmt.Errorf("api: decode user: %w: name", errMissingField)
	}
	*u = User{ID: *w.ID, Name: *w.Name}
	return nil
}

// EncodeUserIDArgs encodes the argument list of an operation taking a single
// UserID.
func EncodeUserIDArgs(id UserID) ([]byte, error) {
	return json.Marshal([]UserID{id})
}

// DecodeOptionalUser decodes an optional User. A JSON null is the absent case
// and yields (nil, nil); anything that is neither null nor a well formed user
// is an error.
func DecodeOptionalUser(data []byte) (*User, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errEmptyPayload
	}
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
