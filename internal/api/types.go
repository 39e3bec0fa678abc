package api

import "cmp"

// UserID names a user. It wraps a uint32 and supports no arithmetic.
type UserID struct {
	v uint32
}

func NewUserID(v uint32) UserID {
	return UserID{v: v}
}

// Value unwraps the identifier.
func (id UserID) Value() uint32 {
	return id.v
}

// Compare orders identifiers by their wrapped integer.
func (id UserID) Compare(other UserID) int {
	return cmp.Compare(id.v, other.v)
}

// User is the record served by the user API. Treat it as a value: build a new
// one to represent any change.
type User struct {
	ID   UserID
	Name string
}

func NewUser(id UserID, name string) User {
	return User{ID: id, Name: name}
}
