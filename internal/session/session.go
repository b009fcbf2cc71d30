// Package session holds the signed-in user, if any.
package session

import "strings"

// User is the profile the backend returns on login.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// HasRole reports whether the user carries role.
func (u *User) HasRole(role string) bool {
	return u != nil && strings.EqualFold(u.Role, role)
}

// State is the auth slice. A nil User means signed out.
type State struct {
	User *User `json:"user"`
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Set replaces the session user unconditionally.
func Set(_ State, user User) State {
	u := user
	return State{User: &u}
}

// Clear signs the session out.
func Clear(State) State {
	return State{}
}

type SetUser struct {
	User User
}

type ClearUser struct{}

func (SetUser) Type() string   { return "auth/setAuth" }
func (ClearUser) Type() string { return "auth/logout" }

// Reduce applies a to s. Actions from other slices return s unchanged.
func Reduce(s State, a any) State {
	switch act := a.(type) {
	case SetUser:
		return Set(s, act.User)
	case ClearUser:
		return Clear(s)
	default:
		return s
	}
}
