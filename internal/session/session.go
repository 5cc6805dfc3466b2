// Package session keeps the storefront's authentication state: a backend
// issued token and a role label. The server-side scs session is the source of
// truth; the token and role cookies are a derived mirror that the route guard
// reads before any session is loaded.
package session

import (
	"context"
	"errors"
)

const (
	// TokenKey and RoleKey name both the scs session keys and the mirror cookies.
	TokenKey = "token"
	RoleKey  = "role"

	// CookiePath makes the mirror visible to every path of the site.
	CookiePath = "/"

	// RoleAdmin is the only role value the views treat specially.
	RoleAdmin = "admin"
)

// ErrPartialSession is returned when a caller tries to start a session with
// only one of token and role.
var ErrPartialSession = errors.New("session: token and role must both be set")

// Session is the typed view of the authentication state.
type Session struct {
	Token string
	Role  string
}

// Authenticated reports whether both halves are present. A missing half is
// treated as logged out.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != ""
}

// IsAdmin only drives presentation; nothing on the server side enforces it.
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == RoleAdmin
}

type contextKey string

const sessionContextKey = contextKey("session")

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext returns the Session stored by NewContext, or the zero Session.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionContextKey).(Session)
	return s
}
