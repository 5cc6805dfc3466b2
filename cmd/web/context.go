package main

import (
	"net/http"

	"github.com/kayden-vs/katasweets/internal/session"
)

// currentSession returns the session pair attached by authenticate.
func currentSession(r *http.Request) session.Session {
	return session.FromContext(r.Context())
}

func (app *application) isAuthenticated(r *http.Request) bool {
	return currentSession(r).Authenticated()
}
