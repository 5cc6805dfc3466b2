package main

import (
	"net/http"

	"github.com/justinas/nosurf"
	"github.com/kayden-vs/katasweets/internal/session"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' fonts.googleapis.com; font-src fonts.gstatic.com; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

// requireAuthentication backs up the cookie guard for requests whose session
// pair is gone from both the session and the cookies.
func (app *application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.isAuthenticated(r) {
			http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
			return
		}

		w.Header().Add("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   app.sessionManager.Cookie.Secure,
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Warn().
			Str("path", r.URL.Path).
			AnErr("reason", nosurf.Reason(r)).
			Msg("CSRF check failed")
		app.clientError(w, http.StatusBadRequest)
	}))

	return csrfHandler
}

// authenticate attaches the session pair to the request context. When the
// server-side session has lost the pair but the mirror cookies still carry
// it, the pair is written back so backend calls keep their bearer token.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := app.sessions.Read(r)
		if !sess.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}

		if app.sessions.Token(r.Context()) == "" {
			app.sessions.Set(r.Context(), sess.Token, sess.Role)
		}

		r = r.WithContext(session.NewContext(r.Context(), sess))
		next.ServeHTTP(w, r)
	})
}
