package session

import (
	"net/http"
	"strings"
)

const (
	ProtectedPrefix = "/u/"
	LoginPath       = "/login"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allow    bool
	Location string // redirect target when Allow is false
}

// Guard redirects unauthenticated navigation away from protected paths. It
// looks at the mirror cookies only and does not check roles.
type Guard struct {
	Prefix    string
	LoginPath string
}

// DefaultGuard protects /u/ and sends visitors to /login.
var DefaultGuard = Guard{Prefix: ProtectedPrefix, LoginPath: LoginPath}

// Decide applies DefaultGuard.
func Decide(path, token, role string) Decision {
	return DefaultGuard.Decide(path, token, role)
}

func (g Guard) Decide(path, token, role string) Decision {
	if strings.HasPrefix(path, g.Prefix) && (token == "" || role == "") {
		return Decision{Location: g.LoginPath}
	}
	return Decision{Allow: true}
}

// Middleware runs the guard before anything downstream sees the request.
func (g Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r.URL.Path, cookieValue(r, TokenKey), cookieValue(r, RoleKey))
		if !d.Allow {
			http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
