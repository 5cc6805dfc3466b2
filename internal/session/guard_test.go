package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		token, role string
		want        Decision
	}{
		{"protected without cookies", "/u/profile", "", "", Decision{Location: "/login"}},
		{"protected with both", "/u/profile", "abc", "admin", Decision{Allow: true}},
		{"protected token only", "/u/search", "abc", "", Decision{Location: "/login"}},
		{"protected role only", "/u/search", "", "user", Decision{Location: "/login"}},
		{"public root", "/", "", "", Decision{Allow: true}},
		{"public login", "/login", "", "", Decision{Allow: true}},
		{"prefix needs slash", "/users", "", "", Decision{Allow: true}},
		{"non-admin is not blocked", "/u/search", "abc", "user", Decision{Allow: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.path, tt.token, tt.role))
		})
	}
}

func TestGuardMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	h := DefaultGuard.Middleware(next)

	t.Run("redirects without cookies", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/u/profile", nil))

		assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("passes with both cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/u/profile", nil)
		req.AddCookie(&http.Cookie{Name: TokenKey, Value: "abc"})
		req.AddCookie(&http.Cookie{Name: RoleKey, Value: "admin"})

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("public path passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("custom prefix", func(t *testing.T) {
		g := Guard{Prefix: "/admin/", LoginPath: "/sign-in"}
		rr := httptest.NewRecorder()
		g.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/x", nil))

		assert.Equal(t, "/sign-in", rr.Header().Get("Location"))
	})
}
