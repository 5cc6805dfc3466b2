package session

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer exposes the store operations over HTTP so cookies travel the
// same way they do in the browser.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	sm := scs.New()
	store := NewStore(sm)

	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		store.Set(r.Context(), q.Get("token"), q.Get("role"))
		store.Mirror(r.Context(), w)
	})
	mux.HandleFunc("/begin", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if err := store.Begin(r.Context(), w, q.Get("token"), q.Get("role")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/clear", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, store.Clear(r.Context(), w))
	})
	mux.HandleFunc("/read", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(store.Read(r))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(store.Token(r.Context())))
	})

	ts := httptest.NewServer(sm.LoadAndSave(mux))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := ts.Client()
	client.Jar = jar
	return ts, client
}

func get(t *testing.T, client *http.Client, rawURL string) *http.Response {
	t.Helper()

	resp, err := client.Get(rawURL)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func mirrorCookies(t *testing.T, client *http.Client, rawURL string) map[string]string {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	out := map[string]string{}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == TokenKey || c.Name == RoleKey {
			out[c.Name] = c.Value
		}
	}
	return out
}

func readSession(t *testing.T, client *http.Client, base string) Session {
	t.Helper()

	var s Session
	require.NoError(t, json.NewDecoder(get(t, client, base+"/read").Body).Decode(&s))
	return s
}

func TestSetAndMirrorWritesBothCookies(t *testing.T) {
	pairs := []Session{
		{Token: "abc", Role: "admin"},
		{Token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.sig", Role: "user"},
		{Token: "t", Role: "r"},
	}

	for _, p := range pairs {
		ts, client := newTestServer(t)

		get(t, client, ts.URL+"/set?token="+url.QueryEscape(p.Token)+"&role="+url.QueryEscape(p.Role))

		assert.Equal(t, map[string]string{TokenKey: p.Token, RoleKey: p.Role}, mirrorCookies(t, client, ts.URL))
	}
}

func TestMirrorRoundTripsThroughCookies(t *testing.T) {
	pairs := []Session{
		{Token: "abc", Role: "admin"},
		{Token: "abc", Role: "store admin"},
		{Token: "a%41b", Role: "user"},
		{Token: "abc", Role: "a,b"},
		{Token: `say "hi"; bye`, Role: `back\slash`},
	}

	for _, p := range pairs {
		ts, client := newTestServer(t)
		get(t, client, ts.URL+"/set?token="+url.QueryEscape(p.Token)+"&role="+url.QueryEscape(p.Role))

		u, err := url.Parse(ts.URL)
		require.NoError(t, err)

		// A fresh manager has no server-side session, so Read must rely on
		// the cookies alone.
		sm := scs.New()
		store := NewStore(sm)

		var got Session
		h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = store.Read(r)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range client.Jar.Cookies(u) {
			if c.Name == TokenKey || c.Name == RoleKey {
				req.AddCookie(c)
			}
		}
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, p, got)
	}
}

func TestMirrorIsAllOrNothing(t *testing.T) {
	for _, q := range []string{"token=abc", "role=admin", "token=abc&role=", ""} {
		ts, client := newTestServer(t)

		resp := get(t, client, ts.URL+"/set?"+q)

		for _, c := range resp.Cookies() {
			assert.NotEqual(t, TokenKey, c.Name, "query %q", q)
			assert.NotEqual(t, RoleKey, c.Name, "query %q", q)
		}
		assert.Empty(t, mirrorCookies(t, client, ts.URL), "query %q", q)
	}
}

func TestSetRejectsPartialPair(t *testing.T) {
	ts, client := newTestServer(t)

	get(t, client, ts.URL+"/set?token=abc&role=admin")
	get(t, client, ts.URL+"/set?token=other")

	assert.Equal(t, Session{Token: "abc", Role: "admin"}, readSession(t, client, ts.URL))
}

func TestClearRemovesSessionAndCookies(t *testing.T) {
	ts, client := newTestServer(t)

	get(t, client, ts.URL+"/begin?token=abc&role=admin")
	require.Equal(t, Session{Token: "abc", Role: "admin"}, readSession(t, client, ts.URL))

	resp := get(t, client, ts.URL+"/clear")

	var expiredHeaders int
	for _, h := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(h, TokenKey+"=;") || strings.HasPrefix(h, RoleKey+"=;") {
			assert.Contains(t, h, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
			assert.Contains(t, h, "Path=/")
			expiredHeaders++
		}
	}
	assert.Equal(t, 2, expiredHeaders)

	assert.Empty(t, mirrorCookies(t, client, ts.URL))
	assert.Equal(t, Session{}, readSession(t, client, ts.URL))
}

func TestBeginRejectsPartialPair(t *testing.T) {
	ts, client := newTestServer(t)

	resp := get(t, client, ts.URL+"/begin?token=abc")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mirrorCookies(t, client, ts.URL))
}

func TestTokenReadsSessionOnly(t *testing.T) {
	ts, client := newTestServer(t)

	get(t, client, ts.URL+"/begin?token=abc&role=admin")

	body, err := io.ReadAll(get(t, client, ts.URL+"/token").Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(body))
}

func TestReadFallsBackToCookies(t *testing.T) {
	sm := scs.New()
	store := NewStore(sm)

	var got Session
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = store.Read(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "theme=dark; token=abc; role=store%20admin")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, Session{Token: "abc", Role: "store admin"}, got)
}

func TestReadPrefersSessionPerField(t *testing.T) {
	sm := scs.New()
	store := NewStore(sm)

	var got Session
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), TokenKey, "from-session")
		got = store.Read(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "token=from-cookie; role=user")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, Session{Token: "from-session", Role: "user"}, got)
}

func TestParseCookieHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "token=abc", map[string]string{"token": "abc"}},
		{"several", "a=1; token=abc; role=admin", map[string]string{"a": "1", "token": "abc", "role": "admin"}},
		{"value with equals", "token=a=b", map[string]string{"token": "a=b"}},
		{"encoded", "role=super%20user", map[string]string{"role": "super user"}},
		{"bad escape kept", "role=100%", map[string]string{"role": "100%"}},
		{"no value", "flag; token=abc", map[string]string{"token": "abc"}},
		{"empty value", "token=", map[string]string{"token": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCookieHeader(tt.header))
		})
	}
}

func TestSessionPredicates(t *testing.T) {
	assert.True(t, Session{Token: "abc", Role: "admin"}.IsAdmin())
	assert.False(t, Session{Token: "abc", Role: "user"}.IsAdmin())
	assert.False(t, Session{Role: "admin"}.IsAdmin())
	assert.False(t, Session{Token: "abc"}.Authenticated())
	assert.True(t, Session{Token: "abc", Role: "user"}.Authenticated())
}
