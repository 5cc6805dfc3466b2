package main

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var csrfTokenRX = regexp.MustCompile(`<input type="hidden" name="csrf_token" value="(.+?)">`)

func extractCSRFToken(t *testing.T, body string) string {
	t.Helper()

	matches := csrfTokenRX.FindStringSubmatch(body)
	require.Len(t, matches, 2, "no csrf token found in body")

	return html.UnescapeString(matches[1])
}

// backendCall is one request the fake backend received.
type backendCall struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          map[string]any
}

// fakeBackend stands in for the sweets API. Responses are keyed by
// "METHOD /path"; unknown routes answer 404 with a fail envelope.
type fakeBackend struct {
	*httptest.Server

	mu        sync.Mutex
	calls     []backendCall
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{responses: map[string]fakeResponse{}}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)

	fb.respond(http.MethodGet, "/api/sweets/categories", http.StatusOK,
		`{"status":"success","data":[{"_id":"cat-1","name":"Indian"},{"_id":"cat-2","name":"Chocolate"}]}`)
	fb.respond(http.MethodGet, "/api/sweets/search", http.StatusOK,
		`{"status":"success","data":[{"_id":"sweet-1","name":"Ladoo","category":{"_id":"cat-1","name":"Indian"},"price":1.5,"quantity":12}]}`)
	return fb
}

func (fb *fakeBackend) respond(method, path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.responses[method+" "+path] = fakeResponse{status: status, body: body}
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	call := backendCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
	}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	fb.mu.Lock()
	fb.calls = append(fb.calls, call)
	resp, ok := fb.responses[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"fail","message":"Not found"}`))
		return
	}
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

// lastCall returns the most recent call to method and path.
func (fb *fakeBackend) lastCall(method, path string) (backendCall, bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	for i := len(fb.calls) - 1; i >= 0; i-- {
		if fb.calls[i].Method == method && fb.calls[i].Path == path {
			return fb.calls[i], true
		}
	}
	return backendCall{}, false
}

func newTestApplication(t *testing.T, apiURL string) *application {
	t.Helper()

	return newApplication(zerolog.Nop(), newSessionManager(12*time.Hour, true), apiURL, 5*time.Second)
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()
	return wrapTestServer(t, httptest.NewTLSServer(h))
}

// newPlainTestServer serves h over plain HTTP.
func newPlainTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()
	return wrapTestServer(t, httptest.NewServer(h))
}

func wrapTestServer(t *testing.T, ts *httptest.Server) *testServer {
	t.Helper()
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	ts.Client().Jar = jar
	ts.Client().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &testServer{ts}
}

func (ts *testServer) get(t *testing.T, urlPath string) (int, http.Header, string) {
	t.Helper()

	rs, err := ts.Client().Get(ts.URL + urlPath)
	require.NoError(t, err)
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return rs.StatusCode, rs.Header, string(bytes.TrimSpace(body))
}

// postForm submits form the way a browser on the same origin would, so the
// CSRF origin checks pass.
func (ts *testServer) postForm(t *testing.T, urlPath string, form url.Values) (int, http.Header, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.URL+urlPath, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", ts.URL)
	req.Header.Set("Referer", ts.URL+urlPath)

	rs, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return rs.StatusCode, rs.Header, string(bytes.TrimSpace(body))
}

func (ts *testServer) cookies(t *testing.T) map[string]string {
	t.Helper()

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)

	out := map[string]string{}
	for _, c := range ts.Client().Jar.Cookies(u) {
		out[c.Name] = c.Value
	}
	return out
}

// login walks through the login form and leaves the client signed in as role.
func (ts *testServer) login(t *testing.T, fb *fakeBackend, token, role string) {
	t.Helper()

	fb.respond(http.MethodPost, "/api/auth/login", http.StatusOK,
		`{"status":"success","data":{"token":"`+token+`","role":"`+role+`"}}`)

	_, _, body := ts.get(t, "/login")
	form := url.Values{}
	form.Add("email", "user@example.com")
	form.Add("password", "Secret123!")
	form.Add("csrf_token", extractCSRFToken(t, body))

	code, header, _ := ts.postForm(t, "/login", form)
	require.Equal(t, http.StatusSeeOther, code)
	require.Equal(t, "/u/search", header.Get("Location"))
}
