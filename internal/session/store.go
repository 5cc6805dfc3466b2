package session

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
)

// expired is the date written on cleared mirror cookies.
var expired = time.Unix(0, 0).UTC()

// Store reads and writes the session pair. It needs a context that has been
// through manager.LoadAndSave.
type Store struct {
	manager *scs.SessionManager
}

func NewStore(manager *scs.SessionManager) *Store {
	return &Store{manager: manager}
}

// Set writes token and role into the session. It does nothing and returns
// false unless both are non-empty.
func (s *Store) Set(ctx context.Context, token, role string) bool {
	if token == "" || role == "" {
		return false
	}

	s.manager.Put(ctx, TokenKey, token)
	s.manager.Put(ctx, RoleKey, role)
	return true
}

// Mirror copies the session pair into the token and role cookies. Either both
// cookies are written or neither is. Values are percent-encoded so spaces,
// commas and quotes survive the trip back through ParseCookieHeader.
func (s *Store) Mirror(ctx context.Context, w http.ResponseWriter) bool {
	token := s.manager.GetString(ctx, TokenKey)
	role := s.manager.GetString(ctx, RoleKey)
	if token == "" || role == "" {
		return false
	}

	http.SetCookie(w, &http.Cookie{Name: TokenKey, Value: url.PathEscape(token), Path: CookiePath})
	http.SetCookie(w, &http.Cookie{Name: RoleKey, Value: url.PathEscape(role), Path: CookiePath})
	return true
}

// Begin is the login transition: a fresh session token, the pair stored, and
// the cookies mirrored.
func (s *Store) Begin(ctx context.Context, w http.ResponseWriter, token, role string) error {
	if token == "" || role == "" {
		return ErrPartialSession
	}

	if err := s.manager.RenewToken(ctx); err != nil {
		return err
	}

	s.Set(ctx, token, role)
	s.Mirror(ctx, w)
	return nil
}

// Clear removes the pair from the session and expires both cookies.
func (s *Store) Clear(ctx context.Context, w http.ResponseWriter) error {
	if err := s.manager.RenewToken(ctx); err != nil {
		return err
	}

	s.manager.Remove(ctx, TokenKey)
	s.manager.Remove(ctx, RoleKey)

	for _, name := range []string{TokenKey, RoleKey} {
		http.SetCookie(w, &http.Cookie{
			Name:    name,
			Value:   "",
			Path:    CookiePath,
			Expires: expired,
		})
	}
	return nil
}

// Read returns the session pair, preferring the server-side session and
// falling back to the request cookies for any half that is missing there.
func (s *Store) Read(r *http.Request) Session {
	sess := Session{
		Token: s.manager.GetString(r.Context(), TokenKey),
		Role:  s.manager.GetString(r.Context(), RoleKey),
	}
	if sess.Token != "" && sess.Role != "" {
		return sess
	}

	jar := ParseCookieHeader(strings.Join(r.Header.Values("Cookie"), "; "))
	if sess.Token == "" {
		sess.Token = jar[TokenKey]
	}
	if sess.Role == "" {
		sess.Role = jar[RoleKey]
	}
	return sess
}

// Token satisfies gateway.TokenSource.
func (s *Store) Token(ctx context.Context) string {
	return s.manager.GetString(ctx, TokenKey)
}

// ParseCookieHeader splits a Cookie header value into name/value pairs.
// Values are percent-decoded when possible; a later duplicate wins.
func ParseCookieHeader(header string) map[string]string {
	jar := make(map[string]string)
	if header == "" {
		return jar
	}

	for _, part := range strings.Split(header, "; ") {
		name, value, found := strings.Cut(part, "=")
		if !found || name == "" {
			continue
		}
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		jar[strings.TrimSpace(name)] = value
	}
	return jar
}
