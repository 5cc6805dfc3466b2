// Package notify keeps user-facing notices in the scs session so they survive
// the redirect that usually follows a form post.
package notify

import (
	"context"
	"net/http"
	"sync"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	flashKey      = "flash"
	flashErrorKey = "flashError"
)

type contextKey string

const pendingContextKey = contextKey("pendingNotice")

// pending holds the id of the loading notice for one request. Loading notices
// never outlive the request, so they stay out of the session.
type pending struct {
	mu sync.Mutex
	id string
}

// Flash implements gateway.Notifier on top of a session manager.
type Flash struct {
	sessions *scs.SessionManager
	logger   zerolog.Logger
}

func NewFlash(sessions *scs.SessionManager, logger zerolog.Logger) *Flash {
	return &Flash{sessions: sessions, logger: logger}
}

// Track gives each request a slot for its loading notice and warns when a
// handler returns with one still showing.
func (f *Flash) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), pendingContextKey, &pending{})
		next.ServeHTTP(w, r.WithContext(ctx))

		if f.Pending(ctx) {
			f.logger.Warn().Str("path", r.URL.Path).Msg("Loading notice was never dismissed")
		}
	})
}

func pendingFrom(ctx context.Context) *pending {
	p, _ := ctx.Value(pendingContextKey).(*pending)
	return p
}

// Loading records a pending notice and returns its id.
func (f *Flash) Loading(ctx context.Context, text string) string {
	id := uuid.NewString()
	if p := pendingFrom(ctx); p != nil {
		p.mu.Lock()
		p.id = id
		p.mu.Unlock()
	}
	f.logger.Debug().Str("toast", id).Msg(text)
	return id
}

// Dismiss clears the pending notice if id still names it.
func (f *Flash) Dismiss(ctx context.Context, id string) {
	p := pendingFrom(ctx)
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.id == id {
		p.id = ""
	}
}

func (f *Flash) Success(ctx context.Context, text string) {
	f.sessions.Put(ctx, flashKey, text)
}

func (f *Flash) Error(ctx context.Context, text string) {
	f.sessions.Put(ctx, flashErrorKey, text)
}

// Pending reports whether a loading notice has not been dismissed.
func (f *Flash) Pending(ctx context.Context) bool {
	p := pendingFrom(ctx)
	if p == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id != ""
}

// Pop returns and clears the queued success and error notices.
func (f *Flash) Pop(ctx context.Context) (success, failure string) {
	return f.sessions.PopString(ctx, flashKey), f.sessions.PopString(ctx, flashErrorKey)
}
