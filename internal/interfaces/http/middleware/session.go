package middleware

import (
	"context"
	"net/http"

	"github.com/turtacn/patentlens/internal/session"
	"github.com/turtacn/patentlens/internal/ui/form"
)

type contextKey string

const (
	contextKeySessionID contextKey = "session_id"
	contextKeyForm      contextKey = "form"

	contextKeyRequestInfo contextKey = "request_info"
)

// SessionConfig controls the session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
}

// SessionProvider resolves a session id to its form.
type SessionProvider interface {
	GetOrCreate(id string) (string, *form.Form, bool)
}

var _ SessionProvider = (*session.Store)(nil)

// Session attaches the caller's form to the request context, issuing a new
// session cookie when the request has none or an unknown one.
func Session(provider SessionProvider, config SessionConfig) func(http.Handler) http.Handler {
	name := config.CookieName
	if name == "" {
		name = session.CookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current string
			if c, err := r.Cookie(name); err == nil {
				current = c.Value
			}

			id, f, created := provider.GetOrCreate(current)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   config.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if info, ok := r.Context().Value(contextKeyRequestInfo).(*requestInfo); ok {
				info.sessionID = id
			}

			ctx := context.WithValue(r.Context(), contextKeySessionID, id)
			ctx = context.WithValue(ctx, contextKeyForm, f)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextGetSessionID returns the session id, or "" outside Session.
func ContextGetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeySessionID).(string)
	return id
}

// ContextGetForm returns the session's form, or nil outside Session.
func ContextGetForm(ctx context.Context) *form.Form {
	f, _ := ctx.Value(contextKeyForm).(*form.Form)
	return f
}

// ContextWithForm stores f in ctx. Intended for tests and custom mounts.
func ContextWithForm(ctx context.Context, id string, f *form.Form) context.Context {
	ctx = context.WithValue(ctx, contextKeySessionID, id)
	return context.WithValue(ctx, contextKeyForm, f)
}
