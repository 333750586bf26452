package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patentlens/internal/session"
	"github.com/turtacn/patentlens/internal/testutil"
	"github.com/turtacn/patentlens/internal/ui/form"
)

func newTestSessionStore(t *testing.T) *session.Store {
	s := session.NewStore(session.Config{}, func() *form.Form { return form.New(new(testutil.MockAnalyzer)) })
	t.Cleanup(s.Close)
	return s
}

func TestSession_IssuesCookieAndStoresForm(t *testing.T) {
	store := newTestSessionStore(t)

	var gotID string
	var gotForm *form.Form
	h := Session(store, SessionConfig{Secure: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = ContextGetSessionID(r.Context())
		gotForm = ContextGetForm(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, session.CookieName, c.Name)
	assert.Equal(t, gotID, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.NotNil(t, gotForm)
	assert.Equal(t, 1, store.Len())
}

func TestSession_ReusesKnownCookie(t *testing.T) {
	store := newTestSessionStore(t)
	id, f, _ := store.GetOrCreate("")

	var gotForm *form.Form
	h := Session(store, SessionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotForm = ContextGetForm(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Same(t, f, gotForm)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, store.Len())
}

func TestSession_UnknownCookieGetsFreshSession(t *testing.T) {
	store := newTestSessionStore(t)
	h := Session(store, SessionConfig{CookieName: "sid"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.NotEqual(t, "stale", cookies[0].Value)
}

func TestContextAccessors_Empty(t *testing.T) {
	assert.Empty(t, ContextGetSessionID(context.Background()))
	assert.Nil(t, ContextGetForm(context.Background()))
}

func TestSession_ReportsIDToRequestLogging(t *testing.T) {
	store := newTestSessionStore(t)
	core, logs := observer.New(zapcore.DebugLevel)

	h := RequestLogging(logging.NewLoggerFromCore(core), LoggingConfig{})(
		Session(store, SessionConfig{})(statusHandler(http.StatusOK)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, cookies[0].Value, logs.All()[0].ContextMap()["session_id"])
}
