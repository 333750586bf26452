package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRequestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
		msg    string
	}{
		{"success", http.StatusOK, zapcore.InfoLevel, "HTTP request completed"},
		{"client error", http.StatusConflict, zapcore.WarnLevel, "HTTP request completed with client error"},
		{"server error", http.StatusBadGateway, zapcore.ErrorLevel, "HTTP request completed with server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			mw := RequestLogging(logging.NewLoggerFromCore(core), LoggingConfig{})

			rec := httptest.NewRecorder()
			mw(statusHandler(tt.status)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.msg, entry.Message)
			fields := entry.ContextMap()
			assert.Equal(t, "POST", fields["method"])
			assert.Equal(t, "/analyze", fields["path"])
		})
	}
}

func TestRequestLogging_SkipPaths(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := RequestLogging(logging.NewLoggerFromCore(core), LoggingConfig{SkipPaths: []string{"/healthz"}})

	mw(statusHandler(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, 0, logs.Len())
}

func TestRequestLogging_IncludesRequestAndSessionIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := chimw.RequestID(RequestLogging(logging.NewLoggerFromCore(core), DefaultLoggingConfig())(statusHandler(http.StatusOK)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	req = req.WithContext(ContextWithForm(req.Context(), "sess-1", nil))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "sess-1", fields["session_id"])
}

func TestRequestLogging_ImplicitStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := RequestLogging(logging.NewLoggerFromCore(core), LoggingConfig{})
	noWrite := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	mw(noWrite).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
}
