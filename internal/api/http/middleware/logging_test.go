package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/linkverify-server/internal/logger"
)

func newBufferLogger(buf *bytes.Buffer) *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{}))}
}

func TestLogging_Handle(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
		wantMsg   string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "level=INFO", wantMsg: "HTTP request completed"},
		{name: "client error", status: http.StatusGone, wantLevel: "level=INFO", wantMsg: "HTTP request completed"},
		{name: "server error", status: http.StatusBadGateway, wantLevel: "level=ERROR", wantMsg: "HTTP request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			r := chi.NewRouter()
			r.Use(RequestID)
			r.Use(NewLogging(newBufferLogger(&buf)).Handle)
			r.Get("/telegram/{user_id}/{page_token}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/telegram/42/secret-token", nil))

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, "route=/telegram/{user_id}/{page_token}")
			assert.NotContains(t, out, "secret-token")
			assert.Contains(t, out, "request_id="+rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestLogging_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer

	h := NewLogging(newBufferLogger(&buf)).Handle(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Contains(t, buf.String(), "status=200")
	assert.Contains(t, buf.String(), "route=unmatched")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, id, seen)
		assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
	})

	t.Run("garbage replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.NotEqual(t, "<script>", seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})
}
