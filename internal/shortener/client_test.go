package shortener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return NewClient("http", u.Host, "secret")
}

func TestClient_Shorten(t *testing.T) {
	const longURL = "https://t.me/my_bot?start=verify_xyz"

	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","shortenedUrl":"https://short.ly/q1"}`))
	})

	short, err := c.Shorten(context.Background(), longURL)
	require.NoError(t, err)
	assert.Equal(t, "https://short.ly/q1", short)
	assert.Equal(t, "secret", gotQuery.Get("api"))
	assert.Equal(t, longURL, gotQuery.Get("url"))
}

func TestClient_Shorten_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"error","message":"invalid api key"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			short, err := c.Shorten(context.Background(), "https://t.me/my_bot?start=verify_xyz")
			assert.Error(t, err)
			assert.Empty(t, short)
		})
	}
}

func TestClient_Shorten_EmptyURLIsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","shortenedUrl":""}`))
	})

	_, err := c.Shorten(context.Background(), "https://t.me/my_bot?start=verify_xyz")
	assert.ErrorIs(t, err, ErrEmptyShortURL)
}

func TestClient_Shorten_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Shorten(ctx, "https://t.me/my_bot?start=verify_xyz")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", "", "")
	assert.False(t, c.Configured())
	assert.Equal(t, "https", c.scheme)

	_, err := c.Shorten(context.Background(), "https://t.me/x")
	assert.Error(t, err)
}

func TestClient_Shorten_RejectsNonHTTPURL(t *testing.T) {
	for _, short := range []string{"javascript:alert(1)", "/relative", "ftp://files.example.com/x"} {
		t.Run(short, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"success","shortenedUrl":"` + short + `"}`))
			})

			_, err := c.Shorten(context.Background(), "https://t.me/my_bot?start=verify_xyz")
			assert.ErrorIs(t, err, ErrInvalidShortURL)
		})
	}
}

func TestClient_Shorten_ErrorDoesNotLeakAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.Listener.Addr().String()
	srv.Close()

	c := NewClient("http", addr, "super-secret-key")

	_, err := c.Shorten(context.Background(), "https://t.me/my_bot?start=verify_xyz")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "super-secret-key")
}
