package router

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dtroode/linkverify-server/internal/api/http/handler"
	"github.com/dtroode/linkverify-server/internal/api/http/middleware"
	"github.com/dtroode/linkverify-server/internal/model"
)

// Options contains router dependencies and settings.
type Options struct {
	Redirect *handler.Redirect
	Health   *handler.Health
	Metrics  http.Handler
	Logging  *middleware.Logging

	Mode model.RedirectMode

	// RateLimit is the number of verification requests allowed per client IP per minute.
	// Zero disables limiting.
	RateLimit int

	// TrustProxy takes the client address from X-Forwarded-For, X-Real-IP or True-Client-IP.
	// Otherwise the socket peer address is used for rate limiting and receipts.
	TrustProxy bool

	RequestTimeout time.Duration
}

// New builds the public HTTP router.
func New(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(opts.Logging.Handle)
	r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	r.Get("/healthz", opts.Health.Check)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.Limit(opts.RateLimit, time.Minute, httprate.WithKeyFuncs(keyByRemoteAddr)))
		}

		r.Get("/telegram/{user_id}/{page_token}", opts.Redirect.Verify)
		r.Head("/telegram/{user_id}/{page_token}", opts.Redirect.Probe)
		if opts.Mode == model.RedirectModeTwoStep {
			r.Get("/go/{user_id}", opts.Redirect.Finalize)
		}
	})

	return otelhttp.NewHandler(r, "linkverify")
}

// keyByRemoteAddr keys on the connection address, which RealIP rewrites only behind a trusted proxy.
func keyByRemoteAddr(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return host, nil
}
