package handler

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/linkverify-server/internal/logger"
	"github.com/dtroode/linkverify-server/internal/model"
)

// RedirectService is the verification workflow used by the handler.
type RedirectService interface {
	Verify(ctx context.Context, req model.VerifyRequest) (model.Directive, error)
	Finalize(ctx context.Context, userID int64) (model.Directive, error)
}

// Redirect serves verification links.
type Redirect struct {
	service RedirectService
	pages   *Pages
	logger  *logger.Logger
}

// NewRedirect creates a new Redirect handler.
func NewRedirect(service RedirectService, pages *Pages, logger *logger.Logger) *Redirect {
	return &Redirect{
		service: service,
		pages:   pages,
		logger:  logger,
	}
}

// Verify handles GET /telegram/{user_id}/{page_token}.
func (h *Redirect) Verify(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.writeError(w, r, model.ErrNotFound)
		return
	}

	directive, err := h.service.Verify(r.Context(), model.VerifyRequest{
		UserID:    userID,
		PageToken: chi.URLParam(r, "page_token"),
		UserAgent: r.UserAgent(),
		IP:        clientIP(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDirective(w, r, directive)
}

// Probe handles HEAD /telegram/{user_id}/{page_token} without consuming the link.
func (h *Redirect) Probe(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}

// Finalize handles GET /go/{user_id}.
func (h *Redirect) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.writeError(w, r, model.ErrNotFound)
		return
	}

	directive, err := h.service.Finalize(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDirective(w, r, directive)
}

func (h *Redirect) writeDirective(w http.ResponseWriter, r *http.Request, directive model.Directive) {
	switch directive.Kind {
	case model.DirectiveConfirm:
		if err := h.pages.Confirm(w, directive.URL); err != nil {
			h.logger.Error("Redirect handler: failed to write confirmation page",
				"request_id", middleware.GetReqID(r.Context()),
				"error", err.Error())
		}
	default:
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, directive.URL, http.StatusFound)
	}
}

func (h *Redirect) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := handleError(err)
	if message == msgUnexpected {
		h.logger.Error("Redirect handler: request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"route", chi.RouteContext(r.Context()).RoutePattern(),
			"error", err.Error())
	}

	if err := h.pages.Error(w, status, message); err != nil {
		h.logger.Error("Redirect handler: failed to write error page",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err.Error())
	}
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
}

// clientIP strips the port from RemoteAddr, which middleware.RealIP may already have
// replaced with a bare forwarded address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
