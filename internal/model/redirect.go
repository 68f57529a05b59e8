package model

import (
	"context"
	"time"
)

// Shortener turns a long destination URL into a short one.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// DirectiveKind tells the transport how to expose a resolved destination.
type DirectiveKind int

const (
	// DirectiveRedirect sends the client straight to URL.
	DirectiveRedirect DirectiveKind = iota
	// DirectiveConfirm renders an intermediate page that navigates to URL.
	DirectiveConfirm
)

// Directive is the outcome of a successful verification request.
type Directive struct {
	Kind DirectiveKind
	URL  string
}

// RedirectMode selects how many round trips expose the final redirect.
type RedirectMode string

const (
	RedirectModeDirect  RedirectMode = "direct"
	RedirectModeTwoStep RedirectMode = "two_step"
)

// VerifyRequest describes an inbound verification request.
type VerifyRequest struct {
	UserID    int64
	PageToken string
	UserAgent string
	IP        string
}

// Receipt is an audit entry written after a link is consumed.
type Receipt struct {
	UserID         int64     `json:"user_id"`
	DestinationURL string    `json:"destination_url"`
	UsedAt         time.Time `json:"used_at"`
	Browser        Browser   `json:"browser"`
	IP             string    `json:"ip"`
}

// ReceiptStore archives consumption receipts.
type ReceiptStore interface {
	Save(ctx context.Context, receipt Receipt) error
}

// Outcome labels a finished verification request for metrics.
type Outcome string

const (
	OutcomeRedirected       Outcome = "redirected"
	OutcomeConfirmed        Outcome = "confirmed"
	OutcomeFinalized        Outcome = "finalized"
	OutcomeInvalidLink      Outcome = "invalid_link"
	OutcomeAlreadyUsed      Outcome = "already_used"
	OutcomeNotConsumed      Outcome = "not_consumed"
	OutcomeResolutionFailed Outcome = "resolution_failed"
	OutcomeUnavailable      Outcome = "unavailable"
	OutcomeUnexpected       Outcome = "unexpected"
)

// Recorder collects workflow metrics.
type Recorder interface {
	ObserveOutcome(outcome Outcome)
	ObserveShorten(duration time.Duration, err error)
}
