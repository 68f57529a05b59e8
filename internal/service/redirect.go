package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dtroode/linkverify-server/internal/logger"
	"github.com/dtroode/linkverify-server/internal/model"
)

const defaultResolveTimeout = 15 * time.Second

// RedirectConfig is static configuration of the redirect workflow.
type RedirectConfig struct {
	// BotUsername is the Telegram bot handle, with or without a leading @.
	BotUsername string

	Mode model.RedirectMode

	// PublicBaseURL prefixes the second hop URL in two-step mode. Empty means a relative URL.
	PublicBaseURL string

	ResolveTimeout time.Duration
}

type configurable interface {
	Configured() bool
}

// Redirect validates single-use verification links, resolves their destination and
// consumes them exactly once.
type Redirect struct {
	store     model.VerificationStore
	shortener model.Shortener
	receipts  model.ReceiptStore
	recorder  model.Recorder
	cfg       RedirectConfig
	logger    *logger.Logger
	now       func() time.Time
}

// NewRedirect creates the workflow. receipts and recorder may be nil.
func NewRedirect(
	store model.VerificationStore,
	shortener model.Shortener,
	receipts model.ReceiptStore,
	recorder model.Recorder,
	cfg RedirectConfig,
	logger *logger.Logger,
) *Redirect {
	cfg.BotUsername = strings.TrimPrefix(strings.TrimSpace(cfg.BotUsername), "@")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if cfg.Mode == "" {
		cfg.Mode = model.RedirectModeTwoStep
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = defaultResolveTimeout
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &Redirect{
		store:     store,
		shortener: shortener,
		receipts:  receipts,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Mode returns the configured redirect mode.
func (s *Redirect) Mode() model.RedirectMode {
	return s.cfg.Mode
}

// Ready reports whether the workflow can resolve new destinations.
func (s *Redirect) Ready() bool {
	if s.cfg.BotUsername == "" {
		return false
	}
	if c, ok := s.shortener.(configurable); ok && !c.Configured() {
		return false
	}
	return true
}

// Verify handles the first hop of a verification link: it checks the page token,
// resolves the destination when none is cached and consumes the link.
func (s *Redirect) Verify(ctx context.Context, req model.VerifyRequest) (directive model.Directive, err error) {
	defer func() { s.recorder.ObserveOutcome(outcomeOf(directive, err)) }()

	s.logger.Debug("Redirect service: verifying link",
		"user_id", req.UserID)

	record, err := s.store.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Redirect service: verification record not found",
				"user_id", req.UserID)
			return model.Directive{}, model.ErrNotFound
		}
		s.logger.Error("Redirect service: failed to get verification record",
			"user_id", req.UserID,
			"error", err.Error())
		return model.Directive{}, fmt.Errorf("failed to get verification record: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(record.PageToken), []byte(req.PageToken)) != 1 {
		s.logger.Info("Redirect service: page token mismatch",
			"user_id", req.UserID)
		return model.Directive{}, model.ErrTokenMismatch
	}

	if record.State == model.StateUsed {
		s.logger.Info("Redirect service: link already used",
			"user_id", req.UserID)
		return model.Directive{}, model.ErrAlreadyUsed
	}
	if !record.State.Consumable() {
		return model.Directive{}, fmt.Errorf("unexpected record state %q", record.State)
	}

	if !record.HasDestination() {
		record, err = s.resolve(ctx, record)
		if err != nil {
			return model.Directive{}, err
		}
		if record.State == model.StateUsed {
			s.logger.Info("Redirect service: link consumed while resolving",
				"user_id", req.UserID)
			return model.Directive{}, model.ErrAlreadyUsed
		}
	}

	used, err := s.store.CompareAndSetUsed(ctx, model.CompareAndSetParams{
		UserID:         record.UserID,
		ExpectedState:  record.State,
		DestinationURL: record.CachedDestinationURL,
		Browser:        ClassifyBrowser(req.UserAgent),
		IP:             req.IP,
		Now:            s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrConflict):
			s.logger.Info("Redirect service: lost consumption race",
				"user_id", req.UserID)
			return model.Directive{}, model.ErrAlreadyUsed
		case errors.Is(err, model.ErrNotFound):
			return model.Directive{}, model.ErrNotFound
		default:
			s.logger.Error("Redirect service: failed to mark link used",
				"user_id", req.UserID,
				"error", err.Error())
			return model.Directive{}, fmt.Errorf("failed to mark link used: %w", err)
		}
	}

	s.saveReceipt(ctx, used)

	s.logger.Info("Redirect service: link consumed",
		"user_id", used.UserID,
		"browser", used.UsedByBrowser,
		"mode", string(s.cfg.Mode))

	if s.cfg.Mode == model.RedirectModeDirect {
		return model.Directive{Kind: model.DirectiveRedirect, URL: used.CachedDestinationURL}, nil
	}
	return model.Directive{Kind: model.DirectiveConfirm, URL: s.FinalHopURL(used.UserID)}, nil
}

// Finalize handles the second hop of the two-step mode. It never consumes anything:
// it only re-serves the destination of an already consumed link.
func (s *Redirect) Finalize(ctx context.Context, userID int64) (directive model.Directive, err error) {
	defer func() {
		outcome := outcomeOf(directive, err)
		if err == nil {
			outcome = model.OutcomeFinalized
		}
		s.recorder.ObserveOutcome(outcome)
	}()

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Directive{}, model.ErrNotFound
		}
		s.logger.Error("Redirect service: failed to get verification record",
			"user_id", userID,
			"error", err.Error())
		return model.Directive{}, fmt.Errorf("failed to get verification record: %w", err)
	}

	if record.State != model.StateUsed || !record.HasDestination() {
		s.logger.Info("Redirect service: final hop requested before consumption",
			"user_id", userID,
			"state", string(record.State))
		return model.Directive{}, model.ErrNotConsumed
	}

	return model.Directive{Kind: model.DirectiveRedirect, URL: record.CachedDestinationURL}, nil
}

// FinalHopURL returns the token-free URL of the second hop for userID.
func (s *Redirect) FinalHopURL(userID int64) string {
	return s.cfg.PublicBaseURL + "/go/" + strconv.FormatInt(userID, 10)
}

// DestinationURL builds the long-form Telegram deep link for verifyToken.
func (s *Redirect) DestinationURL(verifyToken string) string {
	return "https://t.me/" + s.cfg.BotUsername + "?start=" + url.QueryEscape("verify_"+verifyToken)
}

func (s *Redirect) resolve(ctx context.Context, record model.VerificationRecord) (model.VerificationRecord, error) {
	if !s.Ready() {
		s.logger.Warn("Redirect service: bot handle or shortener is not configured",
			"user_id", record.UserID)
		return model.VerificationRecord{}, model.ErrServiceUnavailable
	}
	if record.VerifyToken == "" {
		s.logger.Warn("Redirect service: record has no verify token",
			"user_id", record.UserID)
		return model.VerificationRecord{}, model.ErrVerifyTokenMissing
	}

	resolveCtx, cancel := context.WithTimeout(ctx, s.cfg.ResolveTimeout)
	defer cancel()

	start := time.Now()
	short, err := s.shortener.Shorten(resolveCtx, s.DestinationURL(record.VerifyToken))
	s.recorder.ObserveShorten(time.Since(start), err)
	if err != nil {
		s.logger.Error("Redirect service: failed to shorten destination",
			"user_id", record.UserID,
			"error", err.Error())
		return model.VerificationRecord{}, fmt.Errorf("%w: %w", model.ErrResolutionFailed, err)
	}
	if short == "" {
		return model.VerificationRecord{}, fmt.Errorf("%w: empty short url", model.ErrResolutionFailed)
	}

	cached, err := s.store.CacheDestination(ctx, record.UserID, short)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.VerificationRecord{}, model.ErrNotFound
		}
		s.logger.Error("Redirect service: failed to cache destination",
			"user_id", record.UserID,
			"error", err.Error())
		return model.VerificationRecord{}, fmt.Errorf("failed to cache destination: %w", err)
	}

	return cached, nil
}

func (s *Redirect) saveReceipt(ctx context.Context, record model.VerificationRecord) {
	if s.receipts == nil || record.UsedAt == nil {
		return
	}

	receipt := model.Receipt{
		UserID:         record.UserID,
		DestinationURL: record.CachedDestinationURL,
		UsedAt:         *record.UsedAt,
		Browser:        model.Browser(record.UsedByBrowser),
		IP:             record.UsedByIP,
	}
	if err := s.receipts.Save(ctx, receipt); err != nil {
		s.logger.Warn("Redirect service: failed to save consumption receipt",
			"user_id", record.UserID,
			"error", err.Error())
	}
}

func outcomeOf(directive model.Directive, err error) model.Outcome {
	switch {
	case err == nil && directive.Kind == model.DirectiveConfirm:
		return model.OutcomeConfirmed
	case err == nil:
		return model.OutcomeRedirected
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrTokenMismatch), errors.Is(err, model.ErrVerifyTokenMissing):
		return model.OutcomeInvalidLink
	case errors.Is(err, model.ErrAlreadyUsed):
		return model.OutcomeAlreadyUsed
	case errors.Is(err, model.ErrNotConsumed):
		return model.OutcomeNotConsumed
	case errors.Is(err, model.ErrResolutionFailed):
		return model.OutcomeResolutionFailed
	case errors.Is(err, model.ErrServiceUnavailable):
		return model.OutcomeUnavailable
	default:
		return model.OutcomeUnexpected
	}
}

type noopRecorder struct{}

func (noopRecorder) ObserveOutcome(model.Outcome)        {}
func (noopRecorder) ObserveShorten(time.Duration, error) {}
