package model

import (
	"context"
	"fmt"
	"time"
)

// State is a lifecycle stage of a verification record.
type State string

const (
	// StatePending is the state a record is provisioned in.
	StatePending State = "pending"

	// StateVerifiedUnused means the destination is resolved and cached but the link is not consumed yet.
	StateVerifiedUnused State = "verified_unused"

	// StateUsed is terminal: the link was consumed.
	StateUsed State = "used"
)

// Consumable reports whether a record in this state may still be consumed.
func (s State) Consumable() bool {
	return s == StatePending || s == StateVerifiedUnused
}

// VerificationStore persists verification records.
type VerificationStore interface {
	Get(ctx context.Context, userID int64) (VerificationRecord, error)
	CacheDestination(ctx context.Context, userID int64, destinationURL string) (VerificationRecord, error)
	CompareAndSetUsed(ctx context.Context, params CompareAndSetParams) (VerificationRecord, error)
	Ping(ctx context.Context) error
}

// VerificationProvisioner creates new pending records.
type VerificationProvisioner interface {
	Create(ctx context.Context, record VerificationRecord) (VerificationRecord, error)
}

// VerificationRecord is the per-user state of a single-use verification link.
type VerificationRecord struct {
	UserID               int64
	PageToken            string
	VerifyToken          string
	State                State
	CachedDestinationURL string
	UsedAt               *time.Time
	UsedByBrowser        string
	UsedByIP             string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasDestination reports whether a destination URL is cached.
func (r VerificationRecord) HasDestination() bool {
	return r.CachedDestinationURL != ""
}

// ValidateNew checks that a record can be provisioned.
// New records start pending, with no destination and no consumption data.
func (r VerificationRecord) ValidateNew() error {
	switch {
	case r.State != "" && r.State != StatePending:
		return fmt.Errorf("%w: state %q", ErrInvalidRecord, r.State)
	case r.CachedDestinationURL != "":
		return fmt.Errorf("%w: destination is set", ErrInvalidRecord)
	case r.UsedAt != nil || r.UsedByBrowser != "" || r.UsedByIP != "":
		return fmt.Errorf("%w: consumption fields are set", ErrInvalidRecord)
	}
	return nil
}

// CompareAndSetParams contains parameters for consuming a record.
type CompareAndSetParams struct {
	UserID         int64
	ExpectedState  State
	DestinationURL string
	Browser        Browser
	IP             string
	Now            time.Time
}

// Browser is a coarse client classification.
type Browser string

const (
	BrowserTelegram Browser = "telegram"
	BrowserChrome   Browser = "chrome"
	BrowserFirefox  Browser = "firefox"
	BrowserUnknown  Browser = "unknown"
)
