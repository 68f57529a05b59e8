package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/linkverify-server/internal/model"
)

const uniqueViolation = "23505"

const recordColumns = `user_id, page_token, verify_token, state, cached_destination_url,
	used_at, used_by_browser, used_by_ip, created_at, updated_at`

var (
	_ model.VerificationStore       = (*VerificationRepository)(nil)
	_ model.VerificationProvisioner = (*VerificationRepository)(nil)
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type VerificationRepository struct {
	db querier
}

func NewVerificationRepository(db *Connection) *VerificationRepository {
	return &VerificationRepository{
		db: db,
	}
}

// Create inserts a provisioned record.
func (r *VerificationRepository) Create(ctx context.Context, record model.VerificationRecord) (model.VerificationRecord, error) {
	if err := record.ValidateNew(); err != nil {
		return model.VerificationRecord{}, err
	}

	query := `INSERT INTO verification_records (user_id, page_token, verify_token, state)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + recordColumns

	saved, err := scanRecord(r.db.QueryRow(ctx, query,
		record.UserID, record.PageToken, record.VerifyToken, string(model.StatePending),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.VerificationRecord{}, model.ErrAlreadyExists
		}
		return model.VerificationRecord{}, fmt.Errorf("failed to create verification record: %w", err)
	}

	return saved, nil
}

func (r *VerificationRepository) Get(ctx context.Context, userID int64) (model.VerificationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM verification_records WHERE user_id = $1`

	record, err := scanRecord(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VerificationRecord{}, model.ErrNotFound
		}
		return model.VerificationRecord{}, fmt.Errorf("failed to get verification record: %w", err)
	}

	return record, nil
}

// CacheDestination stores destinationURL unless a destination is already cached,
// and promotes a pending record to verified_unused. The stored record is returned.
func (r *VerificationRepository) CacheDestination(ctx context.Context, userID int64, destinationURL string) (model.VerificationRecord, error) {
	if destinationURL == "" {
		return model.VerificationRecord{}, errors.New("destination url is required")
	}

	query := `UPDATE verification_records SET
				cached_destination_url = CASE WHEN cached_destination_url = '' THEN $2 ELSE cached_destination_url END,
				state = CASE WHEN state = 'pending' THEN 'verified_unused' ELSE state END,
				updated_at = NOW()
			  WHERE user_id = $1
			  RETURNING ` + recordColumns

	record, err := scanRecord(r.db.QueryRow(ctx, query, userID, destinationURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VerificationRecord{}, model.ErrNotFound
		}
		return model.VerificationRecord{}, fmt.Errorf("failed to cache destination: %w", err)
	}

	return record, nil
}

// CompareAndSetUsed consumes the record in a single conditional update.
// A destination cached by a concurrent caller wins over params.DestinationURL.
func (r *VerificationRepository) CompareAndSetUsed(ctx context.Context, params model.CompareAndSetParams) (model.VerificationRecord, error) {
	if params.DestinationURL == "" {
		return model.VerificationRecord{}, errors.New("destination url is required")
	}
	if !params.ExpectedState.Consumable() {
		return model.VerificationRecord{}, model.ErrConflict
	}

	query := `UPDATE verification_records SET
				cached_destination_url = CASE WHEN cached_destination_url = '' THEN $3 ELSE cached_destination_url END,
				state = 'used',
				used_at = $4,
				used_by_browser = $5,
				used_by_ip = $6,
				updated_at = NOW()
			  WHERE user_id = $1 AND state = $2 AND state IN ('pending', 'verified_unused')
			  RETURNING ` + recordColumns

	record, err := scanRecord(r.db.QueryRow(ctx, query,
		params.UserID, string(params.ExpectedState), params.DestinationURL,
		params.Now, string(params.Browser), params.IP,
	))
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.VerificationRecord{}, fmt.Errorf("failed to mark record used: %w", err)
	}

	exists, err := r.exists(ctx, params.UserID)
	if err != nil {
		return model.VerificationRecord{}, err
	}
	if !exists {
		return model.VerificationRecord{}, model.ErrNotFound
	}

	return model.VerificationRecord{}, model.ErrConflict
}

func (r *VerificationRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *VerificationRepository) exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM verification_records WHERE user_id = $1)`

	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check verification record: %w", err)
	}

	return exists, nil
}

func scanRecord(row pgx.Row) (model.VerificationRecord, error) {
	var record model.VerificationRecord
	err := row.Scan(
		&record.UserID, &record.PageToken, &record.VerifyToken, &record.State, &record.CachedDestinationURL,
		&record.UsedAt, &record.UsedByBrowser, &record.UsedByIP, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return model.VerificationRecord{}, err
	}

	return record, nil
}
