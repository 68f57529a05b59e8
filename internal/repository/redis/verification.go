package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/linkverify-server/internal/model"
)

const (
	fieldPageToken   = "page_token"
	fieldVerifyToken = "verify_token"
	fieldState       = "state"
	fieldDestination = "destination"
	fieldUsedAt      = "used_at"
	fieldBrowser     = "used_by_browser"
	fieldIP          = "used_by_ip"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// createLua inserts a record unless the key exists.
// KEYS[1] = record key
// ARGV = field/value pairs
var createLua = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return {err='exists'}
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return redis.call('HGETALL', KEYS[1])
`)

// cacheDestinationLua sets the destination if none is cached and promotes pending to verified_unused.
// KEYS[1] = record key
// ARGV[1] = destination url
// ARGV[2] = now (RFC3339Nano)
var cacheDestinationLua = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {err='not_found'}
end
local dest = redis.call('HGET', KEYS[1], 'destination')
if not dest or dest == '' then
  redis.call('HSET', KEYS[1], 'destination', ARGV[1], 'updated_at', ARGV[2])
end
if redis.call('HGET', KEYS[1], 'state') == 'pending' then
  redis.call('HSET', KEYS[1], 'state', 'verified_unused', 'updated_at', ARGV[2])
end
return redis.call('HGETALL', KEYS[1])
`)

// compareAndSetUsedLua consumes the record if its state still equals the expected one.
// KEYS[1] = record key
// ARGV[1] = expected state
// ARGV[2] = destination url, used only when none is cached
// ARGV[3] = now (RFC3339Nano)
// ARGV[4] = browser
// ARGV[5] = ip
var compareAndSetUsedLua = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {err='not_found'}
end
local state = redis.call('HGET', KEYS[1], 'state')
if state ~= ARGV[1] or state == 'used' then
  return {err='conflict'}
end
local dest = redis.call('HGET', KEYS[1], 'destination')
if not dest or dest == '' then
  dest = ARGV[2]
end
redis.call('HSET', KEYS[1],
  'destination', dest,
  'state', 'used',
  'used_at', ARGV[3],
  'used_by_browser', ARGV[4],
  'used_by_ip', ARGV[5],
  'updated_at', ARGV[3])
return redis.call('HGETALL', KEYS[1])
`)

var (
	_ model.VerificationStore       = (*VerificationStore)(nil)
	_ model.VerificationProvisioner = (*VerificationStore)(nil)
)

// VerificationStore keeps verification records in redis hashes, one per user id.
type VerificationStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewVerificationStore creates a store that namespaces keys with prefix.
func NewVerificationStore(client goredis.UniversalClient, prefix string) *VerificationStore {
	if prefix == "" {
		prefix = "lv"
	}
	return &VerificationStore{
		client: client,
		prefix: prefix,
	}
}

func (s *VerificationStore) key(userID int64) string {
	return s.prefix + ":verify:" + strconv.FormatInt(userID, 10)
}

// Create inserts a provisioned record.
func (s *VerificationStore) Create(ctx context.Context, record model.VerificationRecord) (model.VerificationRecord, error) {
	if err := record.ValidateNew(); err != nil {
		return model.VerificationRecord{}, err
	}
	now := formatTime(time.Now())

	values, err := createLua.Run(ctx, s.client, []string{s.key(record.UserID)},
		fieldPageToken, record.PageToken,
		fieldVerifyToken, record.VerifyToken,
		fieldState, string(model.StatePending),
		fieldDestination, "",
		fieldCreatedAt, now,
		fieldUpdatedAt, now,
	).StringSlice()
	if err != nil {
		return model.VerificationRecord{}, mapScriptError(err, "create verification record")
	}

	return decodeRecord(record.UserID, values)
}

func (s *VerificationStore) Get(ctx context.Context, userID int64) (model.VerificationRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return model.VerificationRecord{}, fmt.Errorf("failed to get verification record: %w", err)
	}
	if len(fields) == 0 {
		return model.VerificationRecord{}, model.ErrNotFound
	}

	return decodeFields(userID, fields)
}

// CacheDestination stores destinationURL unless a destination is already cached,
// and promotes a pending record to verified_unused. The stored record is returned.
func (s *VerificationStore) CacheDestination(ctx context.Context, userID int64, destinationURL string) (model.VerificationRecord, error) {
	if destinationURL == "" {
		return model.VerificationRecord{}, errors.New("destination url is required")
	}

	values, err := cacheDestinationLua.Run(ctx, s.client, []string{s.key(userID)},
		destinationURL,
		formatTime(time.Now()),
	).StringSlice()
	if err != nil {
		return model.VerificationRecord{}, mapScriptError(err, "cache destination")
	}

	return decodeRecord(userID, values)
}

// CompareAndSetUsed consumes the record atomically inside one script.
func (s *VerificationStore) CompareAndSetUsed(ctx context.Context, params model.CompareAndSetParams) (model.VerificationRecord, error) {
	if params.DestinationURL == "" {
		return model.VerificationRecord{}, errors.New("destination url is required")
	}
	if !params.ExpectedState.Consumable() {
		return model.VerificationRecord{}, model.ErrConflict
	}

	values, err := compareAndSetUsedLua.Run(ctx, s.client, []string{s.key(params.UserID)},
		string(params.ExpectedState),
		params.DestinationURL,
		formatTime(params.Now),
		string(params.Browser),
		params.IP,
	).StringSlice()
	if err != nil {
		return model.VerificationRecord{}, mapScriptError(err, "mark record used")
	}

	return decodeRecord(params.UserID, values)
}

func (s *VerificationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func mapScriptError(err error, op string) error {
	switch err.Error() {
	case "not_found":
		return model.ErrNotFound
	case "conflict":
		return model.ErrConflict
	case "exists":
		return model.ErrAlreadyExists
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func decodeRecord(userID int64, values []string) (model.VerificationRecord, error) {
	if len(values)%2 != 0 {
		return model.VerificationRecord{}, fmt.Errorf("unexpected hash reply length %d", len(values))
	}

	fields := make(map[string]string, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		fields[values[i]] = values[i+1]
	}

	return decodeFields(userID, fields)
}

func decodeFields(userID int64, fields map[string]string) (model.VerificationRecord, error) {
	record := model.VerificationRecord{
		UserID:               userID,
		PageToken:            fields[fieldPageToken],
		VerifyToken:          fields[fieldVerifyToken],
		State:                model.State(fields[fieldState]),
		CachedDestinationURL: fields[fieldDestination],
		UsedByBrowser:        fields[fieldBrowser],
		UsedByIP:             fields[fieldIP],
	}

	var err error
	if record.CreatedAt, err = parseTime(fields[fieldCreatedAt]); err != nil {
		return model.VerificationRecord{}, fmt.Errorf("invalid created_at: %w", err)
	}
	if record.UpdatedAt, err = parseTime(fields[fieldUpdatedAt]); err != nil {
		return model.VerificationRecord{}, fmt.Errorf("invalid updated_at: %w", err)
	}
	if raw := fields[fieldUsedAt]; raw != "" {
		usedAt, err := parseTime(raw)
		if err != nil {
			return model.VerificationRecord{}, fmt.Errorf("invalid used_at: %w", err)
		}
		record.UsedAt = &usedAt
	}

	return record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
