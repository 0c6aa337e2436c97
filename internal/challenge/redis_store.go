package challenge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	red "github.com/redis/go-redis/v9"

	"encrypto-chat/internal/domain"
)

const (
	defaultKeyPrefix = "2fa"

	fieldStage     = "stage"
	fieldCode      = "code"
	fieldAttempts  = "attempts"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

var (
	// returns -1 when the hash is gone so HINCRBY never recreates it without a TTL
	incrementScript = red.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
`)

	consumeScript = red.NewScript(`
if redis.call('HGET', KEYS[1], ARGV[1]) == ARGV[2] and redis.call('HGET', KEYS[1], ARGV[3]) == ARGV[4] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)
)

// RedisStore keeps each challenge in a hash whose key TTL matches the
// challenge expiry.
type RedisStore struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client *red.Client, keyPrefix string) *RedisStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// WithClock overrides the internal clock, used in tests.
func (r *RedisStore) WithClock(clock func() time.Time) {
	if clock != nil {
		r.now = clock
	}
}

func (r *RedisStore) Put(ctx context.Context, ch *domain.TwoFactorChallenge) error {
	ttl := ch.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("challenge already expired")
	}
	key := r.key(ch.UserID)

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		fieldStage:     string(ch.Stage),
		fieldCode:      ch.Code,
		fieldAttempts:  strconv.Itoa(ch.Attempts),
		fieldCreatedAt: strconv.FormatInt(ch.CreatedAt.Unix(), 10),
		fieldExpiresAt: strconv.FormatInt(ch.ExpiresAt.Unix(), 10),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store challenge: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, userID uuid.UUID) (*domain.TwoFactorChallenge, error) {
	values, err := r.client.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall challenge: %w", err)
	}
	if len(values) == 0 || values[fieldStage] == "" {
		return nil, ErrNotFound
	}

	createdAt, err := parseUnix(values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	attempts := 0
	if raw := values[fieldAttempts]; raw != "" {
		if v, convErr := strconv.Atoi(raw); convErr == nil {
			attempts = v
		}
	}

	return &domain.TwoFactorChallenge{
		UserID:    userID,
		Stage:     domain.ChallengeStage(values[fieldStage]),
		Code:      values[fieldCode],
		Attempts:  attempts,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (r *RedisStore) IncrementAttempts(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := incrementScript.Run(ctx, r.client, []string{r.key(userID)}, fieldAttempts).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis increment challenge attempts: %w", err)
	}
	if count < 0 {
		return 0, ErrNotFound
	}
	return int(count), nil
}

func (r *RedisStore) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	removed, err := consumeScript.Run(ctx, r.client, []string{r.key(userID)},
		fieldStage, string(domain.StageChallengeIssued), fieldCode, code).Int64()
	if err != nil {
		return false, fmt.Errorf("redis consume challenge: %w", err)
	}
	return removed == 1, nil
}

func (r *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete challenge: %w", err)
	}
	return nil
}

func (r *RedisStore) key(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", r.prefix, userID)
}

func parseUnix(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}
