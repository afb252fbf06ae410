package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
)

// RedisStore shares indicators across nodes. One hash per
// (ticket, field), user id as the hash field, last-activity unix
// nanoseconds as the value. The hash expires on its own shortly after
// the last touch.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func presenceKey(ticketID snowflake.ID, fieldID string) string {
	return fmt.Sprintf("typing:%s:%s", ticketID.String(), fieldID)
}

func (s *RedisStore) Touch(ctx context.Context, indicator Indicator) error {
	key := presenceKey(indicator.TicketID, indicator.FieldID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, indicator.UserID.String(), indicator.LastActivity.UnixNano())
	pipe.Expire(ctx, key, 2*Staleness)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Remove(ctx context.Context, ticketID snowflake.ID, fieldID string, userID snowflake.ID) error {
	return s.client.HDel(ctx, presenceKey(ticketID, fieldID), userID.String()).Err()
}

func (s *RedisStore) Active(ctx context.Context, ticketID snowflake.ID, fieldID string, window time.Duration) ([]Indicator, error) {
	entries, err := s.client.HGetAll(ctx, presenceKey(ticketID, fieldID)).Result()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []Indicator
	for rawUser, rawNanos := range entries {
		userID, err := snowflake.ParseString(rawUser)
		if err != nil {
			continue
		}
		nanos, err := strconv.ParseInt(rawNanos, 10, 64)
		if err != nil {
			continue
		}
		last := time.Unix(0, nanos).UTC()
		if now.Sub(last) > window {
			continue
		}
		out = append(out, Indicator{
			TicketID:     ticketID,
			FieldID:      fieldID,
			UserID:       userID,
			LastActivity: last,
		})
	}
	return out, nil
}
