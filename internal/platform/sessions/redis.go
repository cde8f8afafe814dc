package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists challenge sessions as JSON blobs with a TTL matching
// the attempt window, so an in-flight attempt survives server restarts and
// is shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, userID, hackathonID string) (*model.ChallengeSession, error) {
	data, err := s.client.Get(ctx, sessionKey(userID, hackathonID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessions: redis get: %w", err)
	}
	var sess model.ChallengeSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("sessions: decode session: %w", err)
	}
	if sess.Submitted == nil {
		sess.Submitted = make(map[int]bool)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *model.ChallengeSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("sessions: encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.UserID, sess.HackathonID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("sessions: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID, hackathonID string) error {
	if err := s.client.Del(ctx, sessionKey(userID, hackathonID)).Err(); err != nil {
		return fmt.Errorf("sessions: redis del: %w", err)
	}
	return nil
}
