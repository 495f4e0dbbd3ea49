package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gosend/internal/domain"
)

// SessionRepository implements usecase.SessionRepository on Redis. Sessions
// are JSON-encoded under a TTL so abandoned flows expire on their own.
type SessionRepository struct {
	client  *redis.Client
	retrier *Retrier
	prefix  string
	ttl     time.Duration
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(client *redis.Client, retrier *Retrier, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client:  client,
		retrier: retrier,
		prefix:  "session:",
		ttl:     ttl,
	}
}

// Save persists the session, resetting its TTL.
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return r.retrier.Retry(ctx, func() error {
		return r.client.Set(ctx, r.prefix+session.ID, data, r.ttl).Err()
	})
}

// Get loads a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var data []byte

	err := r.retrier.Retry(ctx, func() error {
		b, err := r.client.Get(ctx, r.prefix+id).Bytes()
		if err != nil {
			return err
		}

		data = b

		return nil
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}

		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, func() error {
		return r.client.Del(ctx, r.prefix+id).Err()
	})
}
