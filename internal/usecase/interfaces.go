package usecase

import (
	"context"
	"time"

	"github.com/iho/gosend/internal/domain"
)

// SessionRepository persists transfer sessions. Implementations are an
// explicit injected key-value store, never ambient global state.
type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// OTPGateway is the external step-up verification boundary.
type OTPGateway interface {
	SendCode(ctx context.Context, phone domain.Phone) error
	Verify(ctx context.Context, phone domain.Phone, code string) error
}

// SubmissionGateway is the external payment-rail boundary. The idempotency
// token identifies one logical transfer across manual retries.
type SubmissionGateway interface {
	Submit(ctx context.Context, snapshot domain.Snapshot, idempotencyToken string) (*domain.Receipt, error)
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore provides idempotency checking for HTTP requests.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
