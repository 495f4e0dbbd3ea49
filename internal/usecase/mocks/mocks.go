// Package mocks provides hand-rolled mock implementations of the usecase
// interfaces for tests.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/gosend/internal/domain"
)

// MockSessionRepository is an in-memory SessionRepository.
type MockSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	SaveFunc   func(ctx context.Context, session *domain.Session) error
	GetFunc    func(ctx context.Context, id string) (*domain.Session, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// MockOTPGateway is a scriptable OTPGateway.
type MockOTPGateway struct {
	mu          sync.Mutex
	sentTo      []domain.Phone
	verifyCalls int

	SendCodeFunc func(ctx context.Context, phone domain.Phone) error
	VerifyFunc   func(ctx context.Context, phone domain.Phone, code string) error

	// AcceptCode, when set and VerifyFunc is nil, makes Verify succeed only
	// for the matching code.
	AcceptCode string
}

func NewMockOTPGateway() *MockOTPGateway {
	return &MockOTPGateway{}
}

func (m *MockOTPGateway) SendCode(ctx context.Context, phone domain.Phone) error {
	m.mu.Lock()
	m.sentTo = append(m.sentTo, phone)
	m.mu.Unlock()

	if m.SendCodeFunc != nil {
		return m.SendCodeFunc(ctx, phone)
	}
	return nil
}

func (m *MockOTPGateway) Verify(ctx context.Context, phone domain.Phone, code string) error {
	m.mu.Lock()
	m.verifyCalls++
	m.mu.Unlock()

	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, code)
	}
	if m.AcceptCode != "" && code != m.AcceptCode {
		return domain.ErrOTPMismatch
	}
	return nil
}

// SentTo returns every phone number a code was sent to.
func (m *MockOTPGateway) SentTo() []domain.Phone {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Phone(nil), m.sentTo...)
}

// VerifyCalls returns how many verification attempts reached the gateway.
func (m *MockOTPGateway) VerifyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyCalls
}

// MockSubmissionGateway is a scriptable SubmissionGateway.
type MockSubmissionGateway struct {
	mu      sync.Mutex
	submits int
	tokens  []string

	SubmitFunc func(ctx context.Context, snapshot domain.Snapshot, idempotencyToken string) (*domain.Receipt, error)
}

func NewMockSubmissionGateway() *MockSubmissionGateway {
	return &MockSubmissionGateway{}
}

func (m *MockSubmissionGateway) Submit(ctx context.Context, snapshot domain.Snapshot, idempotencyToken string) (*domain.Receipt, error) {
	m.mu.Lock()
	m.submits++
	m.tokens = append(m.tokens, idempotencyToken)
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, snapshot, idempotencyToken)
	}

	return &domain.Receipt{
		ID:            fmt.Sprintf("rcpt-%d", m.submits),
		Amount:        snapshot.Amount,
		CurrencyCode:  snapshot.Currency.Code,
		RecipientName: snapshot.RecipientName,
		Address:       snapshot.Address,
		PhoneNumber:   snapshot.PhoneNumber,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Submits returns the number of gateway submissions.
func (m *MockSubmissionGateway) Submits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submits
}

// Tokens returns the idempotency tokens seen by the gateway, in order.
func (m *MockSubmissionGateway) Tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}

// MockIDGenerator returns sequential IDs unless overridden.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("id-%d", m.n)
}

// MockClock returns a fixed, manually advanceable time.
type MockClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{t: t}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = m.t.Add(d)
}
