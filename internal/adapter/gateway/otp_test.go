package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/gosend/internal/domain"
)

// captureSender records every message instead of delivering it.
type captureSender struct {
	mu       sync.Mutex
	messages []string
	phones   []domain.Phone

	err error
}

func (s *captureSender) Send(_ context.Context, phone domain.Phone, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.phones = append(s.phones, phone)
	s.messages = append(s.messages, body)

	return nil
}

func (s *captureSender) lastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return ""
	}

	return s.messages[len(s.messages)-1]
}

func newTestOTPGateway(t *testing.T) (*RedisOTPGateway, *captureSender, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sender := &captureSender{}
	gw := NewRedisOTPGateway(client, sender, 10*time.Minute, 30*time.Second)

	return gw, sender, mr
}

// extractCode pulls the 6-digit code out of a delivered message body.
func extractCode(t *testing.T, body string) string {
	t.Helper()

	for _, word := range strings.Fields(body) {
		word = strings.TrimSuffix(word, ".")
		if len(word) == domain.OTPCodeLength && strings.IndexFunc(word, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			return word
		}
	}

	t.Fatalf("no code found in message %q", body)

	return ""
}

func TestOTPGateway_SendAndVerify(t *testing.T) {
	gw, sender, mr := newTestOTPGateway(t)
	defer mr.Close()
	ctx := context.Background()

	phone := domain.Phone("+15552223333")

	if err := gw.SendCode(ctx, phone); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	code := extractCode(t, sender.lastMessage())

	if err := gw.Verify(ctx, phone, code); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// A verified code is consumed and cannot be replayed.
	if err := gw.Verify(ctx, phone, code); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired on replay, got %v", err)
	}
}

func TestOTPGateway_Mismatch(t *testing.T) {
	gw, sender, mr := newTestOTPGateway(t)
	defer mr.Close()
	ctx := context.Background()

	phone := domain.Phone("+15552223333")

	if err := gw.SendCode(ctx, phone); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if err := gw.Verify(ctx, phone, "000000"); !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch, got %v", err)
	}

	// A mismatch does not consume the stored code.
	code := extractCode(t, sender.lastMessage())
	if err := gw.Verify(ctx, phone, code); err != nil {
		t.Fatalf("expected correct code still valid, got %v", err)
	}
}

func TestOTPGateway_Expiry(t *testing.T) {
	gw, sender, mr := newTestOTPGateway(t)
	defer mr.Close()
	ctx := context.Background()

	phone := domain.Phone("+15552223333")

	if err := gw.SendCode(ctx, phone); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	code := extractCode(t, sender.lastMessage())

	mr.FastForward(11 * time.Minute)

	if err := gw.Verify(ctx, phone, code); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestOTPGateway_ResendCooldown(t *testing.T) {
	gw, _, mr := newTestOTPGateway(t)
	defer mr.Close()
	ctx := context.Background()

	phone := domain.Phone("+15552223333")

	if err := gw.SendCode(ctx, phone); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if err := gw.SendCode(ctx, phone); !errors.Is(err, domain.ErrOTPRateLimited) {
		t.Fatalf("expected ErrOTPRateLimited, got %v", err)
	}

	mr.FastForward(time.Minute)

	if err := gw.SendCode(ctx, phone); err != nil {
		t.Fatalf("expected resend allowed after cooldown, got %v", err)
	}
}

func TestOTPGateway_SendFailure(t *testing.T) {
	gw, sender, mr := newTestOTPGateway(t)
	defer mr.Close()

	sender.err = errors.New("provider down")

	if err := gw.SendCode(context.Background(), "+15552223333"); err == nil {
		t.Fatal("expected error when delivery fails")
	}
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if err := domain.ValidateOTPCode(code); err != nil {
			t.Fatalf("generated code %q not 6 digits: %v", code, err)
		}
	}
}
