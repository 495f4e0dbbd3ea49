package gateway

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gosend/internal/domain"
)

const (
	otpCodePrefix     = "otp:code:"
	otpCooldownPrefix = "otp:cooldown:"
)

// RedisOTPGateway implements usecase.OTPGateway. Codes are random 6-digit
// values stored under a TTL; a cooldown key rate-limits resends. Verified
// codes are consumed so they cannot be replayed.
type RedisOTPGateway struct {
	client         *redis.Client
	sender         MessageSender
	codeTTL        time.Duration
	resendCooldown time.Duration
}

// NewRedisOTPGateway creates a new RedisOTPGateway.
func NewRedisOTPGateway(client *redis.Client, sender MessageSender, codeTTL, resendCooldown time.Duration) *RedisOTPGateway {
	return &RedisOTPGateway{
		client:         client,
		sender:         sender,
		codeTTL:        codeTTL,
		resendCooldown: resendCooldown,
	}
}

// SendCode generates and delivers a fresh code for the phone number. Resend
// requests inside the cooldown window are rate limited.
func (g *RedisOTPGateway) SendCode(ctx context.Context, phone domain.Phone) error {
	if g.resendCooldown > 0 {
		set, err := g.client.SetNX(ctx, otpCooldownPrefix+string(phone), "1", g.resendCooldown).Result()
		if err != nil {
			return fmt.Errorf("otp cooldown check: %w", err)
		}

		if !set {
			return domain.ErrOTPRateLimited
		}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp code: %w", err)
	}

	if err := g.client.Set(ctx, otpCodePrefix+string(phone), code, g.codeTTL).Err(); err != nil {
		return fmt.Errorf("store otp code: %w", err)
	}

	body := fmt.Sprintf("Your GoSend verification code is %s. It expires in %d minutes.", code, int(g.codeTTL.Minutes()))
	if err := g.sender.Send(ctx, phone, body); err != nil {
		return fmt.Errorf("send otp message: %w", err)
	}

	return nil
}

// Verify compares a submitted code against the stored one. A missing key
// means the code expired (or was never sent); a verified code is consumed.
func (g *RedisOTPGateway) Verify(ctx context.Context, phone domain.Phone, code string) error {
	key := otpCodePrefix + string(phone)

	stored, err := g.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrOTPExpired
		}

		return fmt.Errorf("load otp code: %w", err)
	}

	if stored != code {
		return domain.ErrOTPMismatch
	}

	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("consume otp code: %w", err)
	}

	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
