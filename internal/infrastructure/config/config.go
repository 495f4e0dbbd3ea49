package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Flow policy
	FlowCurrency             string `env:"FLOW_CURRENCY"               envDefault:"USD"`
	FlowAmountCeiling        string `env:"FLOW_AMOUNT_CEILING"         envDefault:"1000"`
	FlowRequireAddress       bool   `env:"FLOW_REQUIRE_ADDRESS"        envDefault:"true"`
	FlowRequirePhone         bool   `env:"FLOW_REQUIRE_PHONE"          envDefault:"true"`
	FlowRequireCountry       bool   `env:"FLOW_REQUIRE_COUNTRY"        envDefault:"false"`
	FlowRequireRecipientName bool   `env:"FLOW_REQUIRE_RECIPIENT_NAME" envDefault:"false"`
	FlowRequireOTP           bool   `env:"FLOW_REQUIRE_OTP"            envDefault:"true"`
	FlowStrictAddress        bool   `env:"FLOW_STRICT_ADDRESS"         envDefault:"true"`
	FlowAddressMinLength     int    `env:"FLOW_ADDRESS_MIN_LENGTH"     envDefault:"10"`
	FlowDefaultPhoneRegion   string `env:"FLOW_DEFAULT_PHONE_REGION"   envDefault:""`

	// Sessions
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// OTP gateway
	OTPCodeTTL        time.Duration `env:"OTP_CODE_TTL"        envDefault:"10m"`
	OTPResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN" envDefault:"30s"`

	// Submission gateway
	SubmissionURL     string        `env:"SUBMISSION_URL"     envDefault:"http://localhost:9090"`
	SubmissionTimeout time.Duration `env:"SUBMISSION_TIMEOUT" envDefault:"30s"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Rate limiting
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"10"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST"      envDefault:"20"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
