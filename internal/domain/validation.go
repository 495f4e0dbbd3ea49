package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// StrictAddressLength is the fixed length of a strict ledger address.
	StrictAddressLength = 56
	// DefaultAddressMinLength applies when the strict format is not enforced.
	DefaultAddressMinLength = 10
	// OTPCodeLength is the fixed length of a verification code.
	OTPCodeLength = 6
)

var (
	rxStrictAddress = regexp.MustCompile(`^[A-Z0-9]{56}$`)
	rxOTPCode       = regexp.MustCompile(`^\d{6}$`)
)

// AddressPolicy selects which recipient-address rule applies to a flow.
// Strict enforces the fixed-length uppercase ledger format; otherwise a
// minimum-length heuristic is used.
type AddressPolicy struct {
	Strict    bool `json:"strict"`
	MinLength int  `json:"min_length"`
}

// ValidateAmount parses a raw amount string and checks it against the
// configured ceiling. A zero ceiling disables the cap. It never panics on
// malformed input.
func ValidateAmount(raw string, ceiling decimal.Decimal) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrAmountNotANumber
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountNotANumber, raw)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrAmountNotPositive
	}

	if ceiling.IsPositive() && amount.GreaterThan(ceiling) {
		return decimal.Zero, fmt.Errorf("%w: maximum is %s", ErrAmountExceedsMax, ceiling.String())
	}

	return amount, nil
}

// ValidateAddress checks a recipient ledger address against the policy and
// returns the trimmed address on success.
func ValidateAddress(raw string, policy AddressPolicy) (string, error) {
	addr := strings.TrimSpace(raw)

	if policy.Strict {
		if !rxStrictAddress.MatchString(addr) {
			if len(addr) < StrictAddressLength {
				return "", fmt.Errorf("%w: expected %d characters", ErrAddressTooShort, StrictAddressLength)
			}

			return "", ErrAddressInvalidFormat
		}

		return addr, nil
	}

	minLen := policy.MinLength
	if minLen <= 0 {
		minLen = DefaultAddressMinLength
	}

	if len(addr) < minLen {
		return "", fmt.Errorf("%w: minimum is %d characters", ErrAddressTooShort, minLen)
	}

	return addr, nil
}

// ValidateOTPCode checks the client-side shape of a verification code before
// it is dispatched to the gateway. A malformed code is rejected locally and
// never consumes a verification attempt.
func ValidateOTPCode(code string) error {
	if !rxOTPCode.MatchString(code) {
		return ErrOTPCodeLength
	}

	return nil
}
