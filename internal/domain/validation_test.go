package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	ceiling := decimal.NewFromInt(1000)

	t.Run("valid amount", func(t *testing.T) {
		amount, err := ValidateAmount("50.00", ceiling)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !amount.Equal(decimal.RequireFromString("50.00")) {
			t.Fatalf("expected 50.00, got %s", amount)
		}
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		if _, err := ValidateAmount("  12.5  ", ceiling); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty is not a number", func(t *testing.T) {
		_, err := ValidateAmount("", ceiling)
		if !errors.Is(err, ErrAmountNotANumber) {
			t.Fatalf("expected ErrAmountNotANumber, got %v", err)
		}
	})

	t.Run("garbage is not a number", func(t *testing.T) {
		_, err := ValidateAmount("abc", ceiling)
		if !errors.Is(err, ErrAmountNotANumber) {
			t.Fatalf("expected ErrAmountNotANumber, got %v", err)
		}
	})

	t.Run("negative rejected", func(t *testing.T) {
		_, err := ValidateAmount("-5", ceiling)
		if !errors.Is(err, ErrAmountNotPositive) {
			t.Fatalf("expected ErrAmountNotPositive, got %v", err)
		}
	})

	t.Run("zero rejected", func(t *testing.T) {
		_, err := ValidateAmount("0", ceiling)
		if !errors.Is(err, ErrAmountNotPositive) {
			t.Fatalf("expected ErrAmountNotPositive, got %v", err)
		}
	})

	t.Run("over ceiling rejected", func(t *testing.T) {
		_, err := ValidateAmount("1000.01", ceiling)
		if !errors.Is(err, ErrAmountExceedsMax) {
			t.Fatalf("expected ErrAmountExceedsMax, got %v", err)
		}
	})

	t.Run("exactly at ceiling allowed", func(t *testing.T) {
		if _, err := ValidateAmount("1000", ceiling); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("zero ceiling disables cap", func(t *testing.T) {
		if _, err := ValidateAmount("999999999", decimal.Zero); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestValidateAddress(t *testing.T) {
	t.Parallel()

	strict := AddressPolicy{Strict: true}
	validStrict := "G" + strings.Repeat("A7B2C9D4", 6) + "E5F3XYZ"

	if len(validStrict) != StrictAddressLength {
		t.Fatalf("test fixture length = %d, want %d", len(validStrict), StrictAddressLength)
	}

	t.Run("strict valid", func(t *testing.T) {
		addr, err := ValidateAddress(validStrict, strict)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if addr != validStrict {
			t.Fatalf("expected address unchanged, got %s", addr)
		}
	})

	t.Run("strict trims whitespace", func(t *testing.T) {
		addr, err := ValidateAddress("  "+validStrict+"  ", strict)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if addr != validStrict {
			t.Fatalf("expected trimmed address, got %q", addr)
		}
	})

	t.Run("strict too short", func(t *testing.T) {
		_, err := ValidateAddress(validStrict[:55], strict)
		if !errors.Is(err, ErrAddressTooShort) {
			t.Fatalf("expected ErrAddressTooShort, got %v", err)
		}
	})

	t.Run("strict lowercase rejected", func(t *testing.T) {
		_, err := ValidateAddress(strings.ToLower(validStrict), strict)
		if !errors.Is(err, ErrAddressInvalidFormat) {
			t.Fatalf("expected ErrAddressInvalidFormat, got %v", err)
		}
	})

	t.Run("strict too long rejected", func(t *testing.T) {
		_, err := ValidateAddress(validStrict+"Z", strict)
		if !errors.Is(err, ErrAddressInvalidFormat) {
			t.Fatalf("expected ErrAddressInvalidFormat, got %v", err)
		}
	})

	lenient := AddressPolicy{Strict: false, MinLength: 12}

	t.Run("lenient meets minimum", func(t *testing.T) {
		if _, err := ValidateAddress("abcdefghijkl", lenient); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("lenient below minimum", func(t *testing.T) {
		_, err := ValidateAddress("abcdefghijk", lenient)
		if !errors.Is(err, ErrAddressTooShort) {
			t.Fatalf("expected ErrAddressTooShort, got %v", err)
		}
	})

	t.Run("lenient default minimum", func(t *testing.T) {
		_, err := ValidateAddress("short", AddressPolicy{})
		if !errors.Is(err, ErrAddressTooShort) {
			t.Fatalf("expected ErrAddressTooShort, got %v", err)
		}
		if _, err := ValidateAddress("longenough", AddressPolicy{}); err != nil {
			t.Fatalf("expected 10 characters to pass, got %v", err)
		}
	})
}

func TestValidateOTPCode(t *testing.T) {
	t.Parallel()

	if err := ValidateOTPCode("123456"); err != nil {
		t.Fatalf("expected valid code, got %v", err)
	}

	for _, code := range []string{"", "12345", "1234567", "12345a", "12 456"} {
		if err := ValidateOTPCode(code); !errors.Is(err, ErrOTPCodeLength) {
			t.Fatalf("expected ErrOTPCodeLength for %q, got %v", code, err)
		}
	}
}
