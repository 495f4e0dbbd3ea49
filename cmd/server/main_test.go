package main

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gosend/internal/infrastructure/config"
)

func TestFlowPolicy(t *testing.T) {
	cfg := &config.Config{
		FlowCurrency:             "USD",
		FlowAmountCeiling:        "500",
		FlowRequireAddress:       true,
		FlowRequirePhone:         true,
		FlowRequireOTP:           true,
		FlowStrictAddress:        true,
		FlowAddressMinLength:     10,
		FlowDefaultPhoneRegion:   "US",
		FlowRequireRecipientName: true,
	}

	policy, err := flowPolicy(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !policy.AmountCeiling.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected ceiling 500, got %s", policy.AmountCeiling)
	}
	if !policy.Address.Strict {
		t.Fatal("expected strict address policy")
	}
	if policy.DefaultPhoneRegion != "US" {
		t.Fatalf("expected default region US, got %s", policy.DefaultPhoneRegion)
	}
}

func TestFlowPolicyUnknownCurrency(t *testing.T) {
	cfg := &config.Config{FlowCurrency: "XYZ", FlowAmountCeiling: "500"}

	if _, err := flowPolicy(cfg); err == nil {
		t.Fatal("expected error for unknown currency")
	}
}

func TestFlowPolicyBadCeiling(t *testing.T) {
	cfg := &config.Config{FlowCurrency: "USD", FlowAmountCeiling: "not-a-number"}

	if _, err := flowPolicy(cfg); err == nil {
		t.Fatal("expected error for unparseable ceiling")
	}
}
