package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gosend/internal/domain"
)

func testSnapshot(t *testing.T) domain.Snapshot {
	t.Helper()

	usd, err := domain.LookupCurrency("USD")
	if err != nil {
		t.Fatalf("lookup currency: %v", err)
	}

	return domain.Snapshot{
		Amount:        decimal.RequireFromString("50.00"),
		Currency:      usd,
		RecipientName: "Ada Lovelace",
		Address:       "G" + strings.Repeat("A7B2C9D4", 6) + "E5F3XYZ",
		PhoneNumber:   "+15552223333",
	}
}

func TestSubmissionGateway_Success(t *testing.T) {
	var gotRequest submitRequest
	var gotHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotRequest)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(submitResponse{ID: "rail-tx-1", CreatedAt: time.Now().UTC()})
	}))
	defer srv.Close()

	gw := NewHTTPSubmissionGateway(srv.URL, 5*time.Second, zerolog.Nop())

	receipt, err := gw.Submit(context.Background(), testSnapshot(t), "tok-1")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if receipt.ID != "rail-tx-1" {
		t.Errorf("expected rail-tx-1, got %s", receipt.ID)
	}
	if !receipt.Amount.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected amount 50.00, got %s", receipt.Amount)
	}
	if gotHeader != "tok-1" {
		t.Errorf("expected Idempotency-Key header, got %q", gotHeader)
	}
	if gotRequest.IdempotencyKey != "tok-1" {
		t.Errorf("expected token in body, got %q", gotRequest.IdempotencyKey)
	}
	if gotRequest.Amount != "50.00" {
		t.Errorf("expected fixed-decimal amount, got %q", gotRequest.Amount)
	}
}

func TestSubmissionGateway_OutcomeNormalization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request rejected", http.StatusBadRequest, domain.ErrSubmissionRejected},
		{"unprocessable rejected", http.StatusUnprocessableEntity, domain.ErrSubmissionRejected},
		{"request timeout", http.StatusRequestTimeout, domain.ErrSubmissionTimeout},
		{"gateway timeout", http.StatusGatewayTimeout, domain.ErrSubmissionTimeout},
		{"server error is network", http.StatusInternalServerError, domain.ErrSubmissionNetwork},
		{"bad gateway is network", http.StatusBadGateway, domain.ErrSubmissionNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			gw := NewHTTPSubmissionGateway(srv.URL, 5*time.Second, zerolog.Nop())

			_, err := gw.Submit(context.Background(), testSnapshot(t), "tok-1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSubmissionGateway_ConnectionRefused(t *testing.T) {
	// Server closed before the request fires.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw := NewHTTPSubmissionGateway(srv.URL, time.Second, zerolog.Nop())

	_, err := gw.Submit(context.Background(), testSnapshot(t), "tok-1")
	if !errors.Is(err, domain.ErrSubmissionNetwork) {
		t.Fatalf("expected ErrSubmissionNetwork, got %v", err)
	}
}

func TestSubmissionGateway_ClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	gw := NewHTTPSubmissionGateway(srv.URL, 50*time.Millisecond, zerolog.Nop())

	_, err := gw.Submit(context.Background(), testSnapshot(t), "tok-1")
	if !errors.Is(err, domain.ErrSubmissionTimeout) {
		t.Fatalf("expected ErrSubmissionTimeout, got %v", err)
	}
}
