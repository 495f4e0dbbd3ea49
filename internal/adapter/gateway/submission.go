package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gosend/internal/domain"
)

// HTTPSubmissionGateway implements usecase.SubmissionGateway against a
// payment-rail HTTP endpoint. Every gateway outcome is normalized to one of
// the domain submission errors before it reaches the state machine.
type HTTPSubmissionGateway struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPSubmissionGateway creates a new HTTPSubmissionGateway.
func NewHTTPSubmissionGateway(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPSubmissionGateway {
	return &HTTPSubmissionGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type submitRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	Amount         string `json:"amount"`
	CurrencyCode   string `json:"currency_code"`
	RecipientName  string `json:"recipient_name,omitempty"`
	Address        string `json:"recipient_address,omitempty"`
	Country        string `json:"country,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
}

type submitResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Submit dispatches the transfer. The idempotency token identifies one
// logical transfer across manual retries, so the rail can deduplicate.
func (g *HTTPSubmissionGateway) Submit(ctx context.Context, snapshot domain.Snapshot, idempotencyToken string) (*domain.Receipt, error) {
	body, err := json.Marshal(submitRequest{
		IdempotencyKey: idempotencyToken,
		Amount:         snapshot.Amount.StringFixed(snapshot.Currency.Decimals),
		CurrencyCode:   snapshot.Currency.Code,
		RecipientName:  snapshot.RecipientName,
		Address:        snapshot.Address,
		Country:        snapshot.Country,
		PhoneNumber:    string(snapshot.PhoneNumber),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionRejected, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transfers", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionRejected, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyToken)

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionTimeout, err)
		}

		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var out submitResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrSubmissionNetwork, err)
		}

		createdAt := out.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		return &domain.Receipt{
			ID:            out.ID,
			Amount:        snapshot.Amount,
			CurrencyCode:  snapshot.Currency.Code,
			RecipientName: snapshot.RecipientName,
			Address:       snapshot.Address,
			PhoneNumber:   snapshot.PhoneNumber,
			CreatedAt:     createdAt,
		}, nil
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return nil, domain.ErrSubmissionTimeout
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		g.logger.Warn().Int("status", resp.StatusCode).Msg("submission rejected by rail")

		return nil, fmt.Errorf("%w: status %d", domain.ErrSubmissionRejected, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", domain.ErrSubmissionNetwork, resp.StatusCode)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
