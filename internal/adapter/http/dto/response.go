package dto

import (
	"time"

	"github.com/iho/gosend/internal/domain"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DraftView is the editable form state exposed to the presentation layer.
type DraftView struct {
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	RecipientName string            `json:"recipient_name"`
	Address       string            `json:"address"`
	Country       string            `json:"country"`
	PhoneNumber   string            `json:"phone_number"`
	FieldErrors   map[string]string `json:"field_errors"`
	Valid         bool              `json:"valid"`
}

// PreviewView is the read-only confirmation of the validated snapshot.
type PreviewView struct {
	Amount         string `json:"amount"`
	AmountDisplay  string `json:"amount_display"`
	AmountUSD      string `json:"amount_usd,omitempty"`
	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`
	RecipientName  string `json:"recipient_name,omitempty"`
	Address        string `json:"address,omitempty"`
	ShortAddress   string `json:"short_address,omitempty"`
	Country        string `json:"country,omitempty"`
	PhoneDisplay   string `json:"phone_display,omitempty"`
}

// ChallengeView is the step-up state with the destination masked.
type ChallengeView struct {
	SentTo            string    `json:"sent_to"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	ExpiresAt         time.Time `json:"expires_at"`
	Status            string    `json:"status"`
}

// ReceiptView is the terminal success record.
type ReceiptView struct {
	ID            string    `json:"id"`
	AmountDisplay string    `json:"amount_display"`
	RecipientName string    `json:"recipient_name,omitempty"`
	ShortAddress  string    `json:"short_address,omitempty"`
	PhoneDisplay  string    `json:"phone_display,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionResponse is the full read-only session snapshot.
type SessionResponse struct {
	ID                 string         `json:"id"`
	State              string         `json:"state"`
	Draft              *DraftView     `json:"draft,omitempty"`
	Preview            *PreviewView   `json:"preview,omitempty"`
	OpenFields         []string       `json:"open_fields,omitempty"`
	Challenge          *ChallengeView `json:"challenge,omitempty"`
	SubmissionAttempts int            `json:"submission_attempts"`
	LastError          string         `json:"last_error,omitempty"`
	Receipt            *ReceiptView   `json:"receipt,omitempty"`
}

// SessionFromDomain builds the presentation snapshot of a session.
func SessionFromDomain(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		ID:                 s.ID,
		State:              string(s.State),
		SubmissionAttempts: s.SubmissionAttempts,
		LastError:          string(s.LastError),
	}

	if s.Draft != nil {
		resp.Draft = draftView(s.Draft)
	}

	if s.Snapshot != nil {
		resp.Preview = previewView(s.Snapshot)
	}

	for _, f := range s.OpenFields {
		resp.OpenFields = append(resp.OpenFields, string(f))
	}

	if s.Challenge != nil {
		resp.Challenge = &ChallengeView{
			SentTo:            domain.MaskPhone(s.Challenge.SentTo),
			AttemptsRemaining: s.Challenge.AttemptsRemaining,
			ExpiresAt:         s.Challenge.ExpiresAt,
			Status:            string(s.Challenge.Status),
		}
	}

	if s.Receipt != nil {
		resp.Receipt = receiptView(s.Receipt)
	}

	return resp
}

func draftView(d *domain.Draft) *DraftView {
	fieldErrors := make(map[string]string, len(d.FieldErrors))
	for field, kind := range d.FieldErrors {
		fieldErrors[string(field)] = string(kind)
	}

	return &DraftView{
		Amount:        d.AmountRaw,
		Currency:      d.CurrencyCode,
		RecipientName: d.RecipientName,
		Address:       d.Address,
		Country:       d.Country,
		PhoneNumber:   d.PhoneRaw,
		FieldErrors:   fieldErrors,
		Valid:         d.Valid,
	}
}

func previewView(snap *domain.Snapshot) *PreviewView {
	view := &PreviewView{
		Amount:         snap.Amount.StringFixed(snap.Currency.Decimals),
		AmountDisplay:  domain.FormatMoney(snap.Amount, snap.Currency),
		CurrencyCode:   snap.Currency.Code,
		CurrencySymbol: snap.Currency.Symbol,
		RecipientName:  snap.RecipientName,
		Address:        snap.Address,
		Country:        snap.Country,
	}

	if snap.Address != "" {
		view.ShortAddress = domain.ShortAddress(snap.Address)
	}

	if snap.PhoneNumber != "" {
		view.PhoneDisplay = domain.FormatPhoneForDisplay(string(snap.PhoneNumber), "")
	}

	if snap.Currency.Code != "USD" {
		if usd, err := domain.LookupCurrency("USD"); err == nil {
			view.AmountUSD = domain.FormatMoney(domain.ConvertMoney(snap.Amount, snap.Currency, usd), usd)
		}
	}

	return view
}

func receiptView(r *domain.Receipt) *ReceiptView {
	cur, err := domain.LookupCurrency(r.CurrencyCode)
	amountDisplay := r.Amount.String() + " " + r.CurrencyCode
	if err == nil {
		amountDisplay = domain.FormatMoney(r.Amount, cur)
	}

	view := &ReceiptView{
		ID:            r.ID,
		AmountDisplay: amountDisplay,
		RecipientName: r.RecipientName,
		CreatedAt:     r.CreatedAt,
	}

	if r.Address != "" {
		view.ShortAddress = domain.ShortAddress(r.Address)
	}

	if r.PhoneNumber != "" {
		view.PhoneDisplay = domain.FormatPhoneForDisplay(string(r.PhoneNumber), "")
	}

	return view
}
