package dto

import "github.com/iho/gosend/internal/domain"

// UpdateDraftRequest carries partial draft mutations; absent fields are
// untouched.
type UpdateDraftRequest struct {
	Amount        *string `json:"amount,omitempty"`
	Currency      *string `json:"currency,omitempty"`
	RecipientName *string `json:"recipient_name,omitempty"`
	Address       *string `json:"address,omitempty"`
	Country       *string `json:"country,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
}

// EditRequest names the preview fields to reopen for correction.
type EditRequest struct {
	Fields []string `json:"fields"`
}

// DomainFields converts the raw field names.
func (r EditRequest) DomainFields() []domain.Field {
	fields := make([]domain.Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, domain.Field(f))
	}

	return fields
}

// VerifyRequest carries a step-up verification code.
type VerifyRequest struct {
	Code string `json:"code"`
}
