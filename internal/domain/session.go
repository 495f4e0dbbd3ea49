package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// State is the transfer session state.
type State string

const (
	StateEditing         State = "editing"
	StatePreview         State = "preview"
	StateStepUpPending   State = "step_up_pending"
	StateStepUpVerifying State = "step_up_verifying"
	StateSubmitting      State = "submitting"
	StateSuccess         State = "success"
	StateFailed          State = "failed"
	StateAbandoned       State = "abandoned"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateAbandoned
}

// OTPAttemptBudget is the number of verification attempts per challenge.
const OTPAttemptBudget = 3

// OTPStatus is the lifecycle of a step-up challenge.
type OTPStatus string

const (
	OTPPending  OTPStatus = "pending"
	OTPVerified OTPStatus = "verified"
	OTPFailed   OTPStatus = "failed"
)

// OTPChallenge is the step-up verification state nested inside an active
// session. The code itself is never stored here; the gateway owns it.
type OTPChallenge struct {
	SentTo            Phone     `json:"sent_to"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	ExpiresAt         time.Time `json:"expires_at"`
	Status            OTPStatus `json:"status"`
}

// Receipt is the terminal record of a successful transfer.
type Receipt struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currency_code"`
	RecipientName string          `json:"recipient_name"`
	Address       string          `json:"address"`
	PhoneNumber   Phone           `json:"phone_number"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Session is the transfer flow state machine:
//
//	Editing → Preview → (StepUpPending → StepUpVerifying)? → Submitting → Success
//
// with back-edges Preview→Editing (edit-in-place), StepUpPending→Preview
// (cancel), Submitting→Preview (failure, manual retry), and Abandoned from
// any non-terminal state. All methods are transition guards only; gateway
// calls happen in the use case between Begin*/Complete* pairs.
type Session struct {
	ID                 string        `json:"id"`
	State              State         `json:"state"`
	Draft              *Draft        `json:"draft"`
	Snapshot           *Snapshot     `json:"snapshot,omitempty"`
	OpenFields         []Field       `json:"open_fields,omitempty"`
	Challenge          *OTPChallenge `json:"challenge,omitempty"`
	SubmissionAttempts int           `json:"submission_attempts"`
	IdempotencyToken   string        `json:"idempotency_token,omitempty"`
	LastError          ErrorKind     `json:"last_error,omitempty"`
	Receipt            *Receipt      `json:"receipt,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewSession opens a transfer flow in the editing state.
func NewSession(id string, policy FlowPolicy, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateEditing,
		Draft:     NewDraft(policy),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetField applies a draft mutation. While fields are reopened from preview,
// only those fields may change; everything else in the snapshot stays fixed.
func (s *Session) SetField(field Field, value string) error {
	if err := s.guardNotTerminal(); err != nil {
		return err
	}

	if s.State != StateEditing {
		return fmt.Errorf("%w: cannot edit in state %s", ErrInvalidTransition, s.State)
	}

	if len(s.OpenFields) > 0 && !fieldOpen(s.OpenFields, field) {
		return fmt.Errorf("%w: %s", ErrFieldNotEditable, field)
	}

	return s.Draft.Set(field, value)
}

// Continue is the single validation gate: Editing → Preview. An invalid
// draft leaves the state untouched and raises field errors. The idempotency
// token is minted fresh on every preview entry so that manual retries of one
// confirmed transfer deduplicate, while a re-edited transfer does not.
func (s *Session) Continue(idempotencyToken string, now time.Time) error {
	if err := s.guardNotTerminal(); err != nil {
		return err
	}

	if s.State != StateEditing || len(s.OpenFields) > 0 {
		return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, s.State)
	}

	if !s.Draft.Validate() {
		return ErrDraftInvalid
	}

	snap, err := s.Draft.Snapshot()
	if err != nil {
		return err
	}

	s.Snapshot = &snap
	s.IdempotencyToken = idempotencyToken
	s.LastError = KindNone
	s.State = StatePreview
	s.UpdatedAt = now

	return nil
}

// Edit reopens fields for correction from preview. Only country and phone
// are editable in place; the rest of the snapshot is kept.
func (s *Session) Edit(fields []Field, now time.Time) error {
	if s.State != StatePreview {
		return fmt.Errorf("%w: edit from %s", ErrInvalidTransition, s.State)
	}

	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to edit", ErrInvalidTransition)
	}

	for _, f := range fields {
		if !PreviewEditable(f) {
			return fmt.Errorf("%w: %s", ErrFieldNotEditable, f)
		}
	}

	s.OpenFields = fields
	s.State = StateEditing
	s.UpdatedAt = now

	return nil
}

// Save re-validates the reopened fields and merges them back into the
// snapshot, returning to preview. Other snapshot fields are untouched.
func (s *Session) Save(now time.Time) error {
	if s.State != StateEditing || len(s.OpenFields) == 0 {
		return fmt.Errorf("%w: save from %s", ErrInvalidTransition, s.State)
	}

	for _, f := range s.OpenFields {
		if _, bad := s.Draft.FieldErrors[f]; bad {
			return ErrDraftInvalid
		}
	}

	for _, f := range s.OpenFields {
		switch f {
		case FieldCountry:
			s.Snapshot.Country = s.Draft.Country
		case FieldPhoneNumber:
			s.Snapshot.PhoneNumber = s.Draft.Phone
		}
	}

	s.OpenFields = nil
	s.State = StatePreview
	s.UpdatedAt = now

	return nil
}

// BeginStepUp records a successfully sent challenge: Preview → StepUpPending.
// A resend while already pending refreshes the expiry but keeps the attempt
// budget.
func (s *Session) BeginStepUp(expiresAt time.Time, now time.Time) error {
	switch s.State {
	case StatePreview:
		s.Challenge = &OTPChallenge{
			SentTo:            s.Snapshot.PhoneNumber,
			AttemptsRemaining: OTPAttemptBudget,
			ExpiresAt:         expiresAt,
			Status:            OTPPending,
		}
	case StateStepUpPending:
		s.Challenge.ExpiresAt = expiresAt
	default:
		return fmt.Errorf("%w: step-up from %s", ErrInvalidTransition, s.State)
	}

	s.LastError = KindNone
	s.State = StateStepUpPending
	s.UpdatedAt = now

	return nil
}

// RecordStepUpSendFailure keeps the session in preview with a retryable
// error when the challenge could not be dispatched.
func (s *Session) RecordStepUpSendFailure(now time.Time) {
	if s.State == StatePreview {
		s.LastError = KindOTPSendFailed
		s.UpdatedAt = now
	}
}

// CancelStepUp backs out of a pending challenge: StepUpPending → Preview.
// The challenge is discarded with the sub-state.
func (s *Session) CancelStepUp(now time.Time) error {
	if s.State != StateStepUpPending {
		return fmt.Errorf("%w: cancel step-up from %s", ErrInvalidTransition, s.State)
	}

	s.Challenge = nil
	s.State = StatePreview
	s.UpdatedAt = now

	return nil
}

// BeginVerify gates a verification attempt: the code must have the gateway's
// fixed length before dispatch is even attempted; a malformed code is
// rejected here without consuming an attempt. StepUpPending → StepUpVerifying.
func (s *Session) BeginVerify(code string, now time.Time) error {
	if s.State == StateStepUpVerifying {
		return ErrActionPending
	}

	if s.State != StateStepUpPending {
		return fmt.Errorf("%w: verify from %s", ErrInvalidTransition, s.State)
	}

	if err := ValidateOTPCode(code); err != nil {
		return err
	}

	s.State = StateStepUpVerifying
	s.UpdatedAt = now

	return nil
}

// CompleteVerify applies the gateway outcome of a verification attempt.
// Mismatch and expiry consume one attempt; rate limiting does not. When the
// budget reaches zero the session fails terminally. On success the session
// proceeds straight to submitting.
func (s *Session) CompleteVerify(verifyErr error, now time.Time) error {
	if s.State != StateStepUpVerifying {
		return fmt.Errorf("%w: complete verify from %s", ErrInvalidTransition, s.State)
	}

	s.UpdatedAt = now

	if verifyErr == nil {
		s.Challenge.Status = OTPVerified
		s.LastError = KindNone
		s.State = StateSubmitting

		return nil
	}

	s.LastError = KindOf(verifyErr)

	if errors.Is(verifyErr, ErrOTPRateLimited) {
		s.State = StateStepUpPending
		return nil
	}

	s.Challenge.AttemptsRemaining--
	if s.Challenge.AttemptsRemaining <= 0 {
		s.Challenge.Status = OTPFailed
		s.State = StateFailed

		return nil
	}

	s.State = StateStepUpPending

	return nil
}

// BeginSubmit dispatches the transfer: Preview → Submitting. Re-invocation
// while a submission is in flight is rejected, which is the re-entrancy
// guard against double-click double-submission.
func (s *Session) BeginSubmit(now time.Time) error {
	if s.State == StateSubmitting {
		return ErrActionPending
	}

	if s.State != StatePreview {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.State)
	}

	if s.Snapshot == nil {
		return ErrDraftInvalid
	}

	s.State = StateSubmitting
	s.UpdatedAt = now

	return nil
}

// CompleteSubmit applies the gateway outcome. Success is terminal and
// idempotent: a duplicate success callback never produces a second receipt.
// Failure returns to preview with the snapshot preserved so the user can
// retry without re-entering fields.
func (s *Session) CompleteSubmit(receipt *Receipt, submitErr error, now time.Time) error {
	if s.State == StateSuccess {
		return nil
	}

	if s.State != StateSubmitting {
		return fmt.Errorf("%w: complete submit from %s", ErrInvalidTransition, s.State)
	}

	s.UpdatedAt = now

	if submitErr != nil {
		s.SubmissionAttempts++
		s.LastError = KindOf(submitErr)
		s.State = StatePreview

		return nil
	}

	s.Receipt = receipt
	s.Challenge = nil
	s.LastError = KindNone
	s.State = StateSuccess

	return nil
}

// Abandon terminates the flow on back navigation. Terminal states reject it;
// everything already executed lives with the gateways, not here.
func (s *Session) Abandon(now time.Time) error {
	if err := s.guardNotTerminal(); err != nil {
		return err
	}

	if s.State == StateSubmitting || s.State == StateStepUpVerifying {
		return ErrActionPending
	}

	s.Challenge = nil
	s.State = StateAbandoned
	s.UpdatedAt = now

	return nil
}

func (s *Session) guardNotTerminal() error {
	if s.State.Terminal() {
		return fmt.Errorf("%w: %s", ErrSessionTerminal, s.State)
	}

	return nil
}

func fieldOpen(open []Field, f Field) bool {
	for _, o := range open {
		if o == f {
			return true
		}
	}

	return false
}
