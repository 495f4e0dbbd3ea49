package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/gosend/internal/domain"
)

// OTPExpiry is the freshness window of a step-up challenge, matching the
// gateway's own code TTL.
const OTPExpiry = 10 * time.Minute

// SendUseCase drives the transfer flow state machine against the session
// store and the two external gateways. It processes one event per call;
// re-entrancy across concurrent requests is rejected by the transient
// session states persisted before each gateway call.
type SendUseCase struct {
	sessions  SessionRepository
	otp       OTPGateway
	submitter SubmissionGateway
	idGen     IDGenerator
	clock     Clock
	policy    domain.FlowPolicy
}

// NewSendUseCase creates a new SendUseCase.
func NewSendUseCase(
	sessions SessionRepository,
	otp OTPGateway,
	submitter SubmissionGateway,
	idGen IDGenerator,
	clock Clock,
	policy domain.FlowPolicy,
) *SendUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &SendUseCase{
		sessions:  sessions,
		otp:       otp,
		submitter: submitter,
		idGen:     idGen,
		clock:     clock,
		policy:    policy,
	}
}

// Open starts a new transfer flow in the editing state.
func (uc *SendUseCase) Open(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(uc.idGen.Generate(), uc.policy, uc.clock.Now())

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// Get returns the current session snapshot.
func (uc *SendUseCase) Get(ctx context.Context, id string) (*domain.Session, error) {
	return uc.sessions.Get(ctx, id)
}

// DraftInput carries partial draft mutations; nil fields are untouched.
type DraftInput struct {
	Amount        *string
	Currency      *string
	RecipientName *string
	Address       *string
	Country       *string
	PhoneNumber   *string
}

// UpdateDraft applies field mutations to the live draft. Validation errors
// land in the draft's field-error map; the session itself always saves.
func (uc *SendUseCase) UpdateDraft(ctx context.Context, id string, input DraftInput) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		field domain.Field
		value *string
	}{
		{domain.FieldAmount, input.Amount},
		{domain.FieldCurrency, input.Currency},
		{domain.FieldRecipientName, input.RecipientName},
		{domain.FieldAddress, input.Address},
		{domain.FieldCountry, input.Country},
		{domain.FieldPhoneNumber, input.PhoneNumber},
	}

	for _, f := range fields {
		if f.value == nil {
			continue
		}

		if err := session.SetField(f.field, *f.value); err != nil {
			return nil, err
		}
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// Continue moves the flow from editing to preview through the single
// validation gate. A fresh idempotency token is minted for this preview
// entry.
func (uc *SendUseCase) Continue(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := session.Continue(uc.idGen.Generate(), uc.clock.Now()); err != nil {
		// Field errors raised by the gate must be visible to the caller.
		if errors.Is(err, domain.ErrDraftInvalid) {
			if saveErr := uc.sessions.Save(ctx, session); saveErr != nil {
				return nil, fmt.Errorf("save session: %w", saveErr)
			}
		}

		return session, err
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// Edit reopens fields for in-place correction from preview.
func (uc *SendUseCase) Edit(ctx context.Context, id string, fields []domain.Field) (*domain.Session, error) {
	return uc.transition(ctx, id, func(s *domain.Session) error {
		return s.Edit(fields, uc.clock.Now())
	})
}

// Save merges corrected fields back into the snapshot and returns to preview.
func (uc *SendUseCase) Save(ctx context.Context, id string) (*domain.Session, error) {
	return uc.transition(ctx, id, func(s *domain.Session) error {
		return s.Save(uc.clock.Now())
	})
}

// Confirm advances from preview: it either starts the step-up challenge
// (when the flow policy requires phone verification) or dispatches the
// transfer directly. Calling it again while a challenge is pending re-sends
// the code.
func (uc *SendUseCase) Confirm(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case domain.StatePreview:
		if uc.policy.RequireOTP {
			return uc.startStepUp(ctx, session)
		}

		return uc.submit(ctx, session)
	case domain.StateStepUpPending:
		return uc.startStepUp(ctx, session)
	case domain.StateSubmitting, domain.StateStepUpVerifying:
		return session, domain.ErrActionPending
	default:
		return session, fmt.Errorf("%w: confirm from %s", domain.ErrInvalidTransition, session.State)
	}
}

// Verify checks a step-up code against the gateway. A malformed code is
// rejected locally without consuming an attempt; mismatch and expiry
// decrement the budget; on success the transfer is dispatched immediately.
func (uc *SendUseCase) Verify(ctx context.Context, id, code string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := session.BeginVerify(code, now); err != nil {
		return session, err
	}

	// Persist the transient verifying state so a duplicate request is
	// rejected by the re-entrancy guard.
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	verifyErr := uc.otp.Verify(ctx, session.Challenge.SentTo, code)

	if err := session.CompleteVerify(verifyErr, uc.clock.Now()); err != nil {
		return session, err
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if verifyErr != nil {
		return session, verifyErr
	}

	// Verified: the session is already in the submitting state.
	return uc.dispatch(ctx, session)
}

// Retry re-confirms after a submission failure. The snapshot and its
// idempotency token are preserved, so the gateway deduplicates repeated
// manual retries of the same confirmed transfer.
func (uc *SendUseCase) Retry(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != domain.StatePreview || session.LastError == domain.KindNone {
		return session, fmt.Errorf("%w: retry from %s", domain.ErrInvalidTransition, session.State)
	}

	if uc.policy.RequireOTP && session.Challenge == nil {
		return uc.startStepUp(ctx, session)
	}

	return uc.submit(ctx, session)
}

// Abandon discards the session and its challenge entirely.
func (uc *SendUseCase) Abandon(ctx context.Context, id string) error {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := session.Abandon(uc.clock.Now()); err != nil {
		return err
	}

	return uc.sessions.Delete(ctx, id)
}

// CancelStepUp backs out of a pending challenge to preview.
func (uc *SendUseCase) CancelStepUp(ctx context.Context, id string) (*domain.Session, error) {
	return uc.transition(ctx, id, func(s *domain.Session) error {
		return s.CancelStepUp(uc.clock.Now())
	})
}

func (uc *SendUseCase) startStepUp(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	now := uc.clock.Now()

	if err := uc.otp.SendCode(ctx, session.Snapshot.PhoneNumber); err != nil {
		if errors.Is(err, domain.ErrOTPRateLimited) && session.State == domain.StateStepUpPending {
			// Resend blocked; the pending challenge stays as-is.
			return session, err
		}

		session.RecordStepUpSendFailure(now)
		if saveErr := uc.sessions.Save(ctx, session); saveErr != nil {
			return nil, fmt.Errorf("save session: %w", saveErr)
		}

		return session, fmt.Errorf("%w: %v", domain.ErrOTPSendFailed, err)
	}

	if err := session.BeginStepUp(now.Add(OTPExpiry), now); err != nil {
		return session, err
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

func (uc *SendUseCase) submit(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if err := session.BeginSubmit(uc.clock.Now()); err != nil {
		return session, err
	}

	// Persist the transient submitting state before dispatch: a concurrent
	// duplicate request must see it and be rejected.
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return uc.dispatch(ctx, session)
}

func (uc *SendUseCase) dispatch(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	receipt, submitErr := uc.submitter.Submit(ctx, *session.Snapshot, session.IdempotencyToken)

	if err := session.CompleteSubmit(receipt, submitErr, uc.clock.Now()); err != nil {
		return session, err
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, submitErr
}

func (uc *SendUseCase) transition(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return session, err
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}
