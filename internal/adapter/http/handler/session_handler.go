package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosend/internal/adapter/http/dto"
	"github.com/iho/gosend/internal/domain"
	"github.com/iho/gosend/internal/infrastructure/metrics"
	"github.com/iho/gosend/internal/usecase"
)

// SessionHandler exposes the transfer flow actions over HTTP. Each endpoint
// is one state-machine event; the response is always the session snapshot.
type SessionHandler struct {
	sendUC  *usecase.SendUseCase
	metrics *metrics.Metrics
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sendUC *usecase.SendUseCase, m *metrics.Metrics) *SessionHandler {
	return &SessionHandler{sendUC: sendUC, metrics: m}
}

// Open starts a new transfer flow.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.Open(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open session", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsOpened.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Get returns the current session snapshot.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.Get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get session", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// UpdateDraft applies field mutations to the live draft.
func (h *SessionHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sendUC.UpdateDraft(r.Context(), sessionID(r), usecase.DraftInput{
		Amount:        req.Amount,
		Currency:      req.Currency,
		RecipientName: req.RecipientName,
		Address:       req.Address,
		Country:       req.Country,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update draft", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Continue moves the flow through the validation gate into preview. On an
// invalid draft the state stays editing and the field errors come back with
// the snapshot.
func (h *SessionHandler) Continue(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.Continue(r.Context(), sessionID(r))
	if err != nil {
		if errors.Is(err, domain.ErrDraftInvalid) && session != nil {
			writeJSON(w, http.StatusUnprocessableEntity, dto.SessionFromDomain(session))
			return
		}

		writeError(w, mapDomainError(err), "failed to continue", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.PreviewEntries.Inc()
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Edit reopens preview fields for in-place correction.
func (h *SessionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sendUC.Edit(r.Context(), sessionID(r), req.DomainFields())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to edit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Save merges corrected fields back into the snapshot.
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.Save(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to save", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Confirm advances from preview: step-up challenge or direct submission.
func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.Confirm(r.Context(), sessionID(r))
	h.observeSubmission(session)

	if err != nil {
		if h.metrics != nil && errors.Is(err, domain.ErrOTPSendFailed) {
			h.metrics.OTPVerifications.WithLabelValues("send_failed").Inc()
		}

		writeError(w, mapDomainError(err), "failed to confirm", err.Error())

		return
	}

	if h.metrics != nil && session.State == domain.StateStepUpPending {
		h.metrics.OTPCodesSent.Inc()
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Verify checks a step-up code.
func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sendUC.Verify(r.Context(), sessionID(r), req.Code)
	h.observeVerification(session, err)
	h.observeSubmission(session)

	if err != nil {
		if session != nil && session.State == domain.StateFailed {
			// Attempt budget exhausted: terminal for this session.
			writeJSON(w, http.StatusConflict, dto.SessionFromDomain(session))
			return
		}

		writeError(w, mapDomainError(err), "verification failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Retry resubmits a failed transfer from preview.
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.Retry(r.Context(), sessionID(r))
	h.observeSubmission(session)

	if err != nil {
		writeError(w, mapDomainError(err), "failed to retry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// CancelStepUp backs out of a pending challenge.
func (h *SessionHandler) CancelStepUp(w http.ResponseWriter, r *http.Request) {
	session, err := h.sendUC.CancelStepUp(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel step-up", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Abandon discards the session.
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.sendUC.Abandon(r.Context(), sessionID(r)); err != nil {
		writeError(w, mapDomainError(err), "failed to abandon", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsAbandoned.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) observeSubmission(session *domain.Session) {
	if h.metrics == nil || session == nil {
		return
	}

	switch session.State {
	case domain.StateSuccess:
		h.metrics.SubmissionAttempts.WithLabelValues("success").Inc()
		if session.Receipt != nil {
			amount, _ := session.Receipt.Amount.Float64()
			h.metrics.TransferAmount.Observe(amount)
		}
	case domain.StatePreview:
		if session.LastError != domain.KindNone && session.SubmissionAttempts > 0 {
			h.metrics.SubmissionAttempts.WithLabelValues(string(session.LastError)).Inc()
		}
	}
}

func (h *SessionHandler) observeVerification(session *domain.Session, err error) {
	if h.metrics == nil || session == nil {
		return
	}

	switch {
	case err == nil:
		h.metrics.OTPVerifications.WithLabelValues("verified").Inc()
	case errors.Is(err, domain.ErrOTPMismatch), errors.Is(err, domain.ErrOTPExpired):
		h.metrics.OTPVerifications.WithLabelValues("rejected").Inc()
		if session.State == domain.StateFailed {
			h.metrics.OTPExhausted.Inc()
		}
	}
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
