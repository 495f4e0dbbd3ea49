package domain

import "errors"

var (
	// Amount errors
	ErrAmountNotANumber  = errors.New("amount is not a number")
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAmountExceedsMax  = errors.New("amount exceeds maximum allowed")

	// Recipient errors
	ErrAddressTooShort      = errors.New("address is too short")
	ErrAddressInvalidFormat = errors.New("address has invalid format")
	ErrInvalidPhone         = errors.New("phone number is not valid")
	ErrFieldRequired        = errors.New("field is required")
	ErrUnknownCurrency      = errors.New("unknown currency code")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionTerminal   = errors.New("session is in a terminal state")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrActionPending     = errors.New("another action is still pending")
	ErrDraftInvalid      = errors.New("draft has validation errors")
	ErrFieldNotEditable  = errors.New("field cannot be edited in preview")

	// OTP errors
	ErrOTPCodeLength        = errors.New("verification code must be 6 digits")
	ErrOTPMismatch          = errors.New("verification code does not match")
	ErrOTPExpired           = errors.New("verification code expired")
	ErrOTPRateLimited       = errors.New("verification code requests are rate limited")
	ErrOTPSendFailed        = errors.New("failed to send verification code")
	ErrOTPAttemptsExhausted = errors.New("verification attempts exhausted")

	// Submission errors
	ErrSubmissionNetwork  = errors.New("submission failed: network error")
	ErrSubmissionRejected = errors.New("submission rejected by gateway")
	ErrSubmissionTimeout  = errors.New("submission timed out")
)

// ErrorKind is a stable, serializable identifier for a flow error. Field
// errors and the session's last-error slot store kinds rather than error
// values so that sessions survive a JSON round trip.
type ErrorKind string

const (
	KindNone ErrorKind = ""

	KindRequired        ErrorKind = "required"
	KindNotANumber      ErrorKind = "not_a_number"
	KindNotPositive     ErrorKind = "not_positive"
	KindExceedsMax      ErrorKind = "exceeds_max"
	KindTooShort        ErrorKind = "too_short"
	KindInvalidFormat   ErrorKind = "invalid_format"
	KindInvalidPhone    ErrorKind = "invalid_phone"
	KindUnknownCurrency ErrorKind = "unknown_currency"

	KindOTPSendFailed  ErrorKind = "otp_send_failed"
	KindOTPMismatch    ErrorKind = "otp_mismatch"
	KindOTPExpired     ErrorKind = "otp_expired"
	KindOTPRateLimited ErrorKind = "otp_rate_limited"

	KindNetworkError ErrorKind = "network_error"
	KindRejected     ErrorKind = "rejected"
	KindTimeout      ErrorKind = "timeout"

	KindUnknown ErrorKind = "unknown"
)

// KindOf maps a domain error to its serializable kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrFieldRequired):
		return KindRequired
	case errors.Is(err, ErrAmountNotANumber):
		return KindNotANumber
	case errors.Is(err, ErrAmountNotPositive):
		return KindNotPositive
	case errors.Is(err, ErrAmountExceedsMax):
		return KindExceedsMax
	case errors.Is(err, ErrAddressTooShort):
		return KindTooShort
	case errors.Is(err, ErrAddressInvalidFormat):
		return KindInvalidFormat
	case errors.Is(err, ErrInvalidPhone):
		return KindInvalidPhone
	case errors.Is(err, ErrUnknownCurrency):
		return KindUnknownCurrency
	case errors.Is(err, ErrOTPSendFailed):
		return KindOTPSendFailed
	case errors.Is(err, ErrOTPMismatch):
		return KindOTPMismatch
	case errors.Is(err, ErrOTPExpired):
		return KindOTPExpired
	case errors.Is(err, ErrOTPRateLimited):
		return KindOTPRateLimited
	case errors.Is(err, ErrSubmissionNetwork):
		return KindNetworkError
	case errors.Is(err, ErrSubmissionRejected):
		return KindRejected
	case errors.Is(err, ErrSubmissionTimeout):
		return KindTimeout
	default:
		return KindUnknown
	}
}
