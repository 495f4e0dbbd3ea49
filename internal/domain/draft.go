package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Field names the editable inputs of a transfer draft.
type Field string

const (
	FieldAmount        Field = "amount"
	FieldCurrency      Field = "currency"
	FieldRecipientName Field = "recipient_name"
	FieldAddress       Field = "address"
	FieldCountry       Field = "country"
	FieldPhoneNumber   Field = "phone_number"
)

// previewEditableFields are the only fields that may be reopened for
// correction from the preview screen. Amount and recipient identity require
// going back to the full editing state.
var previewEditableFields = []Field{FieldCountry, FieldPhoneNumber}

// FlowPolicy configures one transfer flow variant: which recipient fields
// are mandatory, whether a step-up verification is interposed before
// submission, and the per-transfer amount ceiling.
type FlowPolicy struct {
	RequireAddress       bool            `json:"require_address"`
	RequirePhone         bool            `json:"require_phone"`
	RequireCountry       bool            `json:"require_country"`
	RequireRecipientName bool            `json:"require_recipient_name"`
	RequireOTP           bool            `json:"require_otp"`
	AmountCeiling        decimal.Decimal `json:"amount_ceiling"`
	CurrencyCode         string          `json:"currency_code"`
	Address              AddressPolicy   `json:"address"`
	DefaultPhoneRegion   string          `json:"default_phone_region"`
}

// Draft is the live, editable transfer form. Every setter re-runs the
// relevant validator, updates FieldErrors and recomputes Valid.
type Draft struct {
	Policy        FlowPolicy          `json:"policy"`
	AmountRaw     string              `json:"amount_raw"`
	Amount        decimal.Decimal     `json:"amount"`
	CurrencyCode  string              `json:"currency_code"`
	RecipientName string              `json:"recipient_name"`
	Address       string              `json:"address"`
	Country       string              `json:"country"`
	PhoneRaw      string              `json:"phone_raw"`
	Phone         Phone               `json:"phone"`
	FieldErrors   map[Field]ErrorKind `json:"field_errors"`
	Valid         bool                `json:"valid"`
}

// Snapshot is an immutable copy of a validated draft, taken at the moment of
// entering preview. It is a value type: later draft mutations never reach an
// already-taken snapshot.
type Snapshot struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	RecipientName string          `json:"recipient_name"`
	Address       string          `json:"address"`
	Country       string          `json:"country"`
	PhoneNumber   Phone           `json:"phone_number"`
}

// NewDraft creates an empty draft for the given flow policy.
func NewDraft(policy FlowPolicy) *Draft {
	code := policy.CurrencyCode
	if code == "" {
		code = "USD"
	}

	return &Draft{
		Policy:       policy,
		CurrencyCode: code,
		FieldErrors:  make(map[Field]ErrorKind),
	}
}

// SetAmount validates and records the amount input.
func (d *Draft) SetAmount(raw string) {
	d.AmountRaw = raw

	amount, err := ValidateAmount(raw, d.Policy.AmountCeiling)
	if err != nil {
		d.Amount = decimal.Zero
		d.setFieldError(FieldAmount, err)
	} else {
		d.Amount = amount
		d.clearFieldError(FieldAmount)
	}

	d.recompute()
}

// SetCurrency switches the draft to another supported currency.
func (d *Draft) SetCurrency(code string) {
	cur, err := LookupCurrency(code)
	if err != nil {
		d.setFieldError(FieldCurrency, err)
	} else {
		d.CurrencyCode = cur.Code
		d.clearFieldError(FieldCurrency)
	}

	d.recompute()
}

// SetRecipientName records the recipient display name.
func (d *Draft) SetRecipientName(name string) {
	d.RecipientName = name
	d.clearFieldError(FieldRecipientName)
	d.recompute()
}

// SetAddress validates and records the recipient ledger address.
func (d *Draft) SetAddress(raw string) {
	addr, err := ValidateAddress(raw, d.Policy.Address)
	if err != nil {
		d.Address = raw
		d.setFieldError(FieldAddress, err)
	} else {
		d.Address = addr
		d.clearFieldError(FieldAddress)
	}

	d.recompute()
}

// SetCountry records the recipient country.
func (d *Draft) SetCountry(country string) {
	d.Country = country
	d.clearFieldError(FieldCountry)
	d.recompute()
}

// SetPhoneNumber validates and records the recipient phone number in
// canonical E.164 form.
func (d *Draft) SetPhoneNumber(raw string) {
	d.PhoneRaw = raw

	phone, err := ValidatePhoneNumber(raw, d.Policy.DefaultPhoneRegion)
	if err != nil {
		d.Phone = ""
		d.setFieldError(FieldPhoneNumber, err)
	} else {
		d.Phone = phone
		d.clearFieldError(FieldPhoneNumber)
	}

	d.recompute()
}

// Set dispatches a raw value to the setter for the named field.
func (d *Draft) Set(field Field, value string) error {
	switch field {
	case FieldAmount:
		d.SetAmount(value)
	case FieldCurrency:
		d.SetCurrency(value)
	case FieldRecipientName:
		d.SetRecipientName(value)
	case FieldAddress:
		d.SetAddress(value)
	case FieldCountry:
		d.SetCountry(value)
	case FieldPhoneNumber:
		d.SetPhoneNumber(value)
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	return nil
}

// Snapshot produces the immutable transfer data handed to a session on
// entering preview. Callers must check Valid first.
func (d *Draft) Snapshot() (Snapshot, error) {
	if !d.Valid {
		return Snapshot{}, ErrDraftInvalid
	}

	cur, err := LookupCurrency(d.CurrencyCode)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Amount:        d.Amount,
		Currency:      cur,
		RecipientName: d.RecipientName,
		Address:       d.Address,
		Country:       d.Country,
		PhoneNumber:   d.Phone,
	}, nil
}

func (d *Draft) setFieldError(field Field, err error) {
	if d.FieldErrors == nil {
		d.FieldErrors = make(map[Field]ErrorKind)
	}

	d.FieldErrors[field] = KindOf(err)
}

func (d *Draft) clearFieldError(field Field) {
	delete(d.FieldErrors, field)
}

// recompute derives the Valid flag: every required field present and no
// field-level errors outstanding. Missing required fields are surfaced as
// "required" errors only once the field was touched or Validate was called.
func (d *Draft) recompute() {
	d.Valid = len(d.FieldErrors) == 0 && d.requiredPresent()
}

func (d *Draft) requiredPresent() bool {
	if d.AmountRaw == "" || !d.Amount.IsPositive() {
		return false
	}

	p := d.Policy
	if p.RequireAddress && d.Address == "" {
		return false
	}

	if p.RequirePhone && d.Phone == "" {
		return false
	}

	if p.RequireCountry && d.Country == "" {
		return false
	}

	if p.RequireRecipientName && d.RecipientName == "" {
		return false
	}

	return true
}

// Validate marks every missing required field with a "required" error, for
// surfacing when the user attempts to continue with an incomplete form.
func (d *Draft) Validate() bool {
	if d.AmountRaw == "" {
		d.setFieldError(FieldAmount, ErrFieldRequired)
	}

	p := d.Policy
	if p.RequireAddress && d.Address == "" {
		d.setFieldError(FieldAddress, ErrFieldRequired)
	}

	if p.RequirePhone && d.Phone == "" && d.PhoneRaw == "" {
		d.setFieldError(FieldPhoneNumber, ErrFieldRequired)
	}

	if p.RequireCountry && d.Country == "" {
		d.setFieldError(FieldCountry, ErrFieldRequired)
	}

	if p.RequireRecipientName && d.RecipientName == "" {
		d.setFieldError(FieldRecipientName, ErrFieldRequired)
	}

	d.recompute()

	return d.Valid
}

// PreviewEditable reports whether a field may be reopened from preview.
func PreviewEditable(field Field) bool {
	return slices.Contains(previewEditableFields, field)
}
