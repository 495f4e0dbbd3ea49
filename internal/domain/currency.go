package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes a supported transfer currency.
type Currency struct {
	Code     string          `json:"code"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Decimals int32           `json:"decimals"`
	Country  string          `json:"country"`
	USDRate  decimal.Decimal `json:"usd_rate"` // USD value of one unit, indicative only
}

// Supported currencies. Rates are static configuration used for indicative
// preview conversion, never for settlement.
var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Decimals: 2, Country: "United States", USDRate: decimal.NewFromInt(1)},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Decimals: 2, Country: "European Union", USDRate: decimal.RequireFromString("1.09")},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Decimals: 2, Country: "United Kingdom", USDRate: decimal.RequireFromString("1.27")},
	"NGN": {Code: "NGN", Symbol: "₦", Name: "Nigerian Naira", Decimals: 2, Country: "Nigeria", USDRate: decimal.RequireFromString("0.00067")},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Decimals: 0, Country: "Japan", USDRate: decimal.RequireFromString("0.0064")},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Decimals: 2, Country: "Australia", USDRate: decimal.RequireFromString("0.66")},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Decimals: 2, Country: "Canada", USDRate: decimal.RequireFromString("0.73")},
}

// LookupCurrency resolves a currency by its ISO code.
func LookupCurrency(code string) (Currency, error) {
	cur, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}

	return cur, nil
}

// SupportedCurrencies returns the list of known currency codes.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}

	return codes
}

// FormatMoney renders an amount with the currency's symbol, fixed decimal
// count and code suffix. All surfaces (preview, receipt, CLI) use this.
func FormatMoney(amount decimal.Decimal, cur Currency) string {
	return cur.Symbol + amount.StringFixed(cur.Decimals) + " " + cur.Code
}

// ConvertMoney converts an amount between currencies via a USD pivot using
// the static indicative rates.
func ConvertMoney(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from.Code == to.Code {
		return amount
	}

	usd := amount.Mul(from.USDRate)

	return usd.Div(to.USDRate).Round(to.Decimals)
}
