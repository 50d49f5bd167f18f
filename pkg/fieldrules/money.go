package fieldrules

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/currency"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// MaxMoneyDigits bounds the number of typed digits a money value may carry.
const MaxMoneyDigits = 15

// DefaultCurrency is used when a variable-currency field has no selection yet
// or a stored code cannot be resolved.
const DefaultCurrency = "BRL"

// Currency describes how amounts in one ISO currency are displayed.
type Currency struct {
	Code      string `json:"code"`
	Symbol    string `json:"symbol"`
	Thousands string `json:"thousands"`
	Decimal   string `json:"decimal"`
}

var currencies = []Currency{
	{Code: "BRL", Symbol: "R$", Thousands: ".", Decimal: ","},
	{Code: "USD", Symbol: "$", Thousands: ",", Decimal: "."},
	{Code: "EUR", Symbol: "€", Thousands: ".", Decimal: ","},
	{Code: "GBP", Symbol: "£", Thousands: ",", Decimal: "."},
	{Code: "ARS", Symbol: "$", Thousands: ".", Decimal: ","},
	{Code: "CLP", Symbol: "$", Thousands: ".", Decimal: ","},
	{Code: "COP", Symbol: "$", Thousands: ".", Decimal: ","},
	{Code: "MXN", Symbol: "$", Thousands: ",", Decimal: "."},
	{Code: "PEN", Symbol: "S/", Thousands: ",", Decimal: "."},
	{Code: "UYU", Symbol: "$U", Thousands: ".", Decimal: ","},
	{Code: "CAD", Symbol: "$", Thousands: ",", Decimal: "."},
}

// Currencies lists the currencies offered by variable-currency fields.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// ParseCurrency resolves an ISO 4217 code. Codes outside the display table
// but known to ISO use the code itself as symbol.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("fieldrules: unknown currency %q: %w", code, err)
	}
	iso := unit.String()
	for _, c := range currencies {
		if c.Code == iso {
			return c, nil
		}
	}
	return Currency{Code: iso, Symbol: iso, Thousands: ",", Decimal: "."}, nil
}

// ResolveCurrency returns the display rules for code, falling back to
// DefaultCurrency for empty, variable or unknown codes.
func ResolveCurrency(code string) Currency {
	if code == "" || code == model.CurrencyVariable {
		code = DefaultCurrency
	}
	c, err := ParseCurrency(code)
	if err != nil {
		c, _ = ParseCurrency(DefaultCurrency)
	}
	return c
}

// MoneyDigits extracts the typed digits of value without leading zeros,
// keeping at most MaxMoneyDigits of them.
func MoneyDigits(value string) string {
	digits := strings.TrimLeft(validation.OnlyDigits(value), "0")
	if len(digits) > MaxMoneyDigits {
		digits = digits[:MaxMoneyDigits]
	}
	return digits
}

// FormatMoney interprets digits as cents and renders them as
// symbol, space, grouped integer part, decimal separator and two decimals.
// Input without digits yields the empty string.
//
//	FormatMoney("12345", "BRL") == "R$ 123,45"
//	FormatMoney("123456", "USD") == "$ 1,234.56"
func FormatMoney(digits, code string) string {
	if validation.OnlyDigits(digits) == "" {
		return ""
	}
	d := MoneyDigits(digits)
	for len(d) < 3 {
		d = "0" + d
	}
	c := ResolveCurrency(code)
	integer, cents := d[:len(d)-2], d[len(d)-2:]
	return c.Symbol + " " + groupThousands(integer, c.Thousands) + c.Decimal + cents
}

// FormatCents renders an amount held in cents.
func FormatCents(cents int64, code string) string {
	if cents < 0 {
		cents = -cents
	}
	return FormatMoney(strconv.FormatInt(cents, 10), code)
}

// MoneyValue recovers the amount in cents from a formatted or raw value.
func MoneyValue(formatted string) int64 {
	digits := MoneyDigits(formatted)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// MoneyWithinLimits reports whether cents respects the field's configured
// bounds. Fields without limits accept any amount; a zero max is unbounded.
func MoneyWithinLimits(cfg model.MoneyConfig, cents int64) bool {
	if !cfg.Limits {
		return true
	}
	amount := float64(cents) / 100
	if amount < cfg.Min {
		return false
	}
	if cfg.Max > 0 && amount > cfg.Max {
		return false
	}
	return true
}

func groupThousands(integer, sep string) string {
	if len(integer) <= 3 {
		return integer
	}
	var b strings.Builder
	lead := len(integer) % 3
	if lead > 0 {
		b.WriteString(integer[:lead])
	}
	for i := lead; i < len(integer); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(integer[i : i+3])
	}
	return b.String()
}
