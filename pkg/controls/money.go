package controls

import (
	"strings"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

type moneyControl struct {
	base
	currency fieldrules.Currency
	digits   string
}

func newMoney(b base) *moneyControl {
	return &moneyControl{base: b, currency: fieldrules.ResolveCurrency(b.field.Money().Currency)}
}

// Value is the formatted amount, the only form in which it is displayed.
func (c *moneyControl) Value() any {
	return fieldrules.FormatMoney(c.digits, c.currency.Code)
}

// Set rebuilds the amount from the digits of input. Amounts longer than
// fieldrules.MaxMoneyDigits or above the configured maximum are rejected.
func (c *moneyControl) Set(input string) error {
	digits := strings.TrimLeft(validation.OnlyDigits(input), "0")
	if len(digits) > fieldrules.MaxMoneyDigits {
		return ErrRejected
	}
	cfg := c.field.Money()
	if cfg.Limits && cfg.Max > 0 && float64(fieldrules.MoneyValue(digits)) > cfg.Max*100 {
		return ErrRejected
	}
	c.digits = digits
	c.notify(c.Value())
	return nil
}

// SetCurrency changes the currency of a field whose currency is chosen by
// the end user.
func (c *moneyControl) SetCurrency(code string) error {
	if !c.field.Money().Variable() {
		return ErrUnsupported
	}
	next, err := fieldrules.ParseCurrency(code)
	if err != nil {
		return ErrRejected
	}
	c.currency = next
	c.notify(c.Value())
	return nil
}

func (c *moneyControl) View() View {
	v := c.view()
	v.Value = fieldrules.FormatMoney(c.digits, c.currency.Code)
	v.Currency = c.currency
	v.CurrencySelectable = c.field.Money().Variable()
	v.Valid = c.digits == "" || fieldrules.MoneyWithinLimits(c.field.Money(), fieldrules.MoneyValue(c.digits))
	return v
}
