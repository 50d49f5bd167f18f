package controls

import (
	"strings"

	"github.com/goliatone/go-crmforms/pkg/validation"
)

type phoneControl struct {
	base
	country validation.Country
	number  string
}

func newPhone(b base) *phoneControl {
	return &phoneControl{base: b, country: validation.CountryByCode(validation.DefaultCountry)}
}

// Value is the number in international notation, or "" when empty.
func (c *phoneControl) Value() any {
	return validation.InternationalPhone(c.number, c.country.Code)
}

func (c *phoneControl) Set(input string) error {
	c.number = validation.FormatPhone(input, c.country.Code)
	c.notify(c.Value())
	return nil
}

// SetCountry switches the dial region. The number is cleared because masks
// do not carry over between countries.
func (c *phoneControl) SetCountry(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	next := validation.CountryByCode(code)
	if next.Code != code {
		return ErrRejected
	}
	if next.Code == c.country.Code {
		return nil
	}
	c.country = next
	c.number = ""
	c.notify(c.Value())
	return nil
}

func (c *phoneControl) View() View {
	v := c.view()
	v.Value = c.number
	v.Country = c.country
	v.Valid = c.number == "" || validation.ValidatePhoneNumber(c.number, c.country.Code)
	return v
}
