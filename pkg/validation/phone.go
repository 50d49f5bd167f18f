package validation

import "strings"

// Country describes the phone conventions of a selectable dial region.
type Country struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Flag      string   `json:"flag"`
	DialCode  string   `json:"dial_code"`
	Masks     []string `json:"masks"`
	MinDigits int      `json:"min_digits"`
	MaxDigits int      `json:"max_digits"`
}

const (
	defaultMinDigits = 8
	defaultMaxDigits = 15
	// DefaultCountry is used when no or an unknown country code is supplied.
	DefaultCountry = "BR"
)

var countries = []Country{
	{Code: "BR", Name: "Brasil", Flag: "🇧🇷", DialCode: "+55", Masks: []string{"(##) ####-####", "(##) #####-####"}, MinDigits: 10, MaxDigits: 11},
	{Code: "US", Name: "United States", Flag: "🇺🇸", DialCode: "+1", Masks: []string{"(###) ###-####"}, MinDigits: 10, MaxDigits: 10},
	{Code: "CA", Name: "Canada", Flag: "🇨🇦", DialCode: "+1", Masks: []string{"(###) ###-####"}, MinDigits: 10, MaxDigits: 10},
	{Code: "CL", Name: "Chile", Flag: "🇨🇱", DialCode: "+56", Masks: []string{"# ####-###", "# ####-####"}, MinDigits: 8, MaxDigits: 9},
	{Code: "AR", Name: "Argentina", Flag: "🇦🇷", DialCode: "+54", Masks: []string{"## ####-####"}, MinDigits: 10, MaxDigits: 10},
	{Code: "MX", Name: "México", Flag: "🇲🇽", DialCode: "+52", Masks: []string{"## #### ####"}, MinDigits: 10, MaxDigits: 10},
	{Code: "PT", Name: "Portugal", Flag: "🇵🇹", DialCode: "+351", Masks: []string{"### ### ###"}, MinDigits: 9, MaxDigits: 9},
	{Code: "ES", Name: "España", Flag: "🇪🇸", DialCode: "+34", Masks: []string{"### ## ## ##"}, MinDigits: 9, MaxDigits: 9},
	{Code: "CO", Name: "Colombia", Flag: "🇨🇴", DialCode: "+57", Masks: []string{"### ### ####"}},
	{Code: "PE", Name: "Perú", Flag: "🇵🇪", DialCode: "+51", Masks: []string{"### ### ###"}},
	{Code: "UY", Name: "Uruguay", Flag: "🇺🇾", DialCode: "+598", Masks: []string{"# ### ####", "## ### ###"}},
	{Code: "PY", Name: "Paraguay", Flag: "🇵🇾", DialCode: "+595", Masks: []string{"### ### ###"}},
	{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧", DialCode: "+44", Masks: []string{"#### ######"}},
	{Code: "FR", Name: "France", Flag: "🇫🇷", DialCode: "+33", Masks: []string{"# ## ## ## ##"}},
	{Code: "DE", Name: "Deutschland", Flag: "🇩🇪", DialCode: "+49", Masks: []string{"### ########"}},
	{Code: "IT", Name: "Italia", Flag: "🇮🇹", DialCode: "+39", Masks: []string{"### ### ####"}},
}

// Countries returns the selectable phone regions, Brazil first.
func Countries() []Country {
	out := make([]Country, len(countries))
	for i, country := range countries {
		out[i] = country
		out[i].Masks = append([]string(nil), country.Masks...)
	}
	return out
}

// CountryByCode resolves an ISO country code, falling back to Brazil.
func CountryByCode(code string) Country {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, country := range countries {
		if country.Code == code {
			return country
		}
	}
	return countries[0]
}

// DigitRange returns the accepted digit count for the country.
func (c Country) DigitRange() (int, int) {
	if c.MinDigits == 0 || c.MaxDigits == 0 {
		return defaultMinDigits, defaultMaxDigits
	}
	return c.MinDigits, c.MaxDigits
}

// Mask picks the first mask with enough slots for digitCount digits, or the
// widest mask when none fits.
func (c Country) Mask(digitCount int) string {
	if len(c.Masks) == 0 {
		return ""
	}
	for _, mask := range c.Masks {
		if strings.Count(mask, "#") >= digitCount {
			return mask
		}
	}
	return c.Masks[len(c.Masks)-1]
}

// MaxMaskDigits returns the number of digit slots in the widest mask.
func (c Country) MaxMaskDigits() int {
	max := 0
	for _, mask := range c.Masks {
		if n := strings.Count(mask, "#"); n > max {
			max = n
		}
	}
	return max
}

// ApplyPhoneMask fills the '#' slots of pattern with the digits of value,
// left to right. Other pattern characters are copied as literals, but only
// while digits remain, so a partial number never ends in a separator.
func ApplyPhoneMask(value, pattern string) string {
	digits := OnlyDigits(value)
	if digits == "" || pattern == "" {
		return ""
	}
	var b strings.Builder
	next := 0
	for _, r := range pattern {
		if next >= len(digits) {
			break
		}
		if r == '#' {
			b.WriteByte(digits[next])
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatPhone masks value using the country's conventions.
func FormatPhone(value, countryCode string) string {
	country := CountryByCode(countryCode)
	digits := OnlyDigits(value)
	if max := country.MaxMaskDigits(); max > 0 && len(digits) > max {
		digits = digits[:max]
	}
	return ApplyPhoneMask(digits, country.Mask(len(digits)))
}

// ValidatePhoneNumber checks the digit count of value against the country's
// accepted range (BR 10-11, US/CA 10, CL 8-9, otherwise 8-15).
func ValidatePhoneNumber(value, countryCode string) bool {
	count := len(OnlyDigits(value))
	var min, max int
	if code := strings.ToUpper(strings.TrimSpace(countryCode)); code != "" && isKnownCountry(code) {
		min, max = CountryByCode(code).DigitRange()
	} else {
		min, max = defaultMinDigits, defaultMaxDigits
	}
	return count >= min && count <= max
}

func isKnownCountry(code string) bool {
	for _, country := range countries {
		if country.Code == code {
			return true
		}
	}
	return false
}

// InternationalPhone prefixes the masked number with the dial code, the form
// in which phone values are submitted.
func InternationalPhone(value, countryCode string) string {
	digits := OnlyDigits(value)
	if digits == "" {
		return ""
	}
	return CountryByCode(countryCode).DialCode + " " + FormatPhone(digits, countryCode)
}
