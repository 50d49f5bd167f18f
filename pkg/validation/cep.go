package validation

const cepLength = 8

// NormalizeCEP keeps at most eight digits of a Brazilian postal code.
func NormalizeCEP(value string) string {
	digits := OnlyDigits(value)
	if len(digits) > cepLength {
		digits = digits[:cepLength]
	}
	return digits
}

// IsCompleteCEP reports whether value holds exactly eight digits.
func IsCompleteCEP(value string) bool {
	return len(OnlyDigits(value)) == cepLength
}

// FormatCEP renders a postal code as 00000-000 once complete.
func FormatCEP(value string) string {
	digits := NormalizeCEP(value)
	if len(digits) <= 5 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}
