package validation

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCPF reports whether value carries a CPF with valid check digits.
// Separators are ignored; sequences of one repeated digit are rejected.
func ValidateCPF(value string) bool {
	digits := OnlyDigits(value)
	if len(digits) != cpfLength || allSame(digits) {
		return false
	}
	return cpfCheckDigit(digits[:9], 10) == int(digits[9]-'0') &&
		cpfCheckDigit(digits[:10], 11) == int(digits[10]-'0')
}

func cpfCheckDigit(digits string, weight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// ValidateCNPJ reports whether value carries a CNPJ with valid check digits.
func ValidateCNPJ(value string) bool {
	digits := OnlyDigits(value)
	if len(digits) != cnpjLength || allSame(digits) {
		return false
	}
	return cnpjCheckDigit(digits[:12], cnpjFirstWeights) == int(digits[12]-'0') &&
		cnpjCheckDigit(digits[:13], cnpjSecondWeights) == int(digits[13]-'0')
}

func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// ApplyCPFMask formats an 11 digit CPF as 000.000.000-00. Any other digit
// count returns value untouched.
func ApplyCPFMask(value string) string {
	digits := OnlyDigits(value)
	if len(digits) != cpfLength {
		return value
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

// ApplyCNPJMask formats a 14 digit CNPJ as 00.000.000/0000-00. Any other
// digit count returns value untouched.
func ApplyCNPJMask(value string) string {
	digits := OnlyDigits(value)
	if len(digits) != cnpjLength {
		return value
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}

// CPFCheckDigits computes the two check digits for a 9 digit CPF base.
func CPFCheckDigits(base string) string {
	base = OnlyDigits(base)
	if len(base) != 9 {
		return ""
	}
	first := cpfCheckDigit(base, 10)
	second := cpfCheckDigit(base+string(rune('0'+first)), 11)
	return string([]byte{byte('0' + first), byte('0' + second)})
}

// CNPJCheckDigits computes the two check digits for a 12 digit CNPJ base.
func CNPJCheckDigits(base string) string {
	base = OnlyDigits(base)
	if len(base) != 12 {
		return ""
	}
	first := cnpjCheckDigit(base, cnpjFirstWeights)
	second := cnpjCheckDigit(base+string(rune('0'+first)), cnpjSecondWeights)
	return string([]byte{byte('0' + first), byte('0' + second)})
}

// DocumentLength returns the digit count of a complete document of kind
// ("cpf" or "cnpj"); zero for anything else.
func DocumentLength(kind string) int {
	switch kind {
	case "cpf":
		return cpfLength
	case "cnpj":
		return cnpjLength
	default:
		return 0
	}
}
