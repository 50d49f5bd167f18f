package validation

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestApplyPhoneMask(t *testing.T) {
	cases := []struct {
		value, pattern, want string
	}{
		{"11999998888", "(##) #####-####", "(11) 99999-8888"},
		{"119", "(##) #####-####", "(11) 9"},
		{"11", "(##) #####-####", "(11"},
		{"", "(##) #####-####", ""},
		{"1199999888877", "(##) #####-####", "(11) 99999-8888"},
		{"(11) 9999", "(##) #####-####", "(11) 9999"},
	}
	for _, tc := range cases {
		if got := ApplyPhoneMask(tc.value, tc.pattern); got != tc.want {
			t.Errorf("ApplyPhoneMask(%q, %q) = %q, want %q", tc.value, tc.pattern, got, tc.want)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	cases := []struct {
		value, country string
		want           bool
	}{
		{"1199998888", "BR", true},
		{"11999998888", "BR", true},
		{"119999988889", "BR", false},
		{"2025550123", "US", true},
		{"202555012", "US", false},
		{"4165550123", "CA", true},
		{"91234567", "CL", true},
		{"912345678", "CL", true},
		{"9123456", "CL", false},
		{"12345678", "", true},
		{"1234567", "ZZ", false},
		{"123456789012345", "ZZ", true},
	}
	for _, tc := range cases {
		if got := ValidatePhoneNumber(tc.value, tc.country); got != tc.want {
			t.Errorf("ValidatePhoneNumber(%q, %q) = %v, want %v", tc.value, tc.country, got, tc.want)
		}
	}
}

func TestFormatPhoneSwitchesBrazilianMask(t *testing.T) {
	if got := FormatPhone("1133334444", "BR"); got != "(11) 3333-4444" {
		t.Fatalf("landline: got %q", got)
	}
	if got := FormatPhone("11999998888", "BR"); got != "(11) 99999-8888" {
		t.Fatalf("mobile: got %q", got)
	}
	if got := InternationalPhone("11999998888", "BR"); got != "+55 (11) 99999-8888" {
		t.Fatalf("international: got %q", got)
	}
}

func TestCountryByCodeFallsBackToBrazil(t *testing.T) {
	if got := CountryByCode("??").Code; got != DefaultCountry {
		t.Fatalf("expected fallback %s, got %s", DefaultCountry, got)
	}
	if got := CountryByCode("us").DialCode; got != "+1" {
		t.Fatalf("expected +1, got %s", got)
	}
}

func TestPhoneMaskProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	const pattern = "(##) #####-####"

	properties.Property("masked output carries a prefix of the input digits", prop.ForAll(
		func(digits string) bool {
			masked := OnlyDigits(ApplyPhoneMask(digits, pattern))
			return strings.HasPrefix(digits, masked)
		},
		gen.NumString(),
	))

	properties.Property("partial masks never end in a literal", prop.ForAll(
		func(digits string) bool {
			masked := ApplyPhoneMask(digits, pattern)
			if masked == "" {
				return true
			}
			last := masked[len(masked)-1]
			return last >= '0' && last <= '9'
		},
		gen.NumString(),
	))

	properties.TestingRun(t)
}
