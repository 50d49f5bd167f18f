package fieldrules

import (
	"testing"

	"github.com/goliatone/go-crmforms/pkg/model"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		digits, currency, want string
	}{
		{"12345", "BRL", "R$ 123,45"},
		{"123456", "BRL", "R$ 1.234,56"},
		{"123456", "USD", "$ 1,234.56"},
		{"123456", "EUR", "€ 1.234,56"},
		{"5", "BRL", "R$ 0,05"},
		{"0005", "BRL", "R$ 0,05"},
		{"R$ 1.234,567", "BRL", "R$ 12.345,67"},
		{"", "BRL", ""},
		{"abc", "BRL", ""},
		{"100", model.CurrencyVariable, "R$ 1,00"},
		{"100", "JPY", "JPY 1.00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.digits, tc.currency); got != tc.want {
			t.Errorf("FormatMoney(%q, %q) = %q, want %q", tc.digits, tc.currency, got, tc.want)
		}
	}
}

func TestMoneyValueRecoversCents(t *testing.T) {
	formatted := FormatMoney("987654", "BRL")
	if got := MoneyValue(formatted); got != 987654 {
		t.Fatalf("expected 987654 cents, got %d", got)
	}
	if got := FormatCents(MoneyValue(formatted), "BRL"); got != formatted {
		t.Fatalf("expected %q, got %q", formatted, got)
	}
}

func TestMoneyDigitsCap(t *testing.T) {
	if got := MoneyDigits("12345678901234567890"); len(got) != MaxMoneyDigits {
		t.Fatalf("expected %d digits, got %d", MaxMoneyDigits, len(got))
	}
}

func TestParseCurrency(t *testing.T) {
	if _, err := ParseCurrency("XXZ"); err == nil {
		t.Fatalf("expected error for invalid code")
	}
	c, err := ParseCurrency("brl")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Symbol != "R$" {
		t.Fatalf("unexpected symbol %q", c.Symbol)
	}
	for _, listed := range Currencies() {
		if _, err := ParseCurrency(listed.Code); err != nil {
			t.Errorf("listed currency %s does not parse: %v", listed.Code, err)
		}
	}
}

func TestMoneyWithinLimits(t *testing.T) {
	cfg := model.MoneyConfig{Limits: true, Min: 10, Max: 100}
	if MoneyWithinLimits(cfg, 999) {
		t.Fatalf("9.99 is below min")
	}
	if !MoneyWithinLimits(cfg, 1000) || !MoneyWithinLimits(cfg, 10000) {
		t.Fatalf("bounds are inclusive")
	}
	if MoneyWithinLimits(cfg, 10001) {
		t.Fatalf("100.01 is above max")
	}
	if !MoneyWithinLimits(model.MoneyConfig{}, 1) {
		t.Fatalf("fields without limits accept anything")
	}
}
