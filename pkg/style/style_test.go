package style

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

func TestNormalizeClampsAndFills(t *testing.T) {
	cfg := Config{
		FieldGap:      -4,
		LabelFontSize: 500,
		BorderRadius:  1000,
		ButtonAngle:   -90,
		LabelColor:    "red; background: url(x)",
		FontFamily:    "Roboto</style><script>",
	}
	n := cfg.Normalize()

	if n.FieldGap != 0 {
		t.Fatalf("expected gap clamped to 0, got %v", n.FieldGap)
	}
	if n.LabelFontSize != maxFontSize {
		t.Fatalf("expected label size clamped, got %v", n.LabelFontSize)
	}
	if n.BorderRadius != maxRadius {
		t.Fatalf("expected radius clamped, got %v", n.BorderRadius)
	}
	if n.ButtonAngle != 270 {
		t.Fatalf("expected angle wrapped to 270, got %v", n.ButtonAngle)
	}
	if n.LabelColor != Default().LabelColor {
		t.Fatalf("expected malformed colour replaced, got %q", n.LabelColor)
	}
	if n.FontFamily != "Robotostylescript" {
		t.Fatalf("expected unsafe font characters stripped, got %q", n.FontFamily)
	}
	if n.InputFontSize != Default().InputFontSize {
		t.Fatalf("expected zero input size replaced by default")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := Config{ButtonAngle: 725, BorderWidth: 3, ButtonColorStart: "#ff0000"}.Normalize()
	if diff := cmp.Diff(once, once.Normalize()); diff != "" {
		t.Fatalf("normalize not idempotent (-first +second):\n%s", diff)
	}
	if once.ButtonColorEnd != "#ff0000" {
		t.Fatalf("expected gradient end to follow start, got %q", once.ButtonColorEnd)
	}
}

func TestNormalizeKeepsOnlyWebRedirects(t *testing.T) {
	cases := map[string]string{
		"":                                   "",
		" https://example.com/obrigado ":     "https://example.com/obrigado",
		"example.com/obrigado":               "https://example.com/obrigado",
		"http://example.com":                 "http://example.com",
		"javascript:alert(document.cookie)":  "",
		"data:text/html;base64,PHNjcmlwdD4=": "",
		"//evil.example.com":                 "",
	}
	for in, want := range cases {
		if got := (Config{RedirectURL: in}).Normalize().RedirectURL; got != want {
			t.Errorf("Normalize(%q).RedirectURL = %q, want %q", in, got, want)
		}
	}
}

func TestTokens(t *testing.T) {
	tokens := Default().Tokens()
	if tokens[TokenBorderRadius] != "8px" {
		t.Fatalf("unexpected radius token %q", tokens[TokenBorderRadius])
	}
	if tokens[TokenButtonAngle] != "90deg" {
		t.Fatalf("unexpected angle token %q", tokens[TokenButtonAngle])
	}
	if tokens[TokenButtonWidth] != "100%" {
		t.Fatalf("unexpected button width %q", tokens[TokenButtonWidth])
	}
}

func TestSelectorOverlaysVariantTokens(t *testing.T) {
	manifest := Manifest("acme", Default())
	manifest.Variants = map[string]theme.Variant{
		"dark": {Tokens: map[string]string{
			TokenFieldBackground: "#111111",
			TokenLabelColor:      "#eeeeee; }",
			"unknown":            "#000000",
		}},
	}
	selector := NewSelector(manifest)

	selection, err := selector.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	tokens := Overlay(Default().Tokens(), selection)
	if tokens[TokenFieldBackground] != "#111111" {
		t.Fatalf("expected variant background, got %q", tokens[TokenFieldBackground])
	}
	if tokens[TokenLabelColor] != Default().LabelColor {
		t.Fatalf("unsafe token must be ignored, got %q", tokens[TokenLabelColor])
	}
	if _, ok := tokens["unknown"]; ok {
		t.Fatalf("unknown tokens must not leak into the stylesheet")
	}

	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	fallback, err := selector.Select("", "nope")
	if err != nil || fallback.Theme != "acme" || fallback.Variant != "" {
		t.Fatalf("expected fallback to base acme manifest, got %+v (%v)", fallback, err)
	}
}
