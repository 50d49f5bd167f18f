package export

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/style"
)

// MaxColumns is the widest checkbox grid a field can request.
const MaxColumns = 10

// Stylesheet renders the CSS of a form from its style configuration.
func Stylesheet(cfg style.Config) string {
	return StylesheetFromTokens(cfg.Tokens())
}

// StylesheetFromTokens renders the CSS from a token map such as the one
// returned by style.Overlay. Tokens that could escape a declaration are
// skipped.
func StylesheetFromTokens(tokens map[string]string) string {
	var b strings.Builder

	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString(":root{")
	for _, name := range names {
		value := tokens[name]
		if !style.ValidToken(value) {
			continue
		}
		fmt.Fprintf(&b, "--crm-%s:%s;", name, value)
	}
	b.WriteString("}\n")

	token := func(name string) string {
		return "var(--crm-" + name + ")"
	}
	inputPadding := derived(tokens[style.TokenInputFontSize], 0.6, 8)
	focusRing := derived(tokens[style.TokenBorderWidth], 1, 1) + 2

	fmt.Fprintf(&b, ".crm-form{box-sizing:border-box;display:flex;flex-direction:column;gap:%s;padding:%s;font-family:%s;color:%s}\n",
		token(style.TokenFieldGap), token(style.TokenFormPadding), token(style.TokenFontFamily), token(style.TokenFieldTextColor))
	b.WriteString(".crm-form *{box-sizing:border-box}\n")
	fmt.Fprintf(&b, ".crm-step{display:flex;flex-direction:column;gap:%s}\n.crm-step[hidden]{display:none}\n", token(style.TokenFieldGap))
	b.WriteString(".crm-field{display:flex;flex-direction:column;gap:6px;position:relative}\n")
	fmt.Fprintf(&b, ".crm-label,.crm-sublabel{font-size:%s;color:%s;font-weight:500}\n", token(style.TokenLabelFontSize), token(style.TokenLabelColor))
	b.WriteString(".crm-required{color:#dc2626;margin-left:2px}\n")
	fmt.Fprintf(&b, ".crm-input{width:100%%;font:inherit;font-size:%s;padding:%spx %spx;background:%s;color:%s;border:%s solid %s;border-radius:%s;outline:none}\n",
		token(style.TokenInputFontSize), num(inputPadding), num(inputPadding*1.5), token(style.TokenFieldBackground),
		token(style.TokenFieldTextColor), token(style.TokenBorderWidth), token(style.TokenBorderColor), token(style.TokenBorderRadius))
	fmt.Fprintf(&b, ".crm-input:focus,.crm-input:focus-within{border-color:%s;box-shadow:0 0 0 %spx %s}\n",
		token(style.TokenFocusColor), num(focusRing), token(style.TokenFocusColor))
	b.WriteString(".crm-textarea{resize:vertical;min-height:96px}\n")
	b.WriteString(".crm-phone,.crm-money{display:flex;gap:8px}\n.crm-country,.crm-currency{width:auto;flex:0 0 auto}\n")
	b.WriteString(".crm-slider{display:flex;align-items:center;gap:12px}\n.crm-slider-value{width:96px;flex:0 0 auto}\n")
	fmt.Fprintf(&b, ".crm-slider input[type=range]{accent-color:%s;padding:0;border:0;box-shadow:none}\n", token(style.TokenFocusColor))
	b.WriteString(".crm-address{display:grid;grid-template-columns:repeat(2,minmax(0,1fr));gap:8px}\n")
	b.WriteString(".crm-dropdown{position:relative}\n.crm-dropdown-trigger{text-align:left;cursor:pointer}\n")
	fmt.Fprintf(&b, ".crm-dropdown-menu{position:absolute;z-index:10;left:0;right:0;margin-top:4px;max-height:240px;overflow:auto;padding:6px;background:%s;border:%s solid %s;border-radius:%s}\n",
		token(style.TokenFieldBackground), token(style.TokenBorderWidth), token(style.TokenBorderColor), token(style.TokenBorderRadius))
	b.WriteString(".crm-option{display:flex;gap:8px;align-items:center;padding:4px 6px;cursor:pointer}\n.crm-option[hidden]{display:none}\n")
	b.WriteString(".crm-choices{display:grid;gap:8px}\n")
	for n := 1; n <= MaxColumns; n++ {
		fmt.Fprintf(&b, ".crm-columns-%d{grid-template-columns:repeat(%d,minmax(0,1fr))}\n", n, n)
	}
	fmt.Fprintf(&b, ".crm-choice{display:flex;gap:8px;align-items:center;font-size:%s}\n", token(style.TokenInputFontSize))
	fmt.Fprintf(&b, ".crm-choice-button input{position:absolute;opacity:0}\n.crm-choice-button span{display:block;width:100%%;padding:%spx;text-align:center;border:%s solid %s;border-radius:%s;cursor:pointer}\n",
		num(inputPadding), token(style.TokenBorderWidth), token(style.TokenBorderColor), token(style.TokenBorderRadius))
	fmt.Fprintf(&b, ".crm-choice-button input:checked+span{border-color:%s;background:%s;color:%s}\n",
		token(style.TokenFocusColor), token(style.TokenFocusColor), token(style.TokenButtonTextColor))
	b.WriteString(".crm-toggle{position:relative;display:inline-flex;width:44px;height:24px}\n.crm-toggle-input{position:absolute;opacity:0;inset:0;margin:0;cursor:pointer}\n")
	fmt.Fprintf(&b, ".crm-toggle-track{flex:1;border-radius:12px;background:%s;transition:background .2s}\n.crm-toggle-input:checked+.crm-toggle-track{background:%s}\n",
		token(style.TokenBorderColor), token(style.TokenFocusColor))
	b.WriteString(".crm-error{margin:0;font-size:12px;color:#dc2626}\n.crm-error[hidden]{display:none}\n.crm-field.crm-invalid .crm-input{border-color:#dc2626}\n.crm-input.crm-hint{border-color:#d97706}\n")
	b.WriteString(".crm-actions{display:flex;gap:8px}\n")

	gradient := fmt.Sprintf("linear-gradient(%s, %s, %s)",
		tokens[style.TokenButtonAngle], tokens[style.TokenButtonColorStart], tokens[style.TokenButtonColorEnd])
	if !style.ValidToken(tokens[style.TokenButtonAngle]) || !style.ValidToken(tokens[style.TokenButtonColorStart]) || !style.ValidToken(tokens[style.TokenButtonColorEnd]) {
		gradient = token(style.TokenButtonColorStart)
	}
	fmt.Fprintf(&b, ".crm-button{flex:1 1 auto;width:%s;border:0;cursor:pointer;font:inherit;font-size:%s;font-weight:600;padding:%spx %spx;color:%s;background:%s;border-radius:%s}\n",
		token(style.TokenButtonWidth), token(style.TokenButtonFontSize), num(inputPadding*1.25), num(inputPadding*2.5),
		token(style.TokenButtonTextColor), gradient, token(style.TokenButtonRadius))
	fmt.Fprintf(&b, ".crm-button-secondary{background:transparent;color:%s;border:%s solid %s}\n",
		token(style.TokenLabelColor), token(style.TokenBorderWidth), token(style.TokenBorderColor))
	b.WriteString(".crm-button[disabled]{opacity:.6;cursor:progress}\n")
	fmt.Fprintf(&b, ".crm-success{padding:%s;text-align:center;font-size:%s;color:%s}\n",
		token(style.TokenFormPadding), token(style.TokenLabelFontSize), token(style.TokenLabelColor))
	return b.String()
}

// derived scales a px token, returning fallback when the token is not a px
// value.
func derived(value string, factor, fallback float64) float64 {
	n, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n * factor
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
