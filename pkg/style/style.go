// Package style holds the presentation parameters of a form and their
// projection into design tokens consumed by the preview and the export.
package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/validation"
)

// Config is the flat style record stored per company and form context.
type Config struct {
	FieldGap         float64 `json:"field_gap" yaml:"field_gap" mapstructure:"field_gap"`
	FormPadding      float64 `json:"form_padding" yaml:"form_padding" mapstructure:"form_padding"`
	FontFamily       string  `json:"font_family" yaml:"font_family" mapstructure:"font_family"`
	LabelFontSize    float64 `json:"label_font_size" yaml:"label_font_size" mapstructure:"label_font_size"`
	InputFontSize    float64 `json:"input_font_size" yaml:"input_font_size" mapstructure:"input_font_size"`
	ButtonFontSize   float64 `json:"button_font_size" yaml:"button_font_size" mapstructure:"button_font_size"`
	LabelColor       string  `json:"label_color" yaml:"label_color" mapstructure:"label_color"`
	FieldBackground  string  `json:"field_background" yaml:"field_background" mapstructure:"field_background"`
	FieldTextColor   string  `json:"field_text_color" yaml:"field_text_color" mapstructure:"field_text_color"`
	BorderColor      string  `json:"border_color" yaml:"border_color" mapstructure:"border_color"`
	BorderWidth      float64 `json:"border_width" yaml:"border_width" mapstructure:"border_width"`
	BorderRadius     float64 `json:"border_radius" yaml:"border_radius" mapstructure:"border_radius"`
	FocusColor       string  `json:"focus_color" yaml:"focus_color" mapstructure:"focus_color"`
	ButtonColorStart string  `json:"button_color_start" yaml:"button_color_start" mapstructure:"button_color_start"`
	ButtonColorEnd   string  `json:"button_color_end" yaml:"button_color_end" mapstructure:"button_color_end"`
	ButtonTextColor  string  `json:"button_text_color" yaml:"button_text_color" mapstructure:"button_text_color"`
	ButtonAngle      float64 `json:"button_angle" yaml:"button_angle" mapstructure:"button_angle"`
	ButtonRadius     float64 `json:"button_radius" yaml:"button_radius" mapstructure:"button_radius"`
	ButtonFullWidth  bool    `json:"button_full_width" yaml:"button_full_width" mapstructure:"button_full_width"`
	ButtonText       string  `json:"button_text" yaml:"button_text" mapstructure:"button_text"`
	SuccessMessage   string  `json:"success_message" yaml:"success_message" mapstructure:"success_message"`
	RedirectURL      string  `json:"redirect_url,omitempty" yaml:"redirect_url" mapstructure:"redirect_url"`
}

// Default returns the style applied to forms that were never styled.
func Default() Config {
	return Config{
		FieldGap:         16,
		FormPadding:      24,
		FontFamily:       "Inter, system-ui, sans-serif",
		LabelFontSize:    14,
		InputFontSize:    14,
		ButtonFontSize:   16,
		LabelColor:       "#1f2937",
		FieldBackground:  "#ffffff",
		FieldTextColor:   "#111827",
		BorderColor:      "#d1d5db",
		BorderWidth:      1,
		BorderRadius:     8,
		FocusColor:       "#2563eb",
		ButtonColorStart: "#2563eb",
		ButtonColorEnd:   "#1d4ed8",
		ButtonTextColor:  "#ffffff",
		ButtonAngle:      90,
		ButtonRadius:     8,
		ButtonFullWidth:  true,
		ButtonText:       "Enviar",
		SuccessMessage:   "Obrigado! Recebemos suas informações.",
	}
}

const (
	maxSpacing  = 200
	maxFontSize = 72
	maxBorder   = 20
	maxRadius   = 100
)

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\)|[a-zA-Z]+)$`)

var fontFamilyUnsafe = regexp.MustCompile(`[^a-zA-Z0-9 ,'"\-]`)

// Normalize clamps numeric values into sane ranges, wraps the gradient angle
// into [0,360), replaces empty or malformed colours with defaults and strips
// characters that could escape a CSS declaration from the font family.
func (c Config) Normalize() Config {
	d := Default()

	c.FieldGap = clamp(c.FieldGap, 0, maxSpacing)
	c.FormPadding = clamp(c.FormPadding, 0, maxSpacing)
	c.LabelFontSize = clampOr(c.LabelFontSize, maxFontSize, d.LabelFontSize)
	c.InputFontSize = clampOr(c.InputFontSize, maxFontSize, d.InputFontSize)
	c.ButtonFontSize = clampOr(c.ButtonFontSize, maxFontSize, d.ButtonFontSize)
	c.BorderWidth = clamp(c.BorderWidth, 0, maxBorder)
	c.BorderRadius = clamp(c.BorderRadius, 0, maxRadius)
	c.ButtonRadius = clamp(c.ButtonRadius, 0, maxRadius)
	c.ButtonAngle = math.Mod(c.ButtonAngle, 360)
	if c.ButtonAngle < 0 {
		c.ButtonAngle += 360
	}

	c.FontFamily = strings.TrimSpace(fontFamilyUnsafe.ReplaceAllString(c.FontFamily, ""))
	if c.FontFamily == "" {
		c.FontFamily = d.FontFamily
	}

	c.LabelColor = colorOr(c.LabelColor, d.LabelColor)
	c.FieldBackground = colorOr(c.FieldBackground, d.FieldBackground)
	c.FieldTextColor = colorOr(c.FieldTextColor, d.FieldTextColor)
	c.BorderColor = colorOr(c.BorderColor, d.BorderColor)
	c.FocusColor = colorOr(c.FocusColor, d.FocusColor)
	c.ButtonColorStart = colorOr(c.ButtonColorStart, d.ButtonColorStart)
	c.ButtonColorEnd = colorOr(c.ButtonColorEnd, c.ButtonColorStart)
	c.ButtonTextColor = colorOr(c.ButtonTextColor, d.ButtonTextColor)

	c.ButtonText = strings.TrimSpace(c.ButtonText)
	if c.ButtonText == "" {
		c.ButtonText = d.ButtonText
	}
	c.SuccessMessage = strings.TrimSpace(c.SuccessMessage)
	if c.SuccessMessage == "" {
		c.SuccessMessage = d.SuccessMessage
	}
	c.RedirectURL = redirectURL(c.RedirectURL)
	return c
}

// redirectURL keeps only http(s) destinations; anything else is dropped.
func redirectURL(value string) string {
	value = strings.TrimSpace(value)
	if !validation.ValidateURL(value) {
		return ""
	}
	return validation.NormalizeURL(value)
}

// Token names shared by the stylesheet and theme manifests.
const (
	TokenFieldGap         = "field-gap"
	TokenFormPadding      = "form-padding"
	TokenFontFamily       = "font-family"
	TokenLabelFontSize    = "label-font-size"
	TokenInputFontSize    = "input-font-size"
	TokenButtonFontSize   = "button-font-size"
	TokenLabelColor       = "label-color"
	TokenFieldBackground  = "field-background"
	TokenFieldTextColor   = "field-text-color"
	TokenBorderColor      = "border-color"
	TokenBorderWidth      = "border-width"
	TokenBorderRadius     = "border-radius"
	TokenFocusColor       = "focus-color"
	TokenButtonColorStart = "button-color-start"
	TokenButtonColorEnd   = "button-color-end"
	TokenButtonTextColor  = "button-text-color"
	TokenButtonAngle      = "button-angle"
	TokenButtonRadius     = "button-radius"
	TokenButtonWidth      = "button-width"
)

// Tokens projects the normalized style into CSS-ready values keyed by token
// name. The preview and the export both consume this map.
func (c Config) Tokens() map[string]string {
	n := c.Normalize()
	width := "auto"
	if n.ButtonFullWidth {
		width = "100%"
	}
	return map[string]string{
		TokenFieldGap:         px(n.FieldGap),
		TokenFormPadding:      px(n.FormPadding),
		TokenFontFamily:       n.FontFamily,
		TokenLabelFontSize:    px(n.LabelFontSize),
		TokenInputFontSize:    px(n.InputFontSize),
		TokenButtonFontSize:   px(n.ButtonFontSize),
		TokenLabelColor:       n.LabelColor,
		TokenFieldBackground:  n.FieldBackground,
		TokenFieldTextColor:   n.FieldTextColor,
		TokenBorderColor:      n.BorderColor,
		TokenBorderWidth:      px(n.BorderWidth),
		TokenBorderRadius:     px(n.BorderRadius),
		TokenFocusColor:       n.FocusColor,
		TokenButtonColorStart: n.ButtonColorStart,
		TokenButtonColorEnd:   n.ButtonColorEnd,
		TokenButtonTextColor:  n.ButtonTextColor,
		TokenButtonAngle:      strconv.FormatFloat(n.ButtonAngle, 'f', -1, 64) + "deg",
		TokenButtonRadius:     px(n.ButtonRadius),
		TokenButtonWidth:      width,
	}
}

// ValidToken reports whether a token value is safe to place inside a CSS
// declaration.
func ValidToken(value string) bool {
	return value != "" && !strings.ContainsAny(value, ";{}<>\\")
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampOr(v, hi, fallback float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return fallback
	}
	return math.Min(v, hi)
}

func colorOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" || !colorPattern.MatchString(value) {
		return fallback
	}
	return value
}
