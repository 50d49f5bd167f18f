package controls

import (
	"regexp"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

var numericInput = regexp.MustCompile(`^-?[0-9]*([.,][0-9]*)?$`)

// textControl covers the single-value input types: text, name, email, url,
// document, number, the date/time family and textarea.
type textControl struct {
	base
	value string
}

func newText(b base) *textControl {
	return &textControl{base: b}
}

func (c *textControl) Value() any { return c.value }

func (c *textControl) Set(input string) error {
	next, err := c.accept(input)
	if err != nil {
		return err
	}
	c.value = next
	c.notify(next)
	return nil
}

func (c *textControl) accept(input string) (string, error) {
	switch c.field.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		return fieldrules.TruncateText(input, c.field.Text().MaxLength), nil
	case model.FieldTypeName:
		return validation.FormatName(input), nil
	case model.FieldTypeURL:
		return validation.NormalizeURLInput(input), nil
	case model.FieldTypeDocument:
		return acceptDocument(c.field.Document().Kind, input)
	case model.FieldTypeNumber:
		if !numericInput.MatchString(input) {
			return "", ErrRejected
		}
		return input, nil
	default:
		return input, nil
	}
}

func acceptDocument(kind model.DocumentKind, input string) (string, error) {
	if kind == model.DocumentNone {
		return input, nil
	}
	digits := validation.OnlyDigits(input)
	length := validation.DocumentLength(string(kind))
	if len(digits) > length {
		digits = digits[:length]
	}
	if len(digits) < length {
		return digits, nil
	}
	if kind == model.DocumentCNPJ {
		if !validation.ValidateCNPJ(digits) {
			return "", ErrRejected
		}
		return validation.ApplyCNPJMask(digits), nil
	}
	if !validation.ValidateCPF(digits) {
		return "", ErrRejected
	}
	return validation.ApplyCPFMask(digits), nil
}

func (c *textControl) View() View {
	v := c.view()
	v.Value = c.value
	switch c.field.Type {
	case model.FieldTypeEmail:
		v.Valid = validation.EmailHint(c.value)
	case model.FieldTypeURL:
		v.Valid = validation.ValidateURL(c.value)
	}
	return v
}
