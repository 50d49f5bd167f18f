package render

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLocale is used when no locale is requested.
const DefaultLocale = "pt-BR"

// ErrMissingTranslation is returned by translators without a message.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves UI strings.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog is a Translator over static messages keyed by locale then key.
// Messages are fmt format strings. Lookups fall back from "pt-BR" to "pt"
// and then to DefaultLocale.
type Catalog map[string]map[string]string

var defaultCatalog = Catalog{
	"pt": {
		"form.submit":        "Enviar",
		"form.next":          "Próximo",
		"form.back":          "Voltar",
		"form.step":          "Etapa %d de %d",
		"form.success":       "Obrigado! Recebemos seus dados.",
		"form.required":      "Campo obrigatório",
		"select.placeholder": "Selecione",
		"select.search":      "Buscar",
		"select.count":       "%d selecionados",
		"connection.add":     "Adicionar novo",
		"address.lookup":     "Buscando CEP",
		"error.invalid":      "Valor inválido",
		"select.none":        "Nenhum",
		"checkbox.limit":     "Escolha no máximo %d opções",
		"phone.country":      "País",
		"money.currency":     "Moeda",
		"connection.label":   "Nome do novo registro",
		"email.hint":         "Confira se o e-mail está correto",
	},
	"en": {
		"form.submit":        "Submit",
		"form.next":          "Next",
		"form.back":          "Back",
		"form.step":          "Step %d of %d",
		"form.success":       "Thank you! We received your details.",
		"form.required":      "Required field",
		"select.placeholder": "Select",
		"select.search":      "Search",
		"select.count":       "%d selected",
		"connection.add":     "Add new",
		"address.lookup":     "Looking up CEP",
		"error.invalid":      "Invalid value",
		"select.none":        "None",
		"checkbox.limit":     "Choose at most %d options",
		"phone.country":      "Country",
		"money.currency":     "Currency",
		"connection.label":   "Name of the new record",
		"email.hint":         "Double-check the e-mail address",
	},
}

// DefaultCatalog returns the built-in Portuguese and English messages.
func DefaultCatalog() Catalog { return defaultCatalog }

// Translate implements Translator.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := c[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	chain := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		chain = append(chain, strings.ToLower(base))
	}
	if base, _, _ := strings.Cut(DefaultLocale, "-"); !strings.EqualFold(chain[len(chain)-1], base) {
		chain = append(chain, DefaultLocale, strings.ToLower(base))
	}
	return chain
}

// Translate resolves key through t, returning the key itself when no
// translation exists.
func Translate(t Translator, locale, key string, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if t != nil {
		if msg, err := t.Translate(locale, key, args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if msg, err := defaultCatalog.Translate(locale, key, args...); err == nil {
		return msg
	}
	return key
}

// TemplateFuncs exposes translation to templates as
// translate(locale, key, ...args).
func TemplateFuncs(t Translator) map[string]any {
	return map[string]any{
		"translate": func(locale string, key string, args ...any) string {
			return Translate(t, locale, key, args...)
		},
	}
}
