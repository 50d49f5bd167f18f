// Package submission accepts values posted by a rendered form: it validates
// them with the rules the controls enforce while typing, flags
// disqualified leads, keys the values by sender and publishes the result.
package submission

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/events"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// Outcomes reported to the observer.
const (
	OutcomeAccepted     = "accepted"
	OutcomeDisqualified = "disqualified"
	OutcomeRejected     = "rejected"
	OutcomeError        = "error"
)

// FieldErrors holds validation messages keyed by sender.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+strings.Join(e[key], ", "))
	}
	return "submission: invalid values (" + strings.Join(parts, "; ") + ")"
}

func (e FieldErrors) add(sender, message string) {
	e[sender] = append(e[sender], message)
}

// Result is the outcome of one submission.
type Result struct {
	Accepted bool `json:"accepted"`
	// Values are keyed by sender.
	Values map[string]any `json:"values,omitempty"`
	// Extras are the relayed utm_ and cookie_ values.
	Extras map[string]string `json:"extras,omitempty"`
	// Disqualified lists the senders whose values tripped a disqualify rule.
	Disqualified []string    `json:"disqualified,omitempty"`
	Errors       FieldErrors `json:"errors,omitempty"`
	EventID      string      `json:"event_id,omitempty"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithPublisher sets where accepted submissions are published.
func WithPublisher(p events.Publisher) Option {
	return func(h *Handler) {
		if p != nil {
			h.publisher = p
		}
	}
}

// WithConnections resolves connection-backed options.
func WithConnections(source connections.Source) Option {
	return func(h *Handler) {
		h.connections = source
	}
}

// WithTranslator localizes validation messages.
func WithTranslator(t render.Translator, locale string) Option {
	return func(h *Handler) {
		h.translator = t
		h.locale = locale
	}
}

// WithObserver receives the outcome of every submission.
func WithObserver(fn func(outcome string)) Option {
	return func(h *Handler) {
		h.observe = fn
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler validates and publishes submissions.
type Handler struct {
	publisher   events.Publisher
	connections connections.Source
	translator  render.Translator
	locale      string
	observe     func(string)
	logger      logrus.FieldLogger
}

// NewHandler builds a handler; without a publisher events are discarded.
func NewHandler(options ...Option) *Handler {
	h := &Handler{publisher: events.Nop{}, logger: logrus.StandardLogger()}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Submit validates values posted for form. Validation failures are reported
// in Result.Errors with a nil error; the returned error is reserved for
// failures to publish.
func (h *Handler) Submit(ctx context.Context, form composition.Form, fields []model.Field, values url.Values) (Result, error) {
	doc := render.Document{Form: form, Fields: fields}
	result := Result{
		Values: make(map[string]any),
		Extras: render.TrackingFields(values),
		Errors: make(FieldErrors),
	}

	for _, f := range doc.ResolvedFields() {
		sender := f.PropertyName()
		value, raw := h.collect(ctx, form.CompanyID, f, values, result.Errors)
		result.Values[sender] = value
		if composition.Disqualifies(f.Type, form.Overlay(f.ID), raw...) {
			result.Disqualified = append(result.Disqualified, sender)
		}
	}

	logger := h.logger.WithFields(logrus.Fields{"company": form.CompanyID, "form": form.ID})
	if len(result.Errors) > 0 {
		logger.WithField("fields", len(result.Errors)).Debug("submission: rejected")
		h.report(OutcomeRejected)
		result.Values = nil
		return result, nil
	}
	result.Errors = nil
	result.Accepted = true

	event, err := events.New(events.TypeSubmissionReceived, form.CompanyID, form.ID, struct {
		Values       map[string]any    `json:"values"`
		Extras       map[string]string `json:"extras,omitempty"`
		Disqualified []string          `json:"disqualified,omitempty"`
	}{result.Values, result.Extras, result.Disqualified})
	if err == nil {
		err = h.publisher.Publish(ctx, event)
	}
	if err != nil {
		logger.WithError(err).Error("submission: publish failed")
		h.report(OutcomeError)
		return result, fmt.Errorf("submission: publish: %w", err)
	}
	result.EventID = event.ID

	outcome := OutcomeAccepted
	if len(result.Disqualified) > 0 {
		outcome = OutcomeDisqualified
	}
	logger.WithField("outcome", outcome).Info("submission: received")
	h.report(outcome)
	return result, nil
}

func (h *Handler) report(outcome string) {
	if h.observe != nil {
		h.observe(outcome)
	}
}

func (h *Handler) t(key string, args ...any) string {
	return render.Translate(h.translator, h.locale, key, args...)
}

// posted returns the trimmed non-empty values sent for key, falling back to
// the field id when nothing was sent under the sender.
func posted(values url.Values, f model.Field, suffix string) []string {
	list := values[f.PropertyName()+suffix]
	if len(list) == 0 {
		list = values[f.ID+suffix]
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// collect validates the values of one field, returning the value to
// deliver and the raw values disqualify rules are evaluated on.
func (h *Handler) collect(ctx context.Context, companyID string, f model.Field, values url.Values, errs FieldErrors) (any, []string) {
	sender := f.PropertyName()
	invalid := func() { errs.add(sender, h.t("error.invalid")) }
	required := func() { errs.add(sender, h.t("form.required")) }

	switch f.Type {
	case model.FieldTypeAddress:
		return h.collectAddress(f, values, errs), nil
	case model.FieldTypeCheckbox:
		cfg := f.Checkbox()
		options := fieldrules.ParseOptions(cfg.Options)
		raw := posted(values, f, "")
		if len(options) == 0 {
			checked := len(raw) > 0 && isChecked(raw[0])
			if f.Required && !checked {
				required()
			}
			return checked, raw
		}
		if cfg.Multiselect && cfg.Limit > 0 && len(raw) > cfg.Limit {
			errs.add(sender, h.t("checkbox.limit", cfg.Limit))
		}
		return h.choice(f, options, cfg.Multiselect, raw, errs), raw
	case model.FieldTypeSelect:
		cfg := f.Select()
		options := fieldrules.ParseOptions(cfg.Options)
		if list, ok := f.ConnectionList(); ok && h.connections != nil {
			labels, err := connections.Labels(ctx, h.connections, companyID, list)
			if err != nil {
				h.logger.WithFields(logrus.Fields{"company": companyID, "list": list}).WithError(err).Warn("submission: load select options failed")
			}
			options = labels
		}
		raw := posted(values, f, "")
		return h.choice(f, options, cfg.Multiselect, raw, errs), raw
	case model.FieldTypeConnection:
		raw := posted(values, f, "")
		if len(raw) == 0 {
			if f.Required {
				required()
			}
			return "", raw
		}
		return h.connection(ctx, companyID, f, raw[0], errs), raw
	}

	raw := posted(values, f, "")
	value := ""
	if len(raw) > 0 {
		value = raw[0]
	}
	if value == "" {
		if f.Required {
			required()
		}
		if f.Type == model.FieldTypeSlider {
			return fieldrules.SliderDefault(f.Slider()), raw
		}
		return "", raw
	}

	switch f.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		return fieldrules.TruncateText(value, f.Text().MaxLength), raw
	case model.FieldTypeName:
		return validation.FormatName(value), raw
	case model.FieldTypeURL:
		if !validation.ValidateURL(value) {
			invalid()
		}
		return validation.NormalizeURL(value), raw
	case model.FieldTypeDocument:
		return h.document(f, value, errs), raw
	case model.FieldTypePhone:
		country := validation.DefaultCountry
		if codes := posted(values, f, "_country"); len(codes) > 0 {
			country = validation.CountryByCode(strings.ToUpper(codes[0])).Code
		}
		if !validation.ValidatePhoneNumber(value, country) {
			invalid()
		}
		return validation.InternationalPhone(value, country), raw
	case model.FieldTypeMoney:
		cfg := f.Money()
		code := cfg.Currency
		if cfg.Variable() {
			code = ""
			if codes := posted(values, f, "_currency"); len(codes) > 0 {
				code = codes[0]
			}
		}
		typed := strings.TrimLeft(validation.OnlyDigits(value), "0")
		digits := fieldrules.MoneyDigits(value)
		if len(typed) > fieldrules.MaxMoneyDigits || !fieldrules.MoneyWithinLimits(cfg, fieldrules.MoneyValue(digits)) {
			invalid()
		}
		return fieldrules.FormatMoney(digits, code), raw
	case model.FieldTypeSlider, model.FieldTypeNumber:
		n, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
		if err != nil {
			invalid()
			return value, raw
		}
		if f.Type == model.FieldTypeSlider {
			if _, ok := fieldrules.ClampSlider(f.Slider(), n); !ok {
				invalid()
			}
		}
		return n, raw
	default:
		return value, raw
	}
}

func (h *Handler) choice(f model.Field, options []string, multi bool, raw []string, errs FieldErrors) any {
	sender := f.PropertyName()
	if len(raw) == 0 && f.Required {
		errs.add(sender, h.t("form.required"))
	}
	if !multi && len(raw) > 1 {
		errs.add(sender, h.t("error.invalid"))
	}
	for _, v := range raw {
		if !slices.Contains(options, v) {
			errs.add(sender, h.t("error.invalid"))
			break
		}
	}
	if multi {
		return append([]string{}, raw...)
	}
	if len(raw) == 0 {
		return ""
	}
	return raw[0]
}

// connection resolves the posted value, a record id or label, to the
// record id.
func (h *Handler) connection(ctx context.Context, companyID string, f model.Field, value string, errs FieldErrors) string {
	list, ok := f.ConnectionList()
	if !ok || h.connections == nil {
		return value
	}
	options, err := h.connections.Options(ctx, companyID, list, "")
	if err != nil {
		h.logger.WithFields(logrus.Fields{"company": companyID, "list": list}).WithError(err).Warn("submission: load connection options failed")
		return value
	}
	for _, option := range options {
		if option.ID == value || strings.EqualFold(option.Label, value) {
			return option.ID
		}
	}
	errs.add(f.PropertyName(), h.t("error.invalid"))
	return value
}

func (h *Handler) document(f model.Field, value string, errs FieldErrors) string {
	kind := f.Document().Kind
	digits := validation.OnlyDigits(value)
	switch kind {
	case model.DocumentCPF:
		if !validation.ValidateCPF(digits) {
			errs.add(f.PropertyName(), h.t("error.invalid"))
			return value
		}
		return validation.ApplyCPFMask(digits)
	case model.DocumentCNPJ:
		if !validation.ValidateCNPJ(digits) {
			errs.add(f.PropertyName(), h.t("error.invalid"))
			return value
		}
		return validation.ApplyCNPJMask(digits)
	default:
		return value
	}
}

func (h *Handler) collectAddress(f model.Field, values url.Values, errs FieldErrors) map[string]string {
	out := make(map[string]string)
	for _, spec := range fieldrules.AddressParts() {
		parts := posted(values, f, "["+string(spec.Part)+"]")
		if len(parts) > 0 {
			out[string(spec.Part)] = parts[0]
		}
	}
	code, ok := out[string(fieldrules.AddressCEP)]
	switch {
	case !ok && f.Required:
		errs.add(f.PropertyName(), h.t("form.required"))
	case ok && !validation.IsCompleteCEP(code):
		errs.add(f.PropertyName(), h.t("error.invalid"))
	case ok:
		out[string(fieldrules.AddressCEP)] = validation.FormatCEP(code)
	}
	return out
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes", "sim", "1", "true":
		return true
	}
	return false
}
