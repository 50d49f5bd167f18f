package openapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

const (
	specVersion = "3.0.3"
	// DefaultVersion is the info.version of generated documents.
	DefaultVersion = "1.0.0"

	formEncoded = "application/x-www-form-urlencoded"
	jsonEncoded = "application/json"
)

// Option customises Build.
type Option func(*builder)

// WithConnections resolves select options sourced from CRM lists so they
// can be listed as enums.
func WithConnections(source connections.Source) Option {
	return func(b *builder) {
		b.connections = source
	}
}

// WithServerURL adds a server entry, typically the public base URL.
func WithServerURL(url string) Option {
	return func(b *builder) {
		b.serverURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

// WithVersion overrides info.version.
func WithVersion(version string) Option {
	return func(b *builder) {
		if version != "" {
			b.version = version
		}
	}
}

// WithLogger routes option lookup failures to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type builder struct {
	connections connections.Source
	serverURL   string
	version     string
	logger      logrus.FieldLogger
}

// SubmitPath returns the route a form posts to.
func SubmitPath(formID string) string {
	return "/f/" + formID + "/submit"
}

// Build describes the submit endpoint of doc.Form. Every resolved field
// becomes one property named after its sender; the result is validated
// before it is returned.
func Build(ctx context.Context, doc render.Document, options ...Option) (*openapi3.T, error) {
	b := &builder{version: DefaultVersion, logger: logrus.StandardLogger()}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}

	body, encoding := b.requestSchema(ctx, doc)

	form := openapi3.NewMediaType().WithSchema(body)
	form.Encoding = encoding

	request := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.Content{
			formEncoded: form,
			jsonEncoded: openapi3.NewMediaType().WithSchema(body),
		})

	op := openapi3.NewOperation()
	op.OperationID = "submit_" + model.DeriveSender(doc.Form.ID)
	op.Summary = "Submit " + doc.Title(doc.Form.ID)
	if doc.Form.Context != "" {
		op.Tags = []string{string(doc.Form.Context)}
	}
	op.RequestBody = &openapi3.RequestBodyRef{Value: request}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Submission accepted").
			WithJSONSchema(acceptedSchema())}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Field errors keyed by property").
			WithJSONSchema(rejectedSchema())}),
		openapi3.WithStatus(404, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Unknown form").
			WithJSONSchema(errorSchema())}),
	)

	spec := &openapi3.T{
		OpenAPI: specVersion,
		Info: &openapi3.Info{
			Title:   doc.Title("Formulário " + doc.Form.ID),
			Version: b.version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(SubmitPath(doc.Form.ID), &openapi3.PathItem{Post: op})),
	}
	if b.serverURL != "" {
		spec.Servers = openapi3.Servers{{URL: b.serverURL}}
	}

	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate %s: %w", doc.Form.ID, err)
	}
	return spec, nil
}

func (b *builder) requestSchema(ctx context.Context, doc render.Document) (*openapi3.Schema, map[string]*openapi3.Encoding) {
	body := openapi3.NewObjectSchema()
	encoding := map[string]*openapi3.Encoding{}

	for _, f := range doc.ResolvedFields() {
		name := f.PropertyName()
		prop := b.property(ctx, doc.Form.CompanyID, f)
		prop.Title = f.Name
		body.WithProperty(name, prop)
		if f.Required {
			body.Required = append(body.Required, name)
		}

		switch f.Type {
		case model.FieldTypeAddress:
			encoding[name] = &openapi3.Encoding{Style: openapi3.SerializationDeepObject, Explode: openapi3.BoolPtr(true)}
		case model.FieldTypePhone:
			body.WithProperty(name+"_country", countrySchema())
		case model.FieldTypeMoney:
			if f.Money().Variable() {
				body.WithProperty(name+"_currency", currencySchema())
			}
		}
		if prop.Type.Is(openapi3.TypeArray) {
			encoding[name] = &openapi3.Encoding{Style: openapi3.SerializationForm, Explode: openapi3.BoolPtr(true)}
		}
	}

	body.Description = "Values prefixed " + render.UTMPrefix + " or " + render.CookiePrefix + " are relayed as tracking extras"
	body.WithAdditionalProperties(openapi3.NewStringSchema())
	return body, encoding
}

func (b *builder) property(ctx context.Context, companyID string, f model.Field) *openapi3.Schema {
	switch f.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		s := openapi3.NewStringSchema()
		if max := f.Text().MaxLength; max > 0 {
			s.WithMaxLength(int64(max))
		}
		return s
	case model.FieldTypeEmail:
		return openapi3.NewStringSchema().WithFormat("email")
	case model.FieldTypeURL:
		return openapi3.NewStringSchema().WithFormat("uri")
	case model.FieldTypePhone:
		return openapi3.NewStringSchema().WithFormat("tel")
	case model.FieldTypeDate:
		return openapi3.NewStringSchema().WithFormat("date")
	case model.FieldTypeTime:
		return openapi3.NewStringSchema().WithFormat("time")
	case model.FieldTypeDatetime:
		return openapi3.NewStringSchema().WithFormat("date-time")
	case model.FieldTypeNumber:
		return openapi3.NewFloat64Schema()
	case model.FieldTypeSlider:
		min, max, step := fieldrules.SliderBounds(f.Slider())
		s := openapi3.NewFloat64Schema().WithMin(min).WithMax(max)
		s.Default = fieldrules.SliderDefault(f.Slider())
		s.Extensions = map[string]any{"x-step": step}
		return s
	case model.FieldTypeMoney:
		return moneySchema(f.Money())
	case model.FieldTypeDocument:
		return documentSchema(f.Document().Kind)
	case model.FieldTypeAddress:
		s := openapi3.NewObjectSchema()
		for _, part := range fieldrules.AddressParts() {
			prop := openapi3.NewStringSchema()
			prop.Title = part.Label
			if part.Part == fieldrules.AddressCEP {
				prop.WithPattern(`^\d{5}-?\d{3}$`)
			}
			s.WithProperty(string(part.Part), prop)
		}
		if f.Required {
			s.Required = []string{string(fieldrules.AddressCEP)}
		}
		return s
	case model.FieldTypeCheckbox:
		cfg := f.Checkbox()
		options := fieldrules.ParseOptions(cfg.Options)
		if len(options) == 0 {
			return openapi3.NewBoolSchema()
		}
		return choiceSchema(options, cfg.Multiselect, cfg.Limit)
	case model.FieldTypeSelect:
		cfg := f.Select()
		options := fieldrules.ParseOptions(cfg.Options)
		if list, ok := f.ConnectionList(); ok {
			options = b.listLabels(ctx, companyID, list)
		}
		return choiceSchema(options, cfg.Multiselect, 0)
	case model.FieldTypeConnection:
		s := openapi3.NewStringSchema()
		s.Description = "Record id or label of the " + string(f.Connection().List) + " list"
		return s
	default:
		return openapi3.NewStringSchema()
	}
}

func (b *builder) listLabels(ctx context.Context, companyID string, list model.ConnectionList) []string {
	if b.connections == nil {
		return nil
	}
	labels, err := connections.Labels(ctx, b.connections, companyID, list)
	if err != nil {
		b.logger.WithFields(logrus.Fields{"company": companyID, "list": list}).WithError(err).Warn("openapi: load options failed")
	}
	return labels
}

func choiceSchema(options []string, multi bool, limit int) *openapi3.Schema {
	item := openapi3.NewStringSchema()
	if len(options) > 0 {
		enum := make([]any, len(options))
		for i, option := range options {
			enum[i] = option
		}
		item.WithEnum(enum...)
	}
	if !multi {
		return item
	}
	s := openapi3.NewArraySchema().WithItems(item)
	s.UniqueItems = true
	if limit > 0 {
		s.WithMaxItems(int64(limit))
	}
	return s
}

func moneySchema(cfg model.MoneyConfig) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Description = "Amount as typed, the last two digits being cents"
	s.Extensions = map[string]any{}
	if !cfg.Variable() {
		s.Extensions["x-currency"] = fieldrules.ResolveCurrency(cfg.Currency).Code
	}
	if cfg.Limits {
		s.Extensions["x-minimum"] = cfg.Min
		if cfg.Max > 0 {
			s.Extensions["x-maximum"] = cfg.Max
		}
	}
	return s
}

func documentSchema(kind model.DocumentKind) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	switch kind {
	case model.DocumentCPF:
		s.WithPattern(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)
	case model.DocumentCNPJ:
		s.WithPattern(`^\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}$`)
	}
	if n := validation.DocumentLength(string(kind)); n > 0 {
		s.Description = fmt.Sprintf("%s with %d digits", strings.ToUpper(string(kind)), n)
	}
	return s
}

func countrySchema() *openapi3.Schema {
	var codes []any
	for _, country := range validation.Countries() {
		codes = append(codes, country.Code)
	}
	s := openapi3.NewStringSchema().WithEnum(codes...)
	s.Default = validation.DefaultCountry
	return s
}

func currencySchema() *openapi3.Schema {
	var codes []any
	for _, currency := range fieldrules.Currencies() {
		codes = append(codes, currency.Code)
	}
	s := openapi3.NewStringSchema().WithEnum(codes...)
	s.Default = fieldrules.DefaultCurrency
	return s
}

func acceptedSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("accepted", openapi3.NewBoolSchema()).
		WithProperty("event_id", openapi3.NewStringSchema()).
		WithProperty("disqualified", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
}

func rejectedSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("accepted", openapi3.NewBoolSchema()).
		WithProperty("errors", openapi3.NewObjectSchema().WithAdditionalProperties(messages))
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())
}
