package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/controls"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// DefaultMaxAttempts bounds re-prompts of a single field.
const DefaultMaxAttempts = 5

// Renderer implements render.Renderer for terminal sessions. It walks the
// steps of a document and fills every field through the same controls the
// browser preview uses, so masks, limits and lookups behave identically.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	cep               cep.Looker
	connections       connections.Source
	companyID         string
	translator        render.Translator
	logger            logrus.FieldLogger
	maxAttempts       int
	submitTransformer SubmitTransformer
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
		logger:       logrus.StandardLogger(),
		maxAttempts:  DefaultMaxAttempts,
		theme:        Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field of the selected steps and returns the
// collected values keyed by sender. Hidden values from options are carried
// into the output unless a field already uses the key.
func (r *Renderer) Render(ctx context.Context, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	translator := opts.Translator
	if translator == nil {
		translator = r.translator
	}
	s := &session{
		Renderer: r,
		state:    NewState(opts.Errors),
		t: func(key string, args ...any) string {
			return render.Translate(translator, opts.Locale, key, args...)
		},
	}
	deps := controls.Deps{
		OnChange:    s.state.Record,
		CEP:         r.cep,
		Connections: r.connections,
		CompanyID:   r.companyID,
		Logger:      r.logger,
	}

	steps := render.ApplySubset(doc.Steps(), opts.Subset)
	var filled []controls.Control
	for pos, step := range steps {
		if err := s.stepHeader(ctx, step, pos, len(steps)); err != nil {
			return nil, err
		}
		for _, f := range step.Fields {
			control := controls.New(f, deps)
			prefill(ctx, control, opts.Values)
			if err := s.fill(ctx, control); err != nil {
				return nil, err
			}
			filled = append(filled, control)
		}
	}

	values := s.state.Payload(filled)
	for name, value := range opts.Hidden {
		if _, taken := values[name]; !taken && strings.TrimSpace(name) != "" {
			values[name] = value
		}
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	r.logger.WithFields(logrus.Fields{"form": doc.Form.ID, "fields": len(filled), "changes": s.state.Changes()}).Debug("tui: session complete")
	return r.serialize(values)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// prefill applies initial values. Address parts may be given as
// "<id>[<part>]" keys; a plain "<id>" value is taken as the CEP.
func prefill(ctx context.Context, control controls.Control, values map[string]string) {
	id := control.Field().ID
	if parts, ok := control.(controls.PartSetter); ok {
		for _, spec := range fieldrules.AddressParts() {
			if v, found := values[id+"["+string(spec.Part)+"]"]; found {
				_ = parts.SetPart(ctx, spec.Part, v)
			}
		}
	}
	if v, ok := values[id]; ok && v != "" {
		_ = control.Set(v)
	}
}

// session is the state of one Render call.
type session struct {
	*Renderer
	state *State
	t     func(key string, args ...any) string
}

// problem is a recoverable answer error; the field is asked again.
type problem string

func (s *session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, msg)
}

func (s *session) stepHeader(ctx context.Context, step render.Step, pos, total int) error {
	if total < 2 && strings.TrimSpace(step.Title) == "" {
		return nil
	}
	header := s.t("form.step", pos+1, total)
	if title := strings.TrimSpace(step.Title); title != "" {
		header += " · " + title
	}
	return s.info(ctx, s.theme.StepPrefix+header)
}

// retry runs ask until it reports no problem, showing each problem to the
// user.
func (s *session) retry(ctx context.Context, p fieldrules.Presentation, ask func() (problem, error)) error {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		issue, err := ask()
		if err != nil {
			return err
		}
		if issue == "" {
			return nil
		}
		if err := s.info(ctx, s.theme.ErrorPrefix+p.Label+": "+string(issue)); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, p.Label)
}

func (s *session) fill(ctx context.Context, control controls.Control) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, msg := range s.state.ErrorsFor(control.Field().ID) {
		if err := s.info(ctx, s.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}

	view := control.View()
	switch view.Kind {
	case fieldrules.KindToggle:
		return s.fillToggle(ctx, control)
	case fieldrules.KindSelect, fieldrules.KindCheckbox:
		return s.fillChoice(ctx, control)
	case fieldrules.KindConnection:
		return s.fillConnection(ctx, control)
	case fieldrules.KindPhone:
		return s.fillPhone(ctx, control)
	case fieldrules.KindMoney:
		return s.fillMoney(ctx, control)
	case fieldrules.KindAddress:
		return s.fillAddress(ctx, control)
	case fieldrules.KindTextarea:
		return s.fillTextArea(ctx, control)
	default:
		return s.fillInput(ctx, control)
	}
}

func message(p fieldrules.Presentation) string {
	if p.Required {
		return p.Label + "*"
	}
	return p.Label
}

// commit sets input and checks the resulting view.
func (s *session) commit(control controls.Control, input string) problem {
	if err := control.Set(input); err != nil {
		return problem(s.t("error.invalid"))
	}
	return s.check(control)
}

// check reports answers the control flags as invalid or missing. The email
// pattern is a hint only and never blocks an answer.
func (s *session) check(control controls.Control) problem {
	view := control.View()
	if !view.Valid && control.Field().Type != model.FieldTypeEmail {
		return problem(s.t("error.invalid"))
	}
	if view.Required && isEmpty(control.Value()) {
		return problem(s.t("form.required"))
	}
	return ""
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case map[string]string:
		return len(v) == 0
	case bool:
		return !v
	default:
		return false
	}
}

func (s *session) fillInput(ctx context.Context, control controls.Control) error {
	view := control.View()
	help := view.Placeholder
	if view.Kind == fieldrules.KindSlider && view.Display != "" {
		help = view.Display
	}
	err := s.retry(ctx, view.Presentation, func() (problem, error) {
		answer, err := s.driver.Input(ctx, s.inputConfig(control, help))
		if err != nil {
			return "", err
		}
		return s.commit(control, answer), nil
	})
	if err != nil {
		return err
	}
	if current := control.View(); control.Field().Type == model.FieldTypeEmail && !current.Valid && current.Value != "" {
		return s.info(ctx, s.theme.InfoPrefix+view.Label+": "+s.t("email.hint"))
	}
	return nil
}

// inputConfig describes the answer a control expects. Masked kinds show
// their pattern so the user knows which digits to type.
func (s *session) inputConfig(control controls.Control, help string) InputConfig {
	view := control.View()
	cfg := InputConfig{
		Message: message(view.Presentation),
		Default: view.Value,
		Help:    help,
	}
	switch view.Kind {
	case fieldrules.KindPhone:
		cfg.Format = view.Country.DialCode + " " + view.Country.Mask(view.Country.MaxMaskDigits())
	case fieldrules.KindMoney:
		cfg.Format = strings.TrimSpace(view.Currency.Symbol + " " + view.Currency.Code)
	}
	switch control.Field().Document().Kind {
	case model.DocumentCPF:
		cfg.Format = "###.###.###-##"
	case model.DocumentCNPJ:
		cfg.Format = "##.###.###/####-##"
	}
	return cfg
}

func (s *session) fillTextArea(ctx context.Context, control controls.Control) error {
	view := control.View()
	return s.retry(ctx, view.Presentation, func() (problem, error) {
		answer, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: message(view.Presentation),
			Default: control.View().Value,
			Help:    view.Placeholder,
		})
		if err != nil {
			return "", err
		}
		return s.commit(control, answer), nil
	})
}

func (s *session) fillToggle(ctx context.Context, control controls.Control) error {
	view := control.View()
	return s.retry(ctx, view.Presentation, func() (problem, error) {
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: message(view.Presentation),
			Default: control.View().Checked,
			Help:    view.Placeholder,
		})
		if err != nil {
			return "", err
		}
		return s.commit(control, strconv.FormatBool(checked)), nil
	})
}

// fillChoice asks for selects and checkbox groups. Optional single choices
// get a leading "none" entry.
func (s *session) fillChoice(ctx context.Context, control controls.Control) error {
	if loader, ok := control.(controls.Loader); ok {
		if err := loader.Load(ctx); err != nil {
			if err := s.info(ctx, s.theme.ErrorPrefix+s.t("error.invalid")); err != nil {
				return err
			}
		}
	}
	toggler, ok := control.(controls.Toggler)
	if !ok {
		return s.fillInput(ctx, control)
	}
	view := control.View()
	limit := control.Field().Checkbox().Limit

	return s.retry(ctx, view.Presentation, func() (problem, error) {
		current := control.View()
		var chosen []string
		if view.Multiple {
			indexes, err := s.driver.MultiSelect(ctx, SelectConfig{
				Message:  message(view.Presentation),
				Options:  view.Options,
				Defaults: positions(view.Options, current.Selected),
				Help:     view.Placeholder,
			})
			if err != nil {
				return "", err
			}
			chosen = labelsAt(view.Options, indexes)
			if limit > 0 && len(chosen) > limit {
				return problem(s.t("checkbox.limit", limit)), nil
			}
		} else {
			options := view.Options
			if !view.Required {
				options = append([]string{s.t("select.none")}, options...)
			}
			def := 0
			if len(current.Selected) > 0 {
				def = max(indexOf(options, current.Selected[0]), 0)
			}
			idx, err := s.driver.Select(ctx, SelectConfig{
				Message:      message(view.Presentation),
				Options:      options,
				DefaultIndex: def,
				Help:         view.Placeholder,
			})
			if err != nil {
				return "", err
			}
			if !view.Required {
				idx--
			}
			if idx >= 0 && idx < len(view.Options) {
				chosen = []string{view.Options[idx]}
			}
		}
		if err := reconcile(toggler, current.Selected, chosen); err != nil {
			return problem(s.t("checkbox.limit", limit)), nil
		}
		return s.check(control), nil
	})
}

// reconcile toggles the difference between the current and the wanted
// selection, removals first so limits are never hit by a valid answer.
func reconcile(toggler controls.Toggler, current, wanted []string) error {
	for _, option := range current {
		if !slices.Contains(wanted, option) {
			if err := toggler.Toggle(option); err != nil {
				return err
			}
		}
	}
	for _, option := range wanted {
		if !slices.Contains(current, option) {
			if err := toggler.Toggle(option); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *session) fillConnection(ctx context.Context, control controls.Control) error {
	if loader, ok := control.(controls.Loader); ok {
		if err := loader.Load(ctx); err != nil {
			if err := s.info(ctx, s.theme.ErrorPrefix+s.t("error.invalid")); err != nil {
				return err
			}
		}
	}
	view := control.View()
	adder, canAdd := control.(controls.Adder)
	canAdd = canAdd && view.AllowAdd

	return s.retry(ctx, view.Presentation, func() (problem, error) {
		current := control.View()
		options := slices.Clone(current.Options)
		offset := 0
		if !view.Required {
			options = append([]string{s.t("select.none")}, options...)
			offset = 1
		}
		if canAdd {
			options = append(options, s.t("connection.add"))
		}
		def := 0
		if current.Value != "" {
			def = max(indexOf(options, current.Value), 0)
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message(view.Presentation),
			Options:      options,
			DefaultIndex: def,
			Help:         view.Placeholder,
		})
		if err != nil {
			return "", err
		}
		switch {
		case canAdd && idx == len(options)-1:
			label, err := s.driver.Input(ctx, InputConfig{Message: s.t("connection.label")})
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(label) == "" {
				return problem(s.t("form.required")), nil
			}
			if err := adder.Add(ctx, strings.TrimSpace(label)); err != nil {
				s.logger.WithError(err).WithField("field", control.Field().ID).Warn("tui: add connection record failed")
				return problem(s.t("error.invalid")), nil
			}
			return s.check(control), nil
		case idx < offset:
			return s.commit(control, ""), nil
		default:
			return s.commit(control, options[idx]), nil
		}
	})
}

func (s *session) fillPhone(ctx context.Context, control controls.Control) error {
	if setter, ok := control.(controls.CountrySetter); ok {
		countries := validation.Countries()
		labels := make([]string, len(countries))
		current := 0
		for i, c := range countries {
			labels[i] = fmt.Sprintf("%s %s (%s)", c.Flag, c.Name, c.DialCode)
			if c.Code == control.View().Country.Code {
				current = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      s.t("phone.country"),
			Options:      labels,
			DefaultIndex: current,
			PageSize:     10,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(countries) {
			if err := setter.SetCountry(countries[idx].Code); err != nil {
				return err
			}
		}
	}
	return s.fillInput(ctx, control)
}

func (s *session) fillMoney(ctx context.Context, control controls.Control) error {
	setter, ok := control.(controls.CurrencySetter)
	if view := control.View(); ok && view.CurrencySelectable {
		list := fieldrules.Currencies()
		labels := make([]string, len(list))
		current := 0
		for i, c := range list {
			labels[i] = c.Code + " (" + c.Symbol + ")"
			if c.Code == view.Currency.Code {
				current = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      s.t("money.currency"),
			Options:      labels,
			DefaultIndex: current,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(list) {
			if err := setter.SetCurrency(list[idx].Code); err != nil {
				return err
			}
		}
	}
	return s.fillInput(ctx, control)
}

// fillAddress asks for the CEP first so a lookup can offer the remaining
// parts as defaults.
func (s *session) fillAddress(ctx context.Context, control controls.Control) error {
	setter, ok := control.(controls.PartSetter)
	if !ok {
		return s.fillInput(ctx, control)
	}
	view := control.View()
	for _, spec := range fieldrules.AddressParts() {
		p := view.Presentation
		p.Label = view.Label + " · " + spec.Label
		p.Required = view.Required && spec.Part == fieldrules.AddressCEP
		err := s.retry(ctx, p, func() (problem, error) {
			cfg := InputConfig{
				Message: message(p),
				Default: control.View().Parts[string(spec.Part)],
			}
			if spec.Part == fieldrules.AddressCEP {
				cfg.Format = "#####-###"
			}
			answer, err := s.driver.Input(ctx, cfg)
			if err != nil {
				return "", err
			}
			if err := setter.SetPart(ctx, spec.Part, answer); err != nil {
				return problem(s.t("error.invalid")), nil
			}
			if spec.Part != fieldrules.AddressCEP {
				return "", nil
			}
			current := control.View()
			if !current.Valid || (p.Required && current.Value == "") {
				return problem(s.t("error.invalid")), nil
			}
			return "", nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
