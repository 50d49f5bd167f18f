// Package session holds the state of one editor session: the field library
// of a company and context, its style draft and the form being composed.
// Every mutation goes through the repositories first and refreshes the
// cached view afterwards.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/store"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// ErrNoForm is returned by form operations before a form was opened.
var ErrNoForm = errors.New("session: no form open")

// Repositories groups the persistence the session writes through.
type Repositories struct {
	Fields *store.FieldRepository
	Styles *store.StyleRepository
	Forms  *store.FormRepository
}

// NewRepositories builds the three repositories over one store.
func NewRepositories(s store.Store) Repositories {
	return Repositories{
		Fields: store.NewFieldRepository(s),
		Styles: store.NewStyleRepository(s),
		Forms:  store.NewFormRepository(s),
	}
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier routes notices to n.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is safe for concurrent use. Concurrent sessions on the same
// company do not lock each other; the last save wins.
type Session struct {
	repos       Repositories
	companyID   string
	formContext model.FormContext
	notifier    Notifier
	logger      logrus.FieldLogger

	mu         sync.RWMutex
	fields     []model.Field
	style      style.Config
	savedStyle style.Config
	form       *composition.Form
}

// Open loads the fields and style of companyID in formContext. Load failures
// never fail Open: the session starts with an empty library or the default
// style and an error notice is raised.
func Open(ctx context.Context, repos Repositories, companyID string, formContext model.FormContext, options ...Option) *Session {
	s := &Session{
		repos:       repos,
		companyID:   companyID,
		formContext: formContext,
		logger:      logrus.StandardLogger(),
		style:       style.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.notifier == nil {
		s.notifier = logNotifier{logger: s.logger}
	}

	if err := s.Refresh(ctx); err != nil {
		s.fail("Não foi possível carregar os campos", err)
	}
	cfg, err := repos.Styles.Get(ctx, companyID, formContext)
	if err != nil {
		s.fail("Não foi possível carregar o estilo", err)
		cfg = style.Default()
	}
	s.style, s.savedStyle = cfg, cfg
	return s
}

func (s *Session) fail(message string, err error) {
	s.logger.WithFields(logrus.Fields{"company": s.companyID, "context": s.formContext}).WithError(err).Warn("session: " + message)
	s.notifier.Notify(Notice{Level: LevelError, Message: message, Err: err})
}

// CompanyID returns the company the session edits.
func (s *Session) CompanyID() string { return s.companyID }

// Context returns the form context the session edits.
func (s *Session) Context() model.FormContext { return s.formContext }

// Refresh reloads the field library.
func (s *Session) Refresh(ctx context.Context) error {
	fields, err := s.repos.Fields.List(ctx, s.companyID, s.formContext)
	if err != nil {
		return fmt.Errorf("session: list fields: %w", err)
	}
	s.mu.Lock()
	s.fields = fields
	s.mu.Unlock()
	return nil
}

// Fields returns the cached library in display order.
func (s *Session) Fields() []model.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fields)
}

// Field looks up a cached field.
func (s *Session) Field(id string) (model.Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.ID == id {
			return f, true
		}
	}
	return model.Field{}, false
}

// CreateField persists f and refreshes the library.
func (s *Session) CreateField(ctx context.Context, f model.Field) (model.Field, error) {
	created, err := s.repos.Fields.Create(ctx, s.companyID, s.formContext, f)
	if err != nil {
		s.fail("Não foi possível criar o campo", err)
		return model.Field{}, err
	}
	s.refreshAfterWrite(ctx)
	return created, nil
}

// UpdateField persists f and refreshes the library.
func (s *Session) UpdateField(ctx context.Context, f model.Field) (model.Field, error) {
	updated, err := s.repos.Fields.Update(ctx, s.companyID, s.formContext, f)
	if err != nil {
		s.fail("Não foi possível salvar o campo", err)
		return model.Field{}, err
	}
	s.refreshAfterWrite(ctx)
	return updated, nil
}

// DeleteField removes the field from the library and from the open form.
func (s *Session) DeleteField(ctx context.Context, id string) error {
	if err := s.repos.Fields.Delete(ctx, s.companyID, id); err != nil {
		s.fail("Não foi possível excluir o campo", err)
		return err
	}
	s.mu.Lock()
	if s.form != nil {
		s.form.RemoveField(id)
	}
	s.mu.Unlock()
	s.refreshAfterWrite(ctx)
	return nil
}

func (s *Session) refreshAfterWrite(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.fail("Não foi possível atualizar a lista de campos", err)
	}
}

// Style returns the style draft.
func (s *Session) Style() style.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.style
}

// EditStyle mutates the draft. Nothing is persisted until SaveStyle.
func (s *Session) EditStyle(fn func(*style.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.style)
}

// Dirty reports whether the draft differs from the last saved style.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.style.Normalize() != s.savedStyle.Normalize()
}

// DiscardStyle reverts the draft to the last saved style.
func (s *Session) DiscardStyle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = s.savedStyle
}

// SaveStyle persists the draft.
func (s *Session) SaveStyle(ctx context.Context) error {
	cfg := s.Style().Normalize()
	if err := s.repos.Styles.Save(ctx, s.companyID, s.formContext, cfg); err != nil {
		s.fail("Não foi possível salvar o estilo", err)
		return err
	}
	s.mu.Lock()
	s.style, s.savedStyle = cfg, cfg
	s.mu.Unlock()
	s.notifier.Notify(Notice{Level: LevelInfo, Message: "Estilo salvo"})
	return nil
}

// OpenForm loads form id, or starts a new form with that id and the
// session's style when it does not exist yet. An empty id starts a form
// whose id is assigned on first save.
func (s *Session) OpenForm(ctx context.Context, id string) (composition.Form, error) {
	form := composition.Form{ID: id, CompanyID: s.companyID, Context: s.formContext, Style: s.Style()}
	if id != "" {
		loaded, err := s.repos.Forms.Get(ctx, s.companyID, id)
		switch {
		case err == nil:
			form = loaded
		case errors.Is(err, store.ErrNotFound):
		default:
			s.fail("Não foi possível carregar o formulário", err)
			return composition.Form{}, err
		}
	}
	s.mu.Lock()
	s.form = &form
	s.mu.Unlock()
	return form, nil
}

// Form returns the open form.
func (s *Session) Form() (composition.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.form == nil {
		return composition.Form{}, ErrNoForm
	}
	return *s.form, nil
}

// EditForm mutates the open form in place.
func (s *Session) EditForm(fn func(*composition.Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return ErrNoForm
	}
	draft := *s.form
	draft.Items = slices.Clone(draft.Items)
	draft.Overlays = maps.Clone(draft.Overlays)
	if err := fn(&draft); err != nil {
		return err
	}
	s.form = &draft
	return nil
}

// SaveForm persists the open form, overlays included.
func (s *Session) SaveForm(ctx context.Context) (composition.Form, error) {
	form, err := s.Form()
	if err != nil {
		return composition.Form{}, err
	}
	saved, err := s.repos.Forms.Save(ctx, form)
	if err != nil {
		s.fail("Não foi possível salvar o formulário", err)
		return composition.Form{}, err
	}
	s.mu.Lock()
	s.form = &saved
	s.mu.Unlock()
	return saved, nil
}

// Document pairs the open form with the cached library for rendering.
func (s *Session) Document(submitURL string) (render.Document, error) {
	form, err := s.Form()
	if err != nil {
		return render.Document{}, err
	}
	return render.Document{Form: form, Fields: s.Fields(), SubmitURL: submitURL}, nil
}
