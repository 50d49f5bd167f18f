// Package connections lists the CRM records a connection field can point to.
package connections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/store"
)

// MaxOptions caps the rows returned for one list.
const MaxOptions = 200

var (
	// ErrUnknownList is returned for lists without a backing collection.
	ErrUnknownList = errors.New("connections: unknown list")
	// ErrEmptyLabel is returned when creating an option without a label.
	ErrEmptyLabel = errors.New("connections: label is required")
)

// Option is one selectable record.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Source resolves the options of a connection list for a company.
type Source interface {
	Options(ctx context.Context, companyID string, list model.ConnectionList, search string) ([]Option, error)
}

// Creator is implemented by sources that support adding a record from the
// form.
type Creator interface {
	Create(ctx context.Context, companyID string, list model.ConnectionList, label string) (Option, error)
}

// Binding names the collection and label column behind a list.
type Binding struct {
	Collection string
	Label      string
}

var bindings = map[model.ConnectionList]Binding{
	model.ConnectionLeads:        {Collection: "leads", Label: "name"},
	model.ConnectionAppointments: {Collection: "appointments", Label: "title"},
	model.ConnectionResults:      {Collection: "results", Label: "name"},
	model.ConnectionClients:      {Collection: "clients", Label: "name"},
	model.ConnectionCompanies:    {Collection: "companies", Label: "name"},
	model.ConnectionSales:        {Collection: "sales", Label: "title"},
	model.ConnectionOrigins:      {Collection: "origins", Label: "name"},
	model.ConnectionLossReasons:  {Collection: "loss_reasons", Label: "reason"},
}

// BindingFor returns the binding of list.
func BindingFor(list model.ConnectionList) (Binding, bool) {
	b, ok := bindings[list]
	return b, ok
}

// StoreSource reads options through a store.Store.
type StoreSource struct {
	store  store.Store
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewStoreSource builds a source over s. A nil logger uses the standard
// logrus logger.
func NewStoreSource(s store.Store, logger logrus.FieldLogger) *StoreSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StoreSource{store: s, logger: logger, now: time.Now}
}

// Options implements Source. Results are filtered by company, ordered by
// label and capped at MaxOptions.
func (s *StoreSource) Options(ctx context.Context, companyID string, list model.ConnectionList, search string) ([]Option, error) {
	binding, ok := bindings[list]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	q := store.Query{
		Collection: binding.Collection,
		CompanyID:  companyID,
		OrderBy:    binding.Label,
		Limit:      MaxOptions,
	}
	if search = strings.TrimSpace(search); search != "" {
		q.Contains = map[string]string{binding.Label: search}
	}

	var rows []store.Row
	if err := s.store.Select(ctx, q, &rows); err != nil {
		s.logger.WithFields(logrus.Fields{
			"company":    companyID,
			"collection": binding.Collection,
		}).WithError(err).Warn("connections: list options failed")
		return nil, fmt.Errorf("connections: options %s: %w", list, err)
	}

	options := make([]Option, 0, len(rows))
	for _, row := range rows {
		label := strings.TrimSpace(fmt.Sprint(row[binding.Label]))
		if row[binding.Label] == nil || label == "" {
			continue
		}
		options = append(options, Option{ID: fmt.Sprint(row["id"]), Label: label})
	}
	return options, nil
}

// Create implements Creator.
func (s *StoreSource) Create(ctx context.Context, companyID string, list model.ConnectionList, label string) (Option, error) {
	binding, ok := bindings[list]
	if !ok {
		return Option{}, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return Option{}, ErrEmptyLabel
	}
	option := Option{ID: uuid.NewString(), Label: label}
	err := s.store.Insert(ctx, binding.Collection, store.Row{
		"id":           option.ID,
		"company_id":   companyID,
		binding.Label: label,
		"created_at":   s.now(),
	})
	if err != nil {
		return Option{}, fmt.Errorf("connections: create %s: %w", list, err)
	}
	return option, nil
}

// Filter narrows options to those whose label contains query, ignoring
// case and accents.
func Filter(options []Option, query string) []Option {
	if model.FoldSearch(query) == "" {
		return options
	}
	out := make([]Option, 0, len(options))
	for _, option := range options {
		if model.MatchesSearch(option.Label, query) {
			out = append(out, option)
		}
	}
	return out
}

// Labels lists the option labels of list. On error the result is empty but
// non-nil so callers can still render an empty control.
func Labels(ctx context.Context, source Source, companyID string, list model.ConnectionList) ([]string, error) {
	options, err := source.Options(ctx, companyID, list, "")
	if err != nil {
		return []string{}, err
	}
	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
	}
	return labels, nil
}
