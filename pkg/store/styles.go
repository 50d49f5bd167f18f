package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// StyleRepository persists one style per company and form context.
type StyleRepository struct {
	store Store
	now   func() time.Time
}

// NewStyleRepository builds a repository over s.
func NewStyleRepository(s Store) *StyleRepository {
	return &StyleRepository{store: s, now: time.Now}
}

// Get returns the stored style, or the default style when none was saved.
func (r *StyleRepository) Get(ctx context.Context, companyID string, formContext model.FormContext) (style.Config, error) {
	var rows []Row
	err := r.store.Select(ctx, Query{
		Collection: CollectionStyles,
		CompanyID:  companyID,
		Where:      map[string]any{"context": string(formContext)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return style.Config{}, err
	}
	if len(rows) == 0 {
		return style.Default(), nil
	}
	settings, err := jsonObject(rows[0]["settings"])
	if err != nil {
		return style.Config{}, err
	}
	cfg := style.Default()
	if err := weakDecode(settings, &cfg); err != nil {
		return style.Config{}, err
	}
	return cfg.Normalize(), nil
}

// Save stores cfg, replacing any previous style. Last save wins.
func (r *StyleRepository) Save(ctx context.Context, companyID string, formContext model.FormContext, cfg style.Config) error {
	settings, err := structToMap(cfg.Normalize())
	if err != nil {
		return err
	}
	return r.store.Upsert(ctx, CollectionStyles, Row{
		"company_id": companyID,
		"context":    string(formContext),
		"settings":   datatypes.JSONMap(settings),
		"updated_at": r.now(),
	}, []string{"company_id", "context"})
}
