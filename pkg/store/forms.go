package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// FormRepository persists form compositions.
type FormRepository struct {
	store Store
	now   func() time.Time
}

// NewFormRepository builds a repository over s.
func NewFormRepository(s Store) *FormRepository {
	return &FormRepository{store: s, now: time.Now}
}

// Get loads a form. An empty companyID looks the form up by id alone, as the
// public submission endpoint does.
func (r *FormRepository) Get(ctx context.Context, companyID, id string) (composition.Form, error) {
	var rows []Row
	err := r.store.Select(ctx, Query{
		Collection: CollectionForms,
		CompanyID:  companyID,
		Where:      map[string]any{"id": id},
		Limit:      1,
	}, &rows)
	if err != nil {
		return composition.Form{}, err
	}
	if len(rows) == 0 {
		return composition.Form{}, fmt.Errorf("form %s: %w", id, ErrNotFound)
	}
	return formFromRow(rows[0])
}

// List returns the forms of a company by title.
func (r *FormRepository) List(ctx context.Context, companyID string) ([]composition.Form, error) {
	var rows []Row
	err := r.store.Select(ctx, Query{Collection: CollectionForms, CompanyID: companyID, OrderBy: "title"}, &rows)
	if err != nil {
		return nil, err
	}
	forms := make([]composition.Form, 0, len(rows))
	for _, row := range rows {
		form, err := formFromRow(row)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// Save upserts the composition and its style, assigning an id to new forms.
func (r *FormRepository) Save(ctx context.Context, form composition.Form) (composition.Form, error) {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	form.Style = form.Style.Normalize()

	items, err := encodeJSONColumn(form.Items)
	if err != nil {
		return composition.Form{}, err
	}
	overlays, err := encodeJSONColumn(form.Overlays)
	if err != nil {
		return composition.Form{}, err
	}
	styleJSON, err := encodeJSONColumn(form.Style)
	if err != nil {
		return composition.Form{}, err
	}

	err = r.store.Upsert(ctx, CollectionForms, Row{
		"id":         form.ID,
		"company_id": form.CompanyID,
		"context":    string(form.Context),
		"title":      form.Title,
		"items":      items,
		"overlays":   overlays,
		"style":      styleJSON,
		"updated_at": r.now(),
	}, []string{"id"})
	if err != nil {
		return composition.Form{}, err
	}
	return form, nil
}

// Delete removes a form.
func (r *FormRepository) Delete(ctx context.Context, companyID, id string) error {
	affected, err := r.store.Delete(ctx, Query{
		Collection: CollectionForms,
		CompanyID:  companyID,
		Where:      map[string]any{"id": id},
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("form %s: %w", id, ErrNotFound)
	}
	return nil
}

func formFromRow(row Row) (composition.Form, error) {
	form := composition.Form{
		ID:        fmt.Sprint(row["id"]),
		CompanyID: fmt.Sprint(row["company_id"]),
		Title:     stringValue(row["title"]),
		Style:     style.Default(),
	}
	if fc, ok := model.ParseFormContext(stringValue(row["context"])); ok {
		form.Context = fc
	}
	if err := decodeJSONColumn(row["items"], &form.Items); err != nil {
		return composition.Form{}, err
	}
	if err := decodeJSONColumn(row["overlays"], &form.Overlays); err != nil {
		return composition.Form{}, err
	}
	if err := decodeJSONColumn(row["style"], &form.Style); err != nil {
		return composition.Form{}, err
	}
	form.Style = form.Style.Normalize()
	return form, nil
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
