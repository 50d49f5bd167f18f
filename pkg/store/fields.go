package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/goliatone/go-crmforms/pkg/model"
)

// FieldRepository persists custom field definitions.
type FieldRepository struct {
	store Store
	now   func() time.Time
}

// NewFieldRepository builds a repository over s.
func NewFieldRepository(s Store) *FieldRepository {
	return &FieldRepository{store: s, now: time.Now}
}

// List returns the fields of a company and context ordered by position.
func (r *FieldRepository) List(ctx context.Context, companyID string, formContext model.FormContext) ([]model.Field, error) {
	var rows []Row
	err := r.store.Select(ctx, Query{
		Collection: CollectionFields,
		CompanyID:  companyID,
		Where:      map[string]any{"context": string(formContext)},
		OrderBy:    "order",
	}, &rows)
	if err != nil {
		return nil, err
	}
	fields := make([]model.Field, 0, len(rows))
	for _, row := range rows {
		record, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		fields = append(fields, model.FieldFromRecord(record))
	}
	model.SortFields(fields)
	return fields, nil
}

// ListAll returns the fields of a company across every context.
func (r *FieldRepository) ListAll(ctx context.Context, companyID string) ([]model.Field, error) {
	var rows []Row
	err := r.store.Select(ctx, Query{Collection: CollectionFields, CompanyID: companyID, OrderBy: "order"}, &rows)
	if err != nil {
		return nil, err
	}
	fields := make([]model.Field, 0, len(rows))
	for _, row := range rows {
		record, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		fields = append(fields, model.FieldFromRecord(record))
	}
	return fields, nil
}

// Get loads one field.
func (r *FieldRepository) Get(ctx context.Context, companyID, id string) (model.Field, error) {
	var rows []Row
	err := r.store.Select(ctx, Query{
		Collection: CollectionFields,
		CompanyID:  companyID,
		Where:      map[string]any{"id": id},
		Limit:      1,
	}, &rows)
	if err != nil {
		return model.Field{}, err
	}
	if len(rows) == 0 {
		return model.Field{}, fmt.Errorf("field %s: %w", id, ErrNotFound)
	}
	record, err := recordFromRow(rows[0])
	if err != nil {
		return model.Field{}, err
	}
	return model.FieldFromRecord(record), nil
}

// Create stores a new field, assigning an id and appending it after the
// existing fields when no position is given.
func (r *FieldRepository) Create(ctx context.Context, companyID string, formContext model.FormContext, f model.Field) (model.Field, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Order <= 0 {
		existing, err := r.List(ctx, companyID, formContext)
		if err != nil {
			return model.Field{}, err
		}
		for _, field := range existing {
			f.Order = max(f.Order, field.Order)
		}
		f.Order++
	}
	record := model.RecordFromField(companyID, formContext, f)
	row := recordRow(record)
	now := r.now()
	row["created_at"] = now
	row["updated_at"] = now
	if err := r.store.Insert(ctx, CollectionFields, row); err != nil {
		return model.Field{}, err
	}
	return model.FieldFromRecord(record), nil
}

// Update replaces the stored definition of f.
func (r *FieldRepository) Update(ctx context.Context, companyID string, formContext model.FormContext, f model.Field) (model.Field, error) {
	record := model.RecordFromField(companyID, formContext, f)
	row := recordRow(record)
	delete(row, "id")
	delete(row, "company_id")
	row["updated_at"] = r.now()

	affected, err := r.store.Update(ctx, Query{
		Collection: CollectionFields,
		CompanyID:  companyID,
		Where:      map[string]any{"id": f.ID},
	}, row)
	if err != nil {
		return model.Field{}, err
	}
	if affected == 0 {
		return model.Field{}, fmt.Errorf("field %s: %w", f.ID, ErrNotFound)
	}
	return model.FieldFromRecord(record), nil
}

// Delete removes a field.
func (r *FieldRepository) Delete(ctx context.Context, companyID, id string) error {
	affected, err := r.store.Delete(ctx, Query{
		Collection: CollectionFields,
		CompanyID:  companyID,
		Where:      map[string]any{"id": id},
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("field %s: %w", id, ErrNotFound)
	}
	return nil
}

func recordRow(record model.Record) Row {
	attributes := datatypes.JSONMap{}
	for key, value := range record.Attributes {
		attributes[key] = value
	}
	return Row{
		"id":               record.ID,
		"company_id":       record.CompanyID,
		"context":          string(record.Context),
		"name":             record.Name,
		"type":             record.Type,
		"required":         record.Required,
		"order":            record.Order,
		"placeholder":      record.Placeholder,
		"placeholder_text": record.PlaceholderText,
		"sender":           record.Sender,
		"sender_manual":    record.SenderManual,
		"attributes":       attributes,
	}
}

func recordFromRow(row Row) (model.Record, error) {
	attributes, err := jsonObject(row["attributes"])
	if err != nil {
		return model.Record{}, err
	}
	columns := make(Row, len(row))
	for key, value := range row {
		switch key {
		case "attributes", "created_at", "updated_at":
			continue
		}
		columns[key] = value
	}
	record, err := model.DecodeRecord(columns)
	if err != nil {
		return model.Record{}, err
	}
	record.Attributes = attributes
	return record, nil
}
