package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormStore implements Store on a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenPostgres connects to PostgreSQL using dsn.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	return NewGormStore(db), nil
}

// DB exposes the underlying connection.
func (s *GormStore) DB() *gorm.DB { return s.db }

// Migrate creates or updates the tables owned by this module.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&fieldTable{}, &styleTable{}, &formTable{}); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *GormStore) scoped(ctx context.Context, q Query) (*gorm.DB, error) {
	if strings.TrimSpace(q.Collection) == "" {
		return nil, errors.New("store: collection is required")
	}
	tx := s.db.WithContext(ctx).Table(q.Collection)
	if filters := q.filters(); len(filters) > 0 {
		tx = tx.Where(map[string]any(filters))
	}
	for column, needle := range q.Contains {
		if needle = strings.TrimSpace(needle); needle == "" {
			continue
		}
		tx = tx.Where(clause.Expr{
			SQL:  "LOWER(?) LIKE LOWER(?)",
			Vars: []any{clause.Column{Name: column}, "%" + needle + "%"},
		})
	}
	return tx, nil
}

// Select implements Store.
func (s *GormStore) Select(ctx context.Context, q Query, dest any) error {
	tx, err := s.scoped(ctx, q)
	if err != nil {
		return err
	}
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("store: select %s: %w", q.Collection, err)
	}
	return nil
}

// Insert implements Store.
func (s *GormStore) Insert(ctx context.Context, collection string, row Row) error {
	if err := s.db.WithContext(ctx).Table(collection).Create(map[string]any(row)).Error; err != nil {
		return fmt.Errorf("store: insert %s: %w", collection, err)
	}
	return nil
}

// Update implements Store.
func (s *GormStore) Update(ctx context.Context, q Query, values Row) (int64, error) {
	tx, err := s.scoped(ctx, q)
	if err != nil {
		return 0, err
	}
	result := tx.Updates(map[string]any(values))
	if result.Error != nil {
		return 0, fmt.Errorf("store: update %s: %w", q.Collection, result.Error)
	}
	return result.RowsAffected, nil
}

// Delete implements Store.
func (s *GormStore) Delete(ctx context.Context, q Query) (int64, error) {
	tx, err := s.scoped(ctx, q)
	if err != nil {
		return 0, err
	}
	result := tx.Delete(map[string]any{})
	if result.Error != nil {
		return 0, fmt.Errorf("store: delete %s: %w", q.Collection, result.Error)
	}
	return result.RowsAffected, nil
}

// Upsert implements Store.
func (s *GormStore) Upsert(ctx context.Context, collection string, row Row, conflict []string) error {
	columns := make([]clause.Column, 0, len(conflict))
	skip := make(map[string]struct{}, len(conflict))
	for _, name := range conflict {
		columns = append(columns, clause.Column{Name: name})
		skip[name] = struct{}{}
	}
	var updates []string
	for name := range row {
		if _, ok := skip[name]; !ok {
			updates = append(updates, name)
		}
	}
	onConflict := clause.OnConflict{Columns: columns, DoNothing: len(updates) == 0}
	if len(updates) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(updates)
	}
	err := s.db.WithContext(ctx).Table(collection).Clauses(onConflict).Create(map[string]any(row)).Error
	if err != nil {
		return fmt.Errorf("store: upsert %s: %w", collection, err)
	}
	return nil
}
