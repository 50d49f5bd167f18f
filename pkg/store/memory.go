package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// MemoryStore keeps collections in process memory. It backs tests and the
// CLI when no database is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Row
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Row)}
}

// Seed appends rows to a collection without any checks.
func (s *MemoryStore) Seed(collection string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.collections[collection] = append(s.collections[collection], cloneRow(row))
	}
}

// Select implements Store.
func (s *MemoryStore) Select(ctx context.Context, q Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.Collection == "" {
		return errors.New("store: collection is required")
	}

	s.mu.RLock()
	matched := make([]Row, 0)
	for _, row := range s.collections[q.Collection] {
		if q.matches(row) {
			matched = append(matched, cloneRow(row))
		}
	}
	s.mu.RUnlock()

	if q.OrderBy != "" {
		slices.SortStableFunc(matched, func(a, b Row) int {
			c := compareValues(a[q.OrderBy], b[q.OrderBy])
			if q.Desc {
				return -c
			}
			return c
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	if err := mapstructure.Decode(matched, dest); err != nil {
		return fmt.Errorf("store: decode %s: %w", q.Collection, err)
	}
	return nil
}

// Insert implements Store.
func (s *MemoryStore) Insert(ctx context.Context, collection string, row Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := row["id"]; ok && id != "" {
		for _, existing := range s.collections[collection] {
			if existing["id"] == id {
				return fmt.Errorf("store: insert %s: duplicate id %v", collection, id)
			}
		}
	}
	s.collections[collection] = append(s.collections[collection], cloneRow(row))
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, q Query, values Row) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, row := range s.collections[q.Collection] {
		if !q.matches(row) {
			continue
		}
		for key, value := range values {
			row[key] = value
		}
		affected++
	}
	return affected, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, q Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.collections[q.Collection]
	kept := rows[:0]
	var affected int64
	for _, row := range rows {
		if q.matches(row) {
			affected++
			continue
		}
		kept = append(kept, row)
	}
	s.collections[q.Collection] = kept
	return affected, nil
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, row Row, conflict []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.collections[collection] {
		if sameKey(existing, row, conflict) {
			for key, value := range row {
				existing[key] = value
			}
			return nil
		}
	}
	s.collections[collection] = append(s.collections[collection], cloneRow(row))
	return nil
}

func (q Query) matches(row Row) bool {
	for key, want := range q.filters() {
		if !equalValues(row[key], want) {
			return false
		}
	}
	for key, needle := range q.Contains {
		needle = strings.TrimSpace(needle)
		if needle == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(fmt.Sprint(row[key])), strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

func sameKey(a, b Row, columns []string) bool {
	if len(columns) == 0 {
		return false
	}
	for _, column := range columns {
		if !equalValues(a[column], b[column]) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareValues(a, b any) int {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for key, value := range row {
		out[key] = value
	}
	return out
}
