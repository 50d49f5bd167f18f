package connections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/store"
)

func seeded() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.Seed("loss_reasons",
		store.Row{"id": "r2", "company_id": "acme", "reason": "Sem orçamento"},
		store.Row{"id": "r1", "company_id": "acme", "reason": "Preço alto"},
		store.Row{"id": "r3", "company_id": "other", "reason": "Concorrente"},
	)
	return s
}

func TestStoreSourceOptionsScopedAndOrdered(t *testing.T) {
	source := NewStoreSource(seeded(), nil)

	options, err := source.Options(context.Background(), "acme", model.ConnectionLossReasons, "")
	require.NoError(t, err)
	assert.Equal(t, []Option{
		{ID: "r1", Label: "Preço alto"},
		{ID: "r2", Label: "Sem orçamento"},
	}, options)
}

func TestStoreSourceSearch(t *testing.T) {
	source := NewStoreSource(seeded(), nil)

	options, err := source.Options(context.Background(), "acme", model.ConnectionLossReasons, "ORÇA")
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "r2", options[0].ID)
}

func TestStoreSourceCapsResults(t *testing.T) {
	s := store.NewMemoryStore()
	for i := 0; i < MaxOptions+20; i++ {
		s.Seed("leads", store.Row{"id": i, "company_id": "acme", "name": "Lead"})
	}
	options, err := NewStoreSource(s, nil).Options(context.Background(), "acme", model.ConnectionLeads, "")
	require.NoError(t, err)
	assert.Len(t, options, MaxOptions)
}

func TestStoreSourceUnknownList(t *testing.T) {
	_, err := NewStoreSource(store.NewMemoryStore(), nil).Options(context.Background(), "acme", "invoices", "")
	assert.ErrorIs(t, err, ErrUnknownList)
}

func TestStoreSourceCreate(t *testing.T) {
	s := store.NewMemoryStore()
	source := NewStoreSource(s, nil)

	_, err := source.Create(context.Background(), "acme", model.ConnectionOrigins, "   ")
	assert.ErrorIs(t, err, ErrEmptyLabel)

	created, err := source.Create(context.Background(), "acme", model.ConnectionOrigins, " Indicação ")
	require.NoError(t, err)
	assert.Equal(t, "Indicação", created.Label)

	options, err := source.Options(context.Background(), "acme", model.ConnectionOrigins, "")
	require.NoError(t, err)
	assert.Equal(t, []Option{created}, options)
}

func TestFilter(t *testing.T) {
	options := []Option{{ID: "1", Label: "Maria"}, {ID: "2", Label: "Mário"}, {ID: "3", Label: "Ana"}}
	assert.Equal(t, options[:2], Filter(options, "MAR"))
	assert.Equal(t, options, Filter(options, " "))
}
