package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/events"
	"github.com/goliatone/go-crmforms/pkg/model"
)

type originSource struct{}

func (originSource) Options(_ context.Context, _ string, list model.ConnectionList, _ string) ([]connections.Option, error) {
	if list != model.ConnectionOrigins {
		return nil, connections.ErrUnknownList
	}
	return []connections.Option{{ID: "o1", Label: "Google"}, {ID: "o2", Label: "Evento"}}, nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error { return errors.New("broker down") }

func leadForm() (composition.Form, []model.Field) {
	form := composition.Form{ID: "landing", CompanyID: "acme", Context: model.ContextLeads}
	fields := []model.Field{
		{ID: "f1", Name: "Nome", Type: model.FieldTypeName},
		{ID: "f2", Name: "CPF", Type: model.FieldTypeDocument, Config: model.DocumentConfig{Kind: model.DocumentCPF}},
		{ID: "f3", Name: "Telefone", Type: model.FieldTypePhone},
		{ID: "f4", Name: "Interesses", Type: model.FieldTypeCheckbox, Config: model.CheckboxConfig{Multiselect: true, Limit: 2, Options: "Casa,Apto,Terreno"}},
		{ID: "f5", Name: "Orçamento", Type: model.FieldTypeMoney, Config: model.MoneyConfig{Currency: model.CurrencyVariable}},
		{ID: "f6", Name: "Origem", Type: model.FieldTypeConnection, Config: model.ConnectionConfig{List: model.ConnectionOrigins}},
		{ID: "f7", Name: "Endereço", Type: model.FieldTypeAddress},
		{ID: "f8", Name: "Aceite", Type: model.FieldTypeCheckbox, Required: true},
		{ID: "f9", Name: "Prazo", Type: model.FieldTypeSlider, Config: model.SliderConfig{Limits: true, Min: 1, Max: 12}},
	}
	for _, f := range fields {
		form.AddField(f.ID)
	}
	required := true
	form.SetOverlay("f1", composition.Overlay{Required: &required})
	minimum := 1000.0
	form.SetOverlay("f5", composition.Overlay{Disqualify: &composition.Disqualify{Min: &minimum}})
	return form, fields
}

func validValues() url.Values {
	return url.Values{
		"nome":               {"maria souza"},
		"cpf":                {"529.982.247-25"},
		"telefone":           {"(11) 98765-4321"},
		"telefone_country":   {"BR"},
		"interesses":         {"Casa", "Apto"},
		"orcamento":          {"$ 500.00"},
		"orcamento_currency": {"USD"},
		"origem":             {"google"},
		"endereco[cep]":      {"01310100"},
		"endereco[number]":   {"1000"},
		"aceite":             {"on"},
		"prazo":              {"6"},
		"utm_source":         {"newsletter"},
		"cookie_gclid":       {"abc"},
		"unrelated":          {"x"},
	}
}

func TestSubmitAcceptsAndPublishes(t *testing.T) {
	form, fields := leadForm()
	recorder := &events.Recorder{}
	var outcomes []string
	h := NewHandler(
		WithPublisher(recorder),
		WithConnections(originSource{}),
		WithObserver(func(o string) { outcomes = append(outcomes, o) }),
	)

	result, err := h.Submit(context.Background(), form, fields, validValues())
	require.NoError(t, err)
	require.True(t, result.Accepted, "errors: %v", result.Errors)

	assert.Equal(t, "Maria Souza", result.Values["nome"])
	assert.Equal(t, "529.982.247-25", result.Values["cpf"])
	assert.Equal(t, "+55 (11) 98765-4321", result.Values["telefone"])
	assert.Equal(t, []string{"Casa", "Apto"}, result.Values["interesses"])
	assert.Equal(t, "$ 500.00", result.Values["orcamento"])
	assert.Equal(t, "o1", result.Values["origem"])
	assert.Equal(t, map[string]string{"cep": "01310-100", "number": "1000"}, result.Values["endereco"])
	assert.Equal(t, true, result.Values["aceite"])
	assert.Equal(t, 6.0, result.Values["prazo"])
	assert.Equal(t, map[string]string{"utm_source": "newsletter", "cookie_gclid": "abc"}, result.Extras)
	assert.Equal(t, []string{"orcamento"}, result.Disqualified)
	assert.NotContains(t, result.Values, "unrelated")
	assert.Equal(t, []string{OutcomeDisqualified}, outcomes)

	published := recorder.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeSubmissionReceived, published[0].Type)
	assert.Equal(t, result.EventID, published[0].ID)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Contains(t, payload, "values")
	assert.Contains(t, payload, "disqualified")
}

func TestSubmitReportsFieldErrors(t *testing.T) {
	form, fields := leadForm()
	recorder := &events.Recorder{}
	h := NewHandler(WithPublisher(recorder), WithConnections(originSource{}))

	values := validValues()
	values.Del("nome")
	values.Set("cpf", "111.111.111-11")
	values.Set("telefone", "123")
	values["interesses"] = []string{"Casa", "Apto", "Terreno"}
	values.Set("origem", "Rádio")
	values.Set("endereco[cep]", "0131")
	values.Del("aceite")
	values.Set("prazo", "20")

	result, err := h.Submit(context.Background(), form, fields, values)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Nil(t, result.Values)
	for _, sender := range []string{"nome", "cpf", "telefone", "interesses", "origem", "endereco", "aceite", "prazo"} {
		assert.Contains(t, result.Errors, sender)
	}
	assert.Equal(t, []string{"Campo obrigatório"}, result.Errors["nome"])
	assert.Equal(t, []string{"Escolha no máximo 2 opções"}, result.Errors["interesses"])
	assert.Empty(t, recorder.Events())

	var asErr error = result.Errors
	assert.Contains(t, asErr.Error(), "cpf: Valor inválido")
}

func TestSubmitRejectsUnknownOptions(t *testing.T) {
	form := composition.Form{ID: "f", CompanyID: "acme"}
	form.AddField("s")
	fields := []model.Field{{ID: "s", Name: "Tipo", Type: model.FieldTypeSelect, Config: model.SelectConfig{Options: "Casa,Apto"}}}
	h := NewHandler()

	result, err := h.Submit(context.Background(), form, fields, url.Values{"tipo": {"Castelo"}})
	require.NoError(t, err)
	assert.Contains(t, result.Errors, "tipo")

	result, err = h.Submit(context.Background(), form, fields, url.Values{"tipo": {"Casa", "Apto"}})
	require.NoError(t, err)
	assert.Contains(t, result.Errors, "tipo", "single select takes one value")

	result, err = h.Submit(context.Background(), form, fields, url.Values{"s": {"Apto"}})
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "Apto", result.Values["tipo"])
}

func TestSubmitWrapsPublishFailures(t *testing.T) {
	form, fields := leadForm()
	var outcomes []string
	h := NewHandler(
		WithPublisher(failingPublisher{}),
		WithObserver(func(o string) { outcomes = append(outcomes, o) }),
	)

	result, err := h.Submit(context.Background(), form, fields, validValues())
	require.Error(t, err)
	assert.True(t, result.Accepted)
	assert.Empty(t, result.EventID)
	assert.Equal(t, []string{OutcomeError}, outcomes)
}
