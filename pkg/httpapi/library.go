package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/style"
)

func formContext(w http.ResponseWriter, r *http.Request) (model.FormContext, bool) {
	raw := chi.URLParam(r, "context")
	fc, ok := model.ParseFormContext(raw)
	if !ok {
		Error(w, http.StatusBadRequest, "unknown context "+raw)
		return "", false
	}
	return fc, true
}

func records(companyID string, fc model.FormContext, fields []model.Field) []model.Record {
	out := make([]model.Record, 0, len(fields))
	for _, f := range fields {
		out = append(out, model.RecordFromField(companyID, fc, f))
	}
	return out
}

// decodeField reads a flat record from the body and checks the parts every
// field needs.
func decodeField(w http.ResponseWriter, r *http.Request) (model.Field, bool) {
	var record model.Record
	if err := decodeJSON(r, &record); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return model.Field{}, false
	}
	if strings.TrimSpace(record.Name) == "" {
		Error(w, http.StatusBadRequest, "name is required")
		return model.Field{}, false
	}
	if _, ok := model.ParseFieldType(record.Type); !ok {
		Error(w, http.StatusBadRequest, "unknown field type "+record.Type)
		return model.Field{}, false
	}
	record.Name = strings.TrimSpace(record.Name)
	return model.FieldFromRecord(record), true
}

func (a *API) listFields(w http.ResponseWriter, r *http.Request) {
	fc, ok := formContext(w, r)
	if !ok {
		return
	}
	company := chi.URLParam(r, "company")
	fields, err := a.Repos.Fields.List(r.Context(), company, fc)
	if err != nil {
		a.fail(w, r, err, "fields not found")
		return
	}
	data(w, http.StatusOK, records(company, fc, fields))
}

func (a *API) createField(w http.ResponseWriter, r *http.Request) {
	fc, ok := formContext(w, r)
	if !ok {
		return
	}
	f, ok := decodeField(w, r)
	if !ok {
		return
	}
	company := chi.URLParam(r, "company")
	f.ID = ""
	created, err := a.Repos.Fields.Create(r.Context(), company, fc, f)
	if err != nil {
		a.fail(w, r, err, "field not found")
		return
	}
	data(w, http.StatusCreated, model.RecordFromField(company, fc, created))
}

func (a *API) getField(w http.ResponseWriter, r *http.Request) {
	fc, ok := formContext(w, r)
	if !ok {
		return
	}
	company := chi.URLParam(r, "company")
	f, err := a.Repos.Fields.Get(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, "field not found")
		return
	}
	data(w, http.StatusOK, model.RecordFromField(company, fc, f))
}

func (a *API) updateField(w http.ResponseWriter, r *http.Request) {
	fc, ok := formContext(w, r)
	if !ok {
		return
	}
	f, ok := decodeField(w, r)
	if !ok {
		return
	}
	company := chi.URLParam(r, "company")
	f.ID = chi.URLParam(r, "id")
	updated, err := a.Repos.Fields.Update(r.Context(), company, fc, f)
	if err != nil {
		a.fail(w, r, err, "field not found")
		return
	}
	data(w, http.StatusOK, model.RecordFromField(company, fc, updated))
}

func (a *API) deleteField(w http.ResponseWriter, r *http.Request) {
	if _, ok := formContext(w, r); !ok {
		return
	}
	if err := a.Repos.Fields.Delete(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, "field not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) getStyle(w http.ResponseWriter, r *http.Request) {
	fc, ok := formContext(w, r)
	if !ok {
		return
	}
	cfg, err := a.Repos.Styles.Get(r.Context(), chi.URLParam(r, "company"), fc)
	if err != nil {
		a.fail(w, r, err, "style not found")
		return
	}
	data(w, http.StatusOK, cfg)
}

// putStyle replaces the style. Omitted keys keep their default values.
func (a *API) putStyle(w http.ResponseWriter, r *http.Request) {
	fc, ok := formContext(w, r)
	if !ok {
		return
	}
	cfg := style.Default()
	if err := decodeJSON(r, &cfg); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg = cfg.Normalize()
	if err := a.Repos.Styles.Save(r.Context(), chi.URLParam(r, "company"), fc, cfg); err != nil {
		a.fail(w, r, err, "style not found")
		return
	}
	data(w, http.StatusOK, cfg)
}
