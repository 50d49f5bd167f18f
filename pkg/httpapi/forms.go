package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/export"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/openapi"
	"github.com/goliatone/go-crmforms/pkg/render"
)

// document loads a form with the field library of its context. An empty
// companyID finds the form by id alone.
func (a *API) document(ctx context.Context, companyID, formID string) (render.Document, error) {
	form, err := a.Repos.Forms.Get(ctx, companyID, formID)
	if err != nil {
		return render.Document{}, err
	}
	fields, err := a.Repos.Fields.List(ctx, form.CompanyID, form.Context)
	if err != nil {
		return render.Document{}, fmt.Errorf("httpapi: load fields of %s: %w", formID, err)
	}
	return render.Document{
		Form:      form,
		Fields:    fields,
		SubmitURL: a.PublicURL + openapi.SubmitPath(form.ID),
	}, nil
}

// renderOptions reads the locale and theme from the query and relays the
// tracking parameters as hidden inputs.
func (a *API) renderOptions(r *http.Request) render.RenderOptions {
	query := r.URL.Query()
	opts := render.RenderOptions{
		Locale:     query.Get("locale"),
		Translator: a.Translator,
		Theme:      query.Get("theme"),
		Variant:    query.Get("variant"),
	}
	for key, values := range query {
		if render.IsTrackingKey(key) && len(values) > 0 {
			if opts.Hidden == nil {
				opts.Hidden = map[string]string{}
			}
			opts.Hidden[key] = values[0]
		}
	}
	return opts
}

func (a *API) listForms(w http.ResponseWriter, r *http.Request) {
	forms, err := a.Repos.Forms.List(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		a.fail(w, r, err, "forms not found")
		return
	}
	data(w, http.StatusOK, forms)
}

func (a *API) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := a.Repos.Forms.Get(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	data(w, http.StatusOK, form)
}

func (a *API) putForm(w http.ResponseWriter, r *http.Request) {
	var form composition.Form
	if err := decodeJSON(r, &form); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := model.ParseFormContext(string(form.Context)); !ok {
		Error(w, http.StatusBadRequest, "unknown context "+string(form.Context))
		return
	}
	for i, item := range form.Items {
		if !item.Division && strings.TrimSpace(item.FieldID) == "" {
			Error(w, http.StatusBadRequest, fmt.Sprintf("item %d has no field", i))
			return
		}
	}
	form.ID = chi.URLParam(r, "form")
	form.CompanyID = chi.URLParam(r, "company")
	saved, err := a.Repos.Forms.Save(r.Context(), form)
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	data(w, http.StatusOK, saved)
}

func (a *API) deleteForm(w http.ResponseWriter, r *http.Request) {
	if err := a.Repos.Forms.Delete(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "form")); err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) preview(w http.ResponseWriter, r *http.Request) {
	doc, err := a.document(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	if a.Renderers == nil {
		Error(w, http.StatusServiceUnavailable, "preview not configured")
		return
	}
	body, contentType, err := a.Renderers.Render(r.Context(), "preview", doc, a.renderOptions(r))
	if err != nil {
		a.fail(w, r, err, "renderer not found")
		return
	}
	a.Metrics.Render("preview")
	writeBody(w, contentType, body)
}

// publicForm serves the standalone document the iframe snippet points at.
func (a *API) publicForm(w http.ResponseWriter, r *http.Request) {
	doc, err := a.document(r.Context(), "", chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	body, err := a.Export.Standalone(r.Context(), doc, a.renderOptions(r))
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.Metrics.Render(a.Export.Name())
	writeBody(w, a.Export.ContentType(), body)
}

func (a *API) exportStandalone(w http.ResponseWriter, r *http.Request) {
	doc, err := a.document(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	body, err := a.Export.Standalone(r.Context(), doc, a.renderOptions(r))
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.Metrics.Export("standalone")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="form-%s.html"`, doc.Form.ID))
	writeBody(w, a.Export.ContentType(), body)
}

func (a *API) exportIframe(w http.ResponseWriter, r *http.Request) {
	form, err := a.Repos.Forms.Get(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	snippet := export.IframeSnippet(export.IframeOptions{
		FormID: form.ID,
		URL:    a.PublicURL + "/f/" + form.ID,
		Title:  form.Title,
	})
	a.Metrics.Export("iframe")
	writeBody(w, "text/html; charset=utf-8", []byte(snippet))
}

func (a *API) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := a.document(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	spec, err := openapi.Build(r.Context(), doc,
		openapi.WithConnections(a.Connections),
		openapi.WithServerURL(a.PublicURL),
		openapi.WithLogger(a.logger),
	)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.Metrics.Export("openapi")
	JSON(w, http.StatusOK, spec)
}
