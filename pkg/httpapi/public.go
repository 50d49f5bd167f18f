package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// submit accepts url-encoded, multipart and JSON bodies. Field errors are
// answered with 422 and the messages keyed by sender.
func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	doc, err := a.document(r.Context(), "", chi.URLParam(r, "form"))
	if err != nil {
		a.fail(w, r, err, "form not found")
		return
	}
	values, err := submittedValues(w, r)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.Submissions.Submit(r.Context(), doc.Form, doc.Fields, values)
	if err != nil {
		a.logger.WithError(err).WithField("form", doc.Form.ID).Error("httpapi: submission not delivered")
		Error(w, http.StatusBadGateway, "submission could not be delivered")
		return
	}
	if !result.Accepted {
		JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"accepted": false,
			"errors":   result.Errors,
		})
		return
	}

	body := map[string]any{
		"accepted":     true,
		"event_id":     result.EventID,
		"disqualified": result.Disqualified,
	}
	if redirect := doc.Style().RedirectURL; redirect != "" {
		body["redirect_url"] = redirect
	}
	JSON(w, http.StatusOK, body)
}

func submittedValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var payload map[string]any
		if err := decodeJSON(r, &payload); err != nil {
			return nil, err
		}
		values := url.Values{}
		flattenJSON(values, "", payload)
		return values, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
}

// flattenJSON maps a JSON body onto the keys a browser form would post:
// nested objects become key[part] and arrays repeat the key.
func flattenJSON(values url.Values, key string, v any) {
	switch value := v.(type) {
	case map[string]any:
		for k, nested := range value {
			name := k
			if key != "" {
				name = key + "[" + k + "]"
			}
			flattenJSON(values, name, nested)
		}
	case []any:
		for _, item := range value {
			flattenJSON(values, key, item)
		}
	case nil:
	case string:
		values.Add(key, value)
	case bool:
		values.Add(key, strconv.FormatBool(value))
	case float64:
		values.Add(key, strconv.FormatFloat(value, 'f', -1, 64))
	default:
		values.Add(key, fmt.Sprint(value))
	}
}

func (a *API) lookupCEP(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "cep")
	if !validation.IsCompleteCEP(raw) {
		Error(w, http.StatusBadRequest, "cep must have 8 digits")
		return
	}
	if a.CEP == nil {
		Error(w, http.StatusServiceUnavailable, "cep lookup not configured")
		return
	}
	address := a.CEP.Lookup(r.Context(), raw)
	if address == nil {
		Error(w, http.StatusNotFound, "cep not found")
		return
	}
	JSON(w, http.StatusOK, address)
}

func connectionList(w http.ResponseWriter, r *http.Request) (model.ConnectionList, bool) {
	raw := chi.URLParam(r, "list")
	list, ok := model.ParseConnectionList(raw)
	if !ok {
		Error(w, http.StatusBadRequest, "unknown list "+raw)
		return "", false
	}
	return list, true
}

func (a *API) listConnections(w http.ResponseWriter, r *http.Request) {
	list, ok := connectionList(w, r)
	if !ok {
		return
	}
	if a.Connections == nil {
		Error(w, http.StatusServiceUnavailable, "connections not configured")
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	options, err := a.Connections.Options(r.Context(), chi.URLParam(r, "company"), list, search)
	if err != nil {
		if errors.Is(err, connections.ErrUnknownList) {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		a.fail(w, r, err, "list not found")
		return
	}
	data(w, http.StatusOK, options)
}

func (a *API) createConnection(w http.ResponseWriter, r *http.Request) {
	list, ok := connectionList(w, r)
	if !ok {
		return
	}
	creator, ok := a.Connections.(connections.Creator)
	if !ok {
		Error(w, http.StatusMethodNotAllowed, "list does not accept new records")
		return
	}
	var payload struct {
		Label string `json:"label"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	option, err := creator.Create(r.Context(), chi.URLParam(r, "company"), list, payload.Label)
	if err != nil {
		if errors.Is(err, connections.ErrEmptyLabel) || errors.Is(err, connections.ErrUnknownList) {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		a.fail(w, r, err, "list not found")
		return
	}
	data(w, http.StatusCreated, option)
}
