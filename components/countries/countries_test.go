package countries

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

func serve(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, handlerResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var payload handlerResponse
	if method == http.MethodGet && rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, payload
}

func values(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}

func TestHandlerEmptyQueryListsBrazilFirst(t *testing.T) {
	rec, payload := serve(t, Handler(WithDefaultLimit(3)), http.MethodGet, "/countries")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if diff := cmp.Diff([]string{"BR", "US", "CA"}, values(payload.Data)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	first := payload.Data[0]
	if first.DialCode != "+55" || first.Mask != "(##) ####-####" || first.Label != "Brasil" {
		t.Fatalf("unexpected first option: %#v", first)
	}
}

func TestHandlerSearch(t *testing.T) {
	cases := map[string][]string{
		"/countries?q=ar":   {"AR", "PY"},
		"/countries?q=%2B1": {"CA", "US"},
		"/countries?q=zz":   {},
		"/countries?q=it":   {"IT", "GB", "US"},
		"/countries?q=bra":  {"BR"},
	}
	for target, want := range cases {
		_, payload := serve(t, Handler(), http.MethodGet, target)
		if payload.Data == nil {
			t.Fatalf("%s: expected data array", target)
		}
		if diff := cmp.Diff(want, values(payload.Data)); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", target, diff)
		}
	}
}

func TestHandlerClampsLimit(t *testing.T) {
	_, payload := serve(t, Handler(WithMaxLimit(2)), http.MethodGet, "/countries?limit=50")
	if len(payload.Data) != 2 {
		t.Fatalf("expected 2 options, got %d", len(payload.Data))
	}
}

func TestHandlerMethodsAndGuard(t *testing.T) {
	rec, _ := serve(t, Handler(), http.MethodPost, "/countries")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") == "" {
		t.Fatalf("expected 405 with Allow, got %d", rec.Code)
	}

	rec, _ = serve(t, Handler(), http.MethodHead, "/countries")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for HEAD, got %d %q", rec.Code, rec.Body.String())
	}

	guarded := Handler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login")}
	}))
	rec, _ = serve(t, guarded, http.MethodGet, "/countries")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterRoutes(t *testing.T) {
	if got := MountPath("api/"); got != "/api/countries" {
		t.Fatalf("unexpected mount path %q", got)
	}
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/api", WithRoutePath("phone-regions"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/api/phone-regions" {
		t.Fatalf("unexpected pattern %q", pattern)
	}
	rec, _ := serve(t, mux, http.MethodGet, pattern+"?q=pt")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
