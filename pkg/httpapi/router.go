// Package httpapi serves the field library, styles and forms of each
// company, the rendered previews and exports, and the public submission
// endpoint.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/components/countries"
	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/export"
	"github.com/goliatone/go-crmforms/pkg/metrics"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/session"
	"github.com/goliatone/go-crmforms/pkg/submission"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators the API is wired with. Repos is required; the
// rest fall back to defaults or disable their routes when nil.
type Deps struct {
	Repos       session.Repositories
	Submissions *submission.Handler
	// Renderers must hold a renderer named "preview" to serve previews.
	Renderers   *render.Registry
	Export      *export.Generator
	Connections connections.Source
	CEP         cep.Looker
	Metrics     *metrics.Recorder
	Translator  render.Translator
	// PublicURL prefixes the links handed to embedding pages.
	PublicURL string
	Logger    logrus.FieldLogger
}

// API holds the handlers.
type API struct {
	Deps
	logger logrus.FieldLogger
}

// New validates deps and fills defaults.
func New(deps Deps) *API {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if deps.Export == nil {
		deps.Export = export.New(export.WithLogger(logger), export.WithConnections(deps.Connections))
	}
	if deps.Submissions == nil {
		deps.Submissions = submission.NewHandler(
			submission.WithConnections(deps.Connections),
			submission.WithObserver(deps.Metrics.Submission),
			submission.WithLogger(logger),
		)
	}
	deps.PublicURL = strings.TrimRight(deps.PublicURL, "/")
	return &API{Deps: deps, logger: logger}
}

// Router mounts every route on a chi router.
func (a *API) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(a.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if a.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", a.Metrics.Handler())
	}

	router.Route("/companies/{company}", func(r chi.Router) {
		r.Route("/contexts/{context}", func(r chi.Router) {
			r.Get("/fields", a.listFields)
			r.Post("/fields", a.createField)
			r.Get("/fields/{id}", a.getField)
			r.Put("/fields/{id}", a.updateField)
			r.Delete("/fields/{id}", a.deleteField)
			r.Get("/style", a.getStyle)
			r.Put("/style", a.putStyle)
		})
		r.Get("/forms", a.listForms)
		r.Route("/forms/{form}", func(r chi.Router) {
			r.Get("/", a.getForm)
			r.Put("/", a.putForm)
			r.Delete("/", a.deleteForm)
			r.Get("/preview", a.preview)
			r.Get("/export/standalone", a.exportStandalone)
			r.Get("/export/iframe", a.exportIframe)
			r.Get("/openapi.json", a.openAPI)
		})
		r.Get("/connections/{list}", a.listConnections)
		r.Post("/connections/{list}", a.createConnection)
	})

	router.Get("/f/{form}", a.publicForm)
	router.Post("/f/{form}/submit", a.submit)
	router.Get("/cep/{cep}", a.lookupCEP)
	router.Handle("/countries", countries.Handler())
	return router
}

// requestLogger logs one line per request with logrus.
func requestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("httpapi: request")
		})
	}
}
