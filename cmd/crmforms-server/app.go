package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/internal/config"
	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/events"
	"github.com/goliatone/go-crmforms/pkg/export"
	"github.com/goliatone/go-crmforms/pkg/httpapi"
	"github.com/goliatone/go-crmforms/pkg/metrics"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/renderers/preview"
	"github.com/goliatone/go-crmforms/pkg/session"
	"github.com/goliatone/go-crmforms/pkg/store"
	"github.com/goliatone/go-crmforms/pkg/submission"
)

// app is the wired server. Close releases the store and the publisher.
type app struct {
	Handler http.Handler
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }

func openStore(ctx context.Context, cfg config.Database) (store.Store, io.Closer, error) {
	if cfg.Store != config.StorePostgres {
		return store.NewMemoryStore(), nil, nil
	}
	gs, err := store.OpenPostgres(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gs.DB().DB()
	if err != nil {
		return nil, nil, fmt.Errorf("store: %w", err)
	}
	if err := gs.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return gs, sqlDB, nil
}

func build(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{}
	backing, closer, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaEnabled() {
		kafka, err := events.NewKafkaPublisher(events.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: cfg.Kafka.ClientID,
		}, logger.WithField("component", "events"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, closerFunc(kafka.Close))
		publisher = kafka
	}

	recorder := metrics.New()
	source := connections.NewStoreSource(backing, logger.WithField("component", "connections"))
	looker := cep.NewClient(
		cep.WithBaseURL(cfg.CEP.BaseURL),
		cep.WithTimeout(cfg.CEP.Timeout),
		cep.WithObserver(recorder.CEPLookup),
		cep.WithLogger(logger.WithField("component", "cep")),
	)
	publicURL := strings.TrimRight(cfg.HTTP.PublicURL, "/")
	translator := render.DefaultCatalog()

	generator := export.New(
		export.WithConnections(source),
		export.WithTranslator(translator),
		export.WithLogger(logger.WithField("component", "export")),
	)
	previewer, err := preview.New(
		preview.WithExportGenerator(generator),
		preview.WithConnections(source),
		preview.WithTranslator(translator),
		preview.WithLogger(logger.WithField("component", "preview")),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	registry, err := render.NewRegistry(previewer, generator)
	if err != nil {
		a.Close()
		return nil, err
	}

	submissions := submission.NewHandler(
		submission.WithPublisher(publisher),
		submission.WithConnections(source),
		submission.WithTranslator(translator, cfg.Locale),
		submission.WithObserver(recorder.Submission),
		submission.WithLogger(logger.WithField("component", "submission")),
	)

	api := httpapi.New(httpapi.Deps{
		Repos:       session.NewRepositories(backing),
		Submissions: submissions,
		Renderers:   registry,
		Export:      generator,
		Connections: source,
		CEP:         looker,
		Metrics:     recorder,
		Translator:  translator,
		PublicURL:   publicURL,
		Logger:      logger.WithField("component", "httpapi"),
	})
	a.Handler = api.Router()
	return a, nil
}
