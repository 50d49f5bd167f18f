package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/internal/config"
	"github.com/goliatone/go-crmforms/internal/fixture"
	"github.com/goliatone/go-crmforms/internal/logging"
	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/export"
	"github.com/goliatone/go-crmforms/pkg/openapi"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/renderers/preview"
	"github.com/goliatone/go-crmforms/pkg/renderers/tui"
)

// Modes.
const (
	modeExport  = "export"
	modeIframe  = "iframe"
	modePreview = "preview"
	modeOpenAPI = "openapi"
	modeFill    = "fill"
)

type options struct {
	fixture   string
	mode      string
	output    string
	publicURL string
	locale    string
	format    string
	lookupCEP bool
	timeout   time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.fixture, "fields", "examples/fixtures/lead.yaml", "YAML file with the field library, layout and style")
	flag.StringVar(&opts.mode, "mode", modeExport, "export, iframe, preview, openapi or fill")
	flag.StringVar(&opts.output, "output", "", "output file (stdout when empty)")
	flag.StringVar(&opts.publicURL, "public-url", "http://localhost:8080", "base URL of the public form routes")
	flag.StringVar(&opts.locale, "locale", "", "UI locale")
	flag.StringVar(&opts.format, "format", string(tui.OutputFormatJSON), "fill output: json, form or pretty")
	flag.BoolVar(&opts.lookupCEP, "cep", false, "look up addresses while filling")
	flag.DurationVar(&opts.timeout, "timeout", 15*time.Second, "timeout for non-interactive modes")
	flag.Parse()

	logger, err := logging.New(config.Log{Level: "warn", Format: config.FormatText})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := run(context.Background(), opts, logger)
	if err != nil {
		logger.WithError(err).Fatal("crmforms-cli")
	}
	if opts.output == "" {
		_, _ = os.Stdout.Write(out)
		if opts.mode != modeFill {
			fmt.Println()
		}
		return
	}
	if err := writeFile(opts.output, out); err != nil {
		logger.WithError(err).Fatal("write output")
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(out), opts.output)
}

func run(ctx context.Context, opts options, logger logrus.FieldLogger) ([]byte, error) {
	fx, err := fixture.Load(opts.fixture)
	if err != nil {
		return nil, err
	}
	if opts.mode != modeFill {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	mem, err := fx.Store(ctx)
	if err != nil {
		return nil, err
	}
	source := connections.NewStoreSource(mem, logger)
	doc := fx.Document(opts.publicURL + openapi.SubmitPath(fx.Form.ID))
	renderOpts := render.RenderOptions{Locale: opts.locale}
	generator := export.New(export.WithConnections(source), export.WithLogger(logger))

	switch opts.mode {
	case modeExport:
		return generator.Render(ctx, doc, renderOpts)
	case modeIframe:
		return []byte(export.IframeSnippet(export.IframeOptions{
			FormID: fx.Form.ID,
			URL:    opts.publicURL + "/f/" + fx.Form.ID,
			Title:  doc.Title(fx.Form.ID),
		})), nil
	case modePreview:
		renderer, err := preview.New(
			preview.WithExportGenerator(generator),
			preview.WithConnections(source),
			preview.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return renderer.Render(ctx, doc, renderOpts)
	case modeOpenAPI:
		spec, err := openapi.Build(ctx, doc,
			openapi.WithConnections(source),
			openapi.WithServerURL(opts.publicURL),
			openapi.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(spec, "", "  ")
	case modeFill:
		tuiOpts := []tui.Option{
			tui.WithOutputFormat(tui.OutputFormat(opts.format)),
			tui.WithConnections(source, fx.Company),
			tui.WithLogger(logger),
		}
		if opts.lookupCEP {
			tuiOpts = append(tuiOpts, tui.WithCEP(cep.NewClient(cep.WithLogger(logger))))
		}
		return tui.New(tuiOpts...).Render(ctx, doc, renderOpts)
	default:
		return nil, errors.New("unknown mode " + opts.mode)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
