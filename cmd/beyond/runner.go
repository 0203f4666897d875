package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/lib/store/modelfile"
	"github.com/ohowland/beyond_core/internal/lib/store/mongodb"
	"github.com/ohowland/beyond_core/internal/lib/store/sqldb"
	"github.com/ohowland/beyond_core/internal/pkg/config"
	"github.com/ohowland/beyond_core/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/beyond_core/internal/pkg/engine"
	"github.com/ohowland/beyond_core/internal/pkg/model"
	"github.com/ohowland/beyond_core/internal/pkg/report"
)

var errNoModel = errors.New("no model file given")

// runner holds the adapters one validation is wired to.
type runner struct {
	engine    *engine.Engine
	source    model.Source
	sink      model.Sink
	reports   engine.ReportWriter
	publisher engine.Publisher

	closers []func(ctx context.Context) error
}

func newRunner(ctx context.Context, cfg config.Config, logger *zap.Logger) (*runner, error) {
	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	r := &runner{engine: engine.New(opts, logger)}

	if err := r.buildSource(cfg, logger); err != nil {
		r.Close(ctx)
		return nil, err
	}
	if err := r.buildSink(ctx, cfg, logger); err != nil {
		r.Close(ctx)
		return nil, err
	}

	if cfg.Nats.Server != "" {
		h, err := natshandler.New(natshandler.Config{Server: cfg.Nats.Server, Subject: cfg.Nats.Subject}, logger)
		if err != nil {
			r.Close(ctx)
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		r.publisher = h
		r.closers = append(r.closers, func(context.Context) error { h.Close(); return nil })
	}
	return r, nil
}

func (r *runner) buildSource(cfg config.Config, logger *zap.Logger) error {
	switch cfg.Source.Kind {
	case config.KindSQL:
		h, err := sqldb.New(sqldb.Config{Driver: cfg.Source.Driver, DSN: cfg.Source.DSN}, logger)
		if err != nil {
			return err
		}
		r.source = h
		r.closers = append(r.closers, func(context.Context) error { return h.Close() })
	default:
		if cfg.Source.Path == "" {
			return errNoModel
		}
		r.source = modelfile.New(cfg.Source.Path)
	}
	return nil
}

func (r *runner) buildSink(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logs := reportWriters{report.NewLogger(logPath(cfg))}

	switch cfg.Sink.Kind {
	case config.KindFile:
		path := cfg.Sink.Path
		if path == "" {
			path = cfg.Source.Path
		}
		r.sink = modelfile.New(path)
	case config.KindSQL:
		h, err := sqldb.New(sqldb.Config{Driver: cfg.Sink.Driver, DSN: cfg.Sink.DSN}, logger)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, func(context.Context) error { return h.Close() })
		if err := h.InitTables(ctx); err != nil {
			return err
		}
		r.sink = h
	case config.KindMongo:
		h, err := mongodb.New(ctx, mongodb.Config{URI: cfg.Sink.URI, Database: cfg.Sink.Database}, logger)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		r.closers = append(r.closers, h.Close)
		r.sink = h
		logs = append(logs, h)
	}

	r.reports = logs
	return nil
}

// Close releases every adapter, returning the first error.
func (r *runner) Close(ctx context.Context) error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// logPath is the configured report log, or the default log next to the
// model file.
func logPath(cfg config.Config) string {
	if cfg.LogPath != "" {
		return cfg.LogPath
	}
	if cfg.Source.Kind == config.KindFile && cfg.Source.Path != "" {
		return report.LogPath(cfg.Source.Path, "")
	}
	return report.DefaultLogName
}

// reportWriters writes every report to each writer in turn.
type reportWriters []engine.ReportWriter

func (ws reportWriters) Write(message string) error {
	var first error
	for _, w := range ws {
		if err := w.Write(message); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func importModel(ctx context.Context, cfg config.Config, path string, logger *zap.Logger) error {
	doc, err := modelfile.New(path).Load(ctx)
	if err != nil {
		return err
	}

	h, err := sqldb.New(sqldb.Config{Driver: cfg.Source.Driver, DSN: cfg.Source.DSN}, logger)
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.InitTables(ctx); err != nil {
		return err
	}
	if err := h.Import(ctx, doc); err != nil {
		return err
	}
	logger.Info("model imported",
		zap.String("path", path),
		zap.Int("fixtures", len(doc.Fixtures)),
		zap.Int("elements", len(doc.Elements)))
	return nil
}
