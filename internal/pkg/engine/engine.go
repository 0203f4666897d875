// Package engine runs a validation over a model document: it aggregates
// fixture loads, builds and validates the devices, renders the report and
// hands the resolved values to the write-back sink.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/config"
	"github.com/ohowland/beyond_core/internal/pkg/device"
	"github.com/ohowland/beyond_core/internal/pkg/load"
	"github.com/ohowland/beyond_core/internal/pkg/model"
	"github.com/ohowland/beyond_core/internal/pkg/report"
	"github.com/ohowland/beyond_core/internal/pkg/units"
)

// Options tune a validation.
type Options struct {
	Families []string
	Limits   device.Limits
	Units    units.Converter
}

// OptionsFromConfig builds Options from a configuration document.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	conv, err := units.New(cfg.Units)
	if err != nil {
		return Options{}, err
	}
	return Options{Families: cfg.Families, Limits: cfg.Limits, Units: conv}, nil
}

// ReportWriter persists the rendered report.
type ReportWriter interface {
	Write(message string) error
}

// Publisher broadcasts a run summary.
type Publisher interface {
	Publish(Summary) error
}

// Engine validates model documents. It holds no state between runs.
type Engine struct {
	opts     Options
	families map[string]bool
	logger   *zap.Logger
}

// New returns an Engine. Zero options fall back to the default families,
// limits and unit system.
func New(opts Options, logger *zap.Logger) *Engine {
	if len(opts.Families) == 0 {
		opts.Families = config.DefaultFamilies
	}
	opts.Limits = opts.Limits.WithDefaults()
	if opts.Units == nil {
		opts.Units = units.Revit{}
	}

	families := make(map[string]bool, len(opts.Families))
	for _, f := range opts.Families {
		families[f] = true
	}
	return &Engine{opts: opts, families: families, logger: logger.Named("engine")}
}

// Run is the outcome of one validation.
type Run struct {
	PID         uuid.UUID
	Table       load.Table
	Devices     []*device.Device
	Dropped     []error
	Resolutions []model.Resolution
	Report      string
}

// Validate computes a run from doc without side effects. Devices is nil when
// no element of the document belongs to a device family.
func (e *Engine) Validate(doc model.Document) (Run, error) {
	pid, err := uuid.NewUUID()
	if err != nil {
		return Run{}, err
	}

	run := Run{PID: pid, Table: load.Aggregate(fixtures(doc.Fixtures))}
	e.logger.Debug("aggregated fixture loads",
		zap.String("pid", pid.String()),
		zap.Int("fixtures", len(doc.Fixtures)),
		zap.Int("groups", run.Table.Len()))

	candidates := e.candidates(doc.Elements)
	if candidates == nil {
		run.Report = report.Build(nil)
		e.logger.Info("no device families in model", zap.String("pid", pid.String()))
		return run, nil
	}

	registry := device.NewRegistry()
	for _, el := range candidates {
		d, err := registry.Create(el)
		if err != nil {
			e.logger.Warn("dropping device", zap.Int64("element", el.ElementID), zap.Error(err))
			run.Dropped = append(run.Dropped, err)
			continue
		}
		if err := d.Validate(run.Table, e.opts.Units, e.opts.Limits); err != nil {
			return Run{}, fmt.Errorf("validate %v: %w", d, err)
		}
	}

	run.Devices = make([]*device.Device, 0, registry.Len())
	run.Devices = append(run.Devices, registry.Devices()...)
	run.Resolutions = Resolutions(run.Devices)
	run.Report = report.Build(run.Devices)

	summary := run.Summary()
	e.logger.Info("validation complete",
		zap.String("pid", pid.String()),
		zap.Int("working", summary.Working),
		zap.Int("faulty", summary.Faulty),
		zap.Int("dropped", summary.Dropped))
	return run, nil
}

// Execute loads the document from src, validates it, writes the resolved
// values to sink in one batch, appends the report to log and publishes the
// summary. The report is logged even when write-back fails. sink, log and
// pub may be nil.
func (e *Engine) Execute(ctx context.Context, src model.Source, sink model.Sink, log ReportWriter, pub Publisher) (Run, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("load model: %w", err)
	}

	run, err := e.Validate(doc)
	if err != nil {
		return Run{}, err
	}

	var writeErr error
	if sink != nil && len(run.Resolutions) > 0 {
		if writeErr = sink.WriteBack(ctx, run.Resolutions); writeErr != nil {
			writeErr = fmt.Errorf("write back: %w", writeErr)
			e.logger.Error("write back failed", zap.String("pid", run.PID.String()), zap.Error(writeErr))
		}
	}

	if log != nil {
		if err := log.Write(run.Report); err != nil {
			e.logger.Error("report log failed", zap.Error(err))
			if writeErr == nil {
				writeErr = fmt.Errorf("write report: %w", err)
			}
		}
	}

	if pub != nil {
		if err := pub.Publish(run.Summary()); err != nil {
			e.logger.Warn("publish summary failed", zap.Error(err))
		}
	}
	return run, writeErr
}

// candidates returns the elements whose family is a device family, or nil
// if there are none.
func (e *Engine) candidates(elements []model.Element) []model.Element {
	var out []model.Element
	for _, el := range elements {
		if e.families[el.Family] {
			out = append(out, el)
		}
	}
	return out
}

func fixtures(records []model.Fixture) []load.Fixture {
	out := make([]load.Fixture, len(records))
	for i, f := range records {
		out[i] = load.Fixture{
			Key:          load.NewKey(f.Panel, f.Circuit, f.SwitchID),
			ApparentLoad: model.Value(f.ApparentLoad),
		}
	}
	return out
}
