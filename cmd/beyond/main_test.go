package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/ohowland/beyond_core/internal/lib/store/modelfile"
	"github.com/ohowland/beyond_core/internal/pkg/config"
	"github.com/ohowland/beyond_core/internal/pkg/model"
	"github.com/ohowland/beyond_core/internal/pkg/report"
)

func writeModel(t *testing.T) string {
	t.Helper()
	components := []model.Component{{
		Name: "Beyond.Base", Panel: "QD1", Circuit: "3",
		Voltage: model.Float(220), Poles: model.Float(2), ApparentLoad: model.Float(80),
	}}
	for _, s := range []string{"a", "b", "c"} {
		components = append(components, model.Component{Name: "Saída", Panel: "QD1", Circuit: "3", SwitchID: s})
	}
	doc := model.Document{
		Fixtures: []model.Fixture{
			{Panel: "QD1", Circuit: "3", SwitchID: "a", ApparentLoad: model.Float(30)},
			{Panel: "QD1", Circuit: "3", SwitchID: "b", ApparentLoad: model.Float(120)},
		},
		Elements: []model.Element{
			{ElementID: 77, Family: "POWER.Black", Room: "Quarto", Components: components},
		},
	}

	body, err := json.Marshal(doc)
	assert.NilError(t, err)
	path := filepath.Join(t.TempDir(), "casa.json")
	assert.NilError(t, os.WriteFile(path, body, 0644))
	return path
}

func TestRunnerFileRoundTrip(t *testing.T) {
	logger = zap.NewNop()
	path := writeModel(t)

	cfg, err := config.Parse([]byte(`{"Units": "si", "Sink": {"Kind": "file"}}`))
	assert.NilError(t, err)
	cfg.Source.Path = path

	ctx := context.Background()
	r, err := newRunner(ctx, cfg, logger)
	assert.NilError(t, err)
	defer r.Close(ctx)

	run, err := r.engine.Execute(ctx, r.source, r.sink, r.reports, r.publisher)
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(run.Report, "BDO1 - Id 77 - Saída ID(b) 120VA"))

	resolved, err := modelfile.ReadResolutions(modelfile.New(path).ResolvedPath())
	assert.NilError(t, err)
	assert.Assert(t, is.Len(resolved, 1))
	assert.Equal(t, resolved[0].Location, "Quarto")
	assert.Equal(t, resolved[0].Loads, [3]float64{30, 120, 0})

	logged, err := os.ReadFile(report.LogPath(path, ""))
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(string(logged), run.Report))
}

func TestRunnerNoModel(t *testing.T) {
	cfg, err := config.Parse([]byte(`{}`))
	assert.NilError(t, err)

	_, err = newRunner(context.Background(), cfg, zap.NewNop())
	assert.Assert(t, errors.Is(err, errNoModel))
}

func TestLogPath(t *testing.T) {
	cfg, err := config.Parse([]byte(`{"Source": {"Kind": "sql"}}`))
	assert.NilError(t, err)
	assert.Equal(t, logPath(cfg), report.DefaultLogName)

	cfg.LogPath = "/var/log/beyond.txt"
	assert.Equal(t, logPath(cfg), "/var/log/beyond.txt")
}

type failingWriter struct{ calls *int }

func (w failingWriter) Write(string) error {
	*w.calls++
	return errors.New("disk full")
}

func TestReportWritersContinueAfterError(t *testing.T) {
	calls := 0
	ws := reportWriters{failingWriter{&calls}, failingWriter{&calls}}
	assert.ErrorContains(t, ws.Write("relatório"), "disk full")
	assert.Equal(t, calls, 2)
}

func TestValidateCommand(t *testing.T) {
	path := writeModel(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	assert.NilError(t, os.WriteFile(cfgPath, []byte(`{"Units": "si"}`), 0644))

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"validate", "--config", cfgPath, path})
	assert.NilError(t, rootCmd.Execute())
	assert.Assert(t, is.Contains(out.String(), "Dispositivo(s) com problemas de instalação elétrica no projeto:"))
}

func TestImportThenValidateFromSQL(t *testing.T) {
	path := writeModel(t)
	cfg, err := config.Parse([]byte(`{"Units": "si", "Source": {"Kind": "sql", "Driver": "sqlite"}}`))
	assert.NilError(t, err)
	cfg.Source.DSN = filepath.Join(t.TempDir(), "model.db")
	cfg.LogPath = filepath.Join(t.TempDir(), "beyond_log.txt")

	ctx := context.Background()
	assert.NilError(t, importModel(ctx, cfg, path, zap.NewNop()))

	r, err := newRunner(ctx, cfg, zap.NewNop())
	assert.NilError(t, err)
	defer r.Close(ctx)

	run, err := r.engine.Execute(ctx, r.source, r.sink, r.reports, r.publisher)
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(run.Report, "BDO1 - Id 77 - Saída ID(b) 120VA"))
}
