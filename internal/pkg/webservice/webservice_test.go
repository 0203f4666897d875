package webservice

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/ohowland/beyond_core/internal/pkg/engine"
	"github.com/ohowland/beyond_core/internal/pkg/model"
	"github.com/ohowland/beyond_core/internal/pkg/units"
)

func makeRouter() *mux.Router {
	app := NewApp(engine.New(engine.Options{Units: units.SI{}}, zap.NewNop()), zap.NewNop())
	return app.Router()
}

func document() model.Document {
	components := []model.Component{{
		Name: "Beyond.Base", Panel: "P1", Circuit: "C1",
		Voltage: model.Float(127), Poles: model.Float(1), ApparentLoad: model.Float(60),
	}}
	for _, s := range []string{"S1", "S2", "S3"} {
		components = append(components, model.Component{
			Name: "Saída", Panel: "P1", Circuit: "C1", SwitchID: s,
		})
	}
	return model.Document{
		Fixtures: []model.Fixture{
			{Panel: "P1", Circuit: "C1", SwitchID: "S1", ApparentLoad: model.Float(40)},
			{Panel: "P1", Circuit: "C1", SwitchID: "S2", ApparentLoad: model.Float(15)},
			{Panel: "P1", Circuit: "C1", SwitchID: "S3", ApparentLoad: model.Float(25)},
		},
		Elements: []model.Element{
			{ElementID: 501, Family: "ONE.White", Space: "Cozinha", Components: components},
		},
	}
}

func postValidate(t *testing.T, router *mux.Router, doc model.Document) RunResponse {
	body, err := json.Marshal(doc)
	assert.NilError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "http://example.com/validate", bytes.NewBuffer(body))
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code, "post returned 201")
	assert.Equal(t, "application/json; charset=UTF-8", w.Result().Header.Get("Content-Type"))

	resp := RunResponse{}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseGet(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	makeRouter().ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidatePost(t *testing.T) {
	resp := postValidate(t, makeRouter(), document())

	assert.Assert(t, resp.PID != uuid.Nil)
	assert.Equal(t, resp.Summary.Working, 1)
	assert.Assert(t, is.Len(resp.Resolutions, 1))

	res := resp.Resolutions[0]
	assert.Equal(t, res.DeviceID, "BDO1")
	assert.Equal(t, res.Location, "Cozinha")
	assert.Equal(t, res.Loads, [3]float64{40, 15, 25})
}

func TestValidateMalformedBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "http://example.com/validate", strings.NewReader("{"))
	makeRouter().ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunGet(t *testing.T) {
	router := makeRouter()
	posted := postValidate(t, router, document())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/runs/"+posted.PID.String(), nil)
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	got := RunResponse{}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.DeepEqual(t, got, posted)
}

func TestRunGetUnknown(t *testing.T) {
	pid, err := uuid.NewUUID()
	assert.NilError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/runs/"+pid.String(), nil)
	makeRouter().ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunGetMalformedPID(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/runs/not-a-uuid", nil)
	makeRouter().ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportGet(t *testing.T) {
	router := makeRouter()
	posted := postValidate(t, router, document())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/runs/"+posted.PID.String()+"/report", nil)
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=UTF-8", w.Result().Header.Get("Content-Type"))
	assert.Equal(t, w.Body.String(), posted.Summary.Report)
	assert.Assert(t, is.Contains(w.Body.String(), "BDO1 - Id 501"))
}

func TestValidateBodyTooLarge(t *testing.T) {
	app := NewApp(engine.New(engine.Options{Units: units.SI{}}, zap.NewNop()), zap.NewNop())
	app.maxBody = 16

	body, err := json.Marshal(document())
	assert.NilError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "http://example.com/validate", bytes.NewBuffer(body))
	app.Router().ServeHTTP(w, r)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRunsEvictOldest(t *testing.T) {
	app := NewApp(engine.New(engine.Options{Units: units.SI{}}, zap.NewNop()), zap.NewNop())
	app.maxRuns = 2
	router := app.Router()

	first := postValidate(t, router, document())
	postValidate(t, router, document())
	last := postValidate(t, router, document())
	assert.Equal(t, len(app.runs), 2)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://example.com/runs/"+first.PID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://example.com/runs/"+last.PID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
