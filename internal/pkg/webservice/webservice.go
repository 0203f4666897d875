package webservice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/engine"
	"github.com/ohowland/beyond_core/internal/pkg/model"
)

const (
	contentJSON = "application/json; charset=UTF-8"
	contentText = "text/plain; charset=UTF-8"

	// MaxBodyBytes bounds a posted model document.
	MaxBodyBytes = 32 << 20
	// MaxRuns is how many runs are retained; the oldest is evicted first.
	MaxRuns = 256
)

// RunResponse is the JSON form of a validation run.
type RunResponse struct {
	PID         uuid.UUID          `json:"PID"`
	Summary     engine.Summary     `json:"Summary"`
	Resolutions []model.Resolution `json:"Resolutions"`
}

// App serves validations over HTTP and keeps the most recent runs in
// memory. Runs do not survive a restart.
type App struct {
	engine *engine.Engine
	logger *zap.Logger

	maxBody int64
	maxRuns int

	mux   *sync.Mutex
	runs  map[uuid.UUID]RunResponse
	order []uuid.UUID
}

func NewApp(e *engine.Engine, logger *zap.Logger) *App {
	return &App{
		engine:  e,
		logger:  logger.Named("webservice"),
		maxBody: MaxBodyBytes,
		maxRuns: MaxRuns,
		mux:     &sync.Mutex{},
		runs:    make(map[uuid.UUID]RunResponse),
	}
}

func (app *App) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", app.BaseHandler).Methods("GET")
	r.HandleFunc("/validate", app.ValidateHandler).Methods("POST")
	r.HandleFunc("/runs/{pid}", app.RunHandler).Methods("GET")
	r.HandleFunc("/runs/{pid}/report", app.ReportHandler).Methods("GET")
	return r
}

func (app *App) BaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(http.StatusOK)
}

// ValidateHandler runs a validation over the posted model document.
func (app *App) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentJSON)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, app.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			app.logger.Info("request body too large", zap.Int64("limit", tooLarge.Limit))
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	doc := model.Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		app.logger.Info("malformed JSON", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	run, err := app.engine.Validate(doc)
	if err != nil {
		app.logger.Error("validation failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := RunResponse{PID: run.PID, Summary: run.Summary(), Resolutions: run.Resolutions}
	app.store(resp)
	app.writeJSON(w, http.StatusCreated, resp)
}

func (app *App) RunHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentJSON)
	resp, status := app.lookup(r)
	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	app.writeJSON(w, http.StatusOK, resp)
}

func (app *App) ReportHandler(w http.ResponseWriter, r *http.Request) {
	resp, status := app.lookup(r)
	if status != http.StatusOK {
		w.Header().Set("Content-Type", contentJSON)
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", contentText)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, resp.Summary.Report)
}

// store retains resp, evicting the oldest runs beyond maxRuns.
func (app *App) store(resp RunResponse) {
	app.mux.Lock()
	defer app.mux.Unlock()

	app.runs[resp.PID] = resp
	app.order = append(app.order, resp.PID)
	for len(app.order) > app.maxRuns {
		delete(app.runs, app.order[0])
		app.order = app.order[1:]
	}
}

func (app *App) lookup(r *http.Request) (RunResponse, int) {
	pid, err := uuid.Parse(mux.Vars(r)["pid"])
	if err != nil {
		app.logger.Info("malformed UUID", zap.Error(err))
		return RunResponse{}, http.StatusBadRequest
	}

	app.mux.Lock()
	defer app.mux.Unlock()
	resp, ok := app.runs[pid]
	if !ok {
		return RunResponse{}, http.StatusNotFound
	}
	return resp, http.StatusOK
}

func (app *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		app.logger.Error("malformed JSON", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		app.logger.Warn("write response", zap.Error(err))
	}
}
