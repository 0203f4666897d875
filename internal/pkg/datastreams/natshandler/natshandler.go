package natshandler

import (
	"encoding/json"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/engine"
)

type Config struct {
	Server  string `json:"Server"`
	Subject string `json:"Subject"`
}

// Handler publishes validation run summaries to a NATS subject.
type Handler struct {
	pid     uuid.UUID
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Handler, error) {
	server := cfg.Server
	if server == "" {
		server = nats.DefaultURL
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}

	nc, err := nats.Connect(server, nats.Name("beyond-"+pid.String()))
	if err != nil {
		return nil, err
	}

	return &Handler{
		pid:     pid,
		nc:      nc,
		subject: cfg.Subject,
		logger:  logger.Named("natshandler"),
	}, nil
}

func (h *Handler) PID() uuid.UUID {
	return h.pid
}

// Publish sends the summary as JSON on the configured subject and flushes.
func (h *Handler) Publish(s engine.Summary) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := h.nc.Publish(h.subject, data); err != nil {
		return err
	}
	h.logger.Debug("summary published", zap.String("subject", h.subject), zap.String("run", s.PID.String()))
	return h.nc.Flush()
}

func (h *Handler) Close() {
	h.nc.Close()
}

func encode(s engine.Summary) ([]byte, error) {
	return json.Marshal(s)
}
