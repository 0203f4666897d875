// Package mongodb writes resolved device values and reports to MongoDB.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/model"
)

const (
	resolutionCollection = "resolutions"
	reportCollection     = "reports"
	writeTimeout         = 10 * time.Second
)

type Config struct {
	URI      string `json:"URI"`
	Database string `json:"Database"`
}

// Handler is a model.Sink and report writer backed by a MongoDB database.
type Handler struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
	logger *zap.Logger
}

// New connects to the server at cfg.URI.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Handler, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	return &Handler{
		client: client,
		db:     client.Database(cfg.Database),
		now:    time.Now,
		logger: logger.Named("mongodb"),
	}, nil
}

func (h *Handler) Close(ctx context.Context) error {
	return h.client.Disconnect(ctx)
}

// WriteBack upserts one document per device element in a single ordered
// bulk write. Ordered writes stop at the first failure.
func (h *Handler) WriteBack(ctx context.Context, resolutions []model.Resolution) error {
	if len(resolutions) == 0 {
		return nil
	}
	opts := options.BulkWrite().SetOrdered(true)
	res, err := h.db.Collection(resolutionCollection).BulkWrite(ctx, writeModels(resolutions, h.now()), opts)
	if err != nil {
		return err
	}
	h.logger.Info("resolutions written",
		zap.Int64("upserted", res.UpsertedCount),
		zap.Int64("modified", res.ModifiedCount))
	return nil
}

func writeModels(resolutions []model.Resolution, at time.Time) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(resolutions))
	for _, r := range resolutions {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"element_id": r.ElementID}).
			SetReplacement(resolutionDocument(r, at)).
			SetUpsert(true))
	}
	return models
}

func resolutionDocument(r model.Resolution, at time.Time) bson.M {
	return bson.M{
		"element_id": r.ElementID,
		"location":   r.Location,
		"device_id":  r.DeviceID,
		"switch_ids": r.SwitchIDs,
		"circuit":    r.Circuit,
		"panel":      r.Panel,
		"voltage":    r.Voltage,
		"poles":      r.Poles,
		"loads":      bson.A{r.Loads[0], r.Loads[1], r.Loads[2]},
		"updated_at": at,
	}
}

// Write archives a rendered report.
func (h *Handler) Write(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := h.db.Collection(reportCollection).InsertOne(ctx, bson.M{
		"created_at": h.now(),
		"report":     message,
	})
	return err
}
