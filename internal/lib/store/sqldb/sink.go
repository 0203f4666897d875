package sqldb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/model"
)

// WriteBack replaces the resolution rows of every device in a single
// transaction. Nothing is written if any row fails.
func (h *Handler) WriteBack(ctx context.Context, resolutions []model.Resolution) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	del, err := tx.PrepareContext(ctx, h.rebind(`DELETE FROM resolutions WHERE element_id = ?`))
	if err != nil {
		return err
	}
	defer del.Close()

	ins, err := tx.PrepareContext(ctx, h.rebind(
		`INSERT INTO resolutions (element_id, location, device_id, switch_ids, circuit, panel, voltage, poles, load_1, load_2, load_3)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer ins.Close()

	for _, r := range resolutions {
		if _, err := del.ExecContext(ctx, r.ElementID); err != nil {
			return fmt.Errorf("element %d: %w", r.ElementID, err)
		}
		_, err := ins.ExecContext(ctx, r.ElementID, r.Location, r.DeviceID, r.SwitchIDs, r.Circuit, r.Panel,
			r.Voltage, r.Poles, r.Loads[0], r.Loads[1], r.Loads[2])
		if err != nil {
			return fmt.Errorf("element %d: %w", r.ElementID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	h.logger.Info("resolutions written", zap.Int("devices", len(resolutions)))
	return nil
}

// Resolutions reads back the stored resolution rows in element id order.
func (h *Handler) Resolutions(ctx context.Context) ([]model.Resolution, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT element_id, location, device_id, switch_ids, circuit, panel, voltage, poles, load_1, load_2, load_3
		FROM resolutions ORDER BY element_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Resolution
	for rows.Next() {
		var r model.Resolution
		err := rows.Scan(&r.ElementID, &r.Location, &r.DeviceID, &r.SwitchIDs, &r.Circuit, &r.Panel,
			&r.Voltage, &r.Poles, &r.Loads[0], &r.Loads[1], &r.Loads[2])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
