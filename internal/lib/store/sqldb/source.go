package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/model"
)

// Load reads fixtures, elements and their components in the order they were
// imported.
func (h *Handler) Load(ctx context.Context) (model.Document, error) {
	doc := model.Document{}

	fixtures, err := h.loadFixtures(ctx)
	if err != nil {
		return doc, fmt.Errorf("load fixtures: %w", err)
	}
	doc.Fixtures = fixtures

	elements, err := h.loadElements(ctx)
	if err != nil {
		return doc, fmt.Errorf("load elements: %w", err)
	}
	doc.Elements = elements

	h.logger.Debug("model loaded",
		zap.Int("fixtures", len(doc.Fixtures)),
		zap.Int("elements", len(doc.Elements)))
	return doc, nil
}

func (h *Handler) loadFixtures(ctx context.Context) ([]model.Fixture, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT element_id, panel, circuit, switch_id, apparent_load FROM fixtures ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Fixture
	for rows.Next() {
		var f model.Fixture
		var panel, circuit, switchID sql.NullString
		var load sql.NullFloat64
		if err := rows.Scan(&f.ElementID, &panel, &circuit, &switchID, &load); err != nil {
			return nil, err
		}
		f.Panel, f.Circuit, f.SwitchID = panel.String, circuit.String, switchID.String
		f.ApparentLoad = floatPtr(load)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (h *Handler) loadElements(ctx context.Context) ([]model.Element, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT element_id, family, space_name, room_name FROM elements ORDER BY seq`)
	if err != nil {
		return nil, err
	}

	var out []model.Element
	index := make(map[int64]int)
	for rows.Next() {
		var el model.Element
		var family, space, room sql.NullString
		if err := rows.Scan(&el.ElementID, &family, &space, &room); err != nil {
			rows.Close()
			return nil, err
		}
		el.Family, el.Space, el.Room = family.String, space.String, room.String
		index[el.ElementID] = len(out)
		out = append(out, el)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = h.db.QueryContext(ctx,
		`SELECT parent_id, element_id, name, panel, circuit, switch_id, voltage, poles, apparent_load
		FROM components ORDER BY parent_id, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var parent int64
		var c model.Component
		var name, panel, circuit, switchID sql.NullString
		var voltage, poles, load sql.NullFloat64
		if err := rows.Scan(&parent, &c.ElementID, &name, &panel, &circuit, &switchID, &voltage, &poles, &load); err != nil {
			return nil, err
		}
		i, ok := index[parent]
		if !ok {
			h.logger.Warn("orphan component", zap.Int64("element", c.ElementID), zap.Int64("parent", parent))
			continue
		}
		c.Name, c.Panel, c.Circuit, c.SwitchID = name.String, panel.String, circuit.String, switchID.String
		c.Voltage, c.Poles, c.ApparentLoad = floatPtr(voltage), floatPtr(poles), floatPtr(load)
		out[i].Components = append(out[i].Components, c)
	}
	return out, rows.Err()
}

// Import replaces the stored model with doc in one transaction. Document
// order is kept in a seq column so Load returns the same order.
func (h *Handler) Import(ctx context.Context, doc model.Document) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"fixtures", "components", "elements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for seq, f := range doc.Fixtures {
		_, err := tx.ExecContext(ctx, h.rebind(
			`INSERT INTO fixtures (seq, element_id, panel, circuit, switch_id, apparent_load) VALUES (?, ?, ?, ?, ?, ?)`),
			seq, f.ElementID, nullString(f.Panel), nullString(f.Circuit), nullString(f.SwitchID), nullFloat(f.ApparentLoad))
		if err != nil {
			return fmt.Errorf("import fixture %d (element %d): %w", seq, f.ElementID, err)
		}
	}

	for i, el := range doc.Elements {
		_, err := tx.ExecContext(ctx, h.rebind(
			`INSERT INTO elements (element_id, seq, family, space_name, room_name) VALUES (?, ?, ?, ?, ?)`),
			el.ElementID, i, nullString(el.Family), nullString(el.Space), nullString(el.Room))
		if err != nil {
			return fmt.Errorf("import element %d: %w", el.ElementID, err)
		}
		for seq, c := range el.Components {
			_, err := tx.ExecContext(ctx, h.rebind(
				`INSERT INTO components (element_id, parent_id, seq, name, panel, circuit, switch_id, voltage, poles, apparent_load)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				c.ElementID, el.ElementID, seq, nullString(c.Name), nullString(c.Panel), nullString(c.Circuit),
				nullString(c.SwitchID), nullFloat(c.Voltage), nullFloat(c.Poles), nullFloat(c.ApparentLoad))
			if err != nil {
				return fmt.Errorf("import component %d: %w", c.ElementID, err)
			}
		}
	}
	return tx.Commit()
}
