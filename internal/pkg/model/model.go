// Package model holds the records exchanged with the host building model and
// the interfaces adapters implement to read from and write back to it.
package model

import "context"

// Fixture is a lighting fixture. Empty identifiers are unassigned in the
// model and a nil load is read as zero.
type Fixture struct {
	ElementID    int64    `json:"ElementID"`
	Panel        string   `json:"Panel"`
	Circuit      string   `json:"Circuit"`
	SwitchID     string   `json:"SwitchID"`
	ApparentLoad *float64 `json:"ApparentLoad"`
}

// Component is a nested sub-element of an electrical fixture, either the
// dock station or one of the output channels.
type Component struct {
	ElementID    int64    `json:"ElementID"`
	Name         string   `json:"Name"`
	Panel        string   `json:"Panel"`
	Circuit      string   `json:"Circuit"`
	SwitchID     string   `json:"SwitchID"`
	Voltage      *float64 `json:"Voltage,omitempty"`
	Poles        *float64 `json:"Poles,omitempty"`
	ApparentLoad *float64 `json:"ApparentLoad,omitempty"`
}

// Element is an electrical fixture placed in the model.
type Element struct {
	ElementID  int64       `json:"ElementID"`
	Family     string      `json:"Family"`
	Space      string      `json:"Space"`
	Room       string      `json:"Room"`
	Components []Component `json:"Components"`
}

// Document is everything a validation run reads from the model.
type Document struct {
	Path     string    `json:"Path"`
	Fixtures []Fixture `json:"Fixtures"`
	Elements []Element `json:"Elements"`
}

// Resolution is the set of values written back onto one device element.
// Loads stay in the model's internal units.
type Resolution struct {
	ElementID int64      `json:"ElementID"`
	Location  string     `json:"Location"`
	DeviceID  string     `json:"DeviceID"`
	SwitchIDs string     `json:"SwitchIDs"`
	Circuit   string     `json:"Circuit"`
	Panel     string     `json:"Panel"`
	Voltage   float64    `json:"Voltage"`
	Poles     float64    `json:"Poles"`
	Loads     [3]float64 `json:"Loads"`
}

// Source reads a model document.
type Source interface {
	Load(ctx context.Context) (Document, error)
}

// Sink writes resolved device values back in a single batch.
type Sink interface {
	WriteBack(ctx context.Context, resolutions []Resolution) error
}

// Value dereferences an optional model number.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v, for building records in code.
func Float(v float64) *float64 {
	return &v
}
