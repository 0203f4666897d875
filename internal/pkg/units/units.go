// Package units converts model-internal electrical values into physical units.
package units

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownUnits is returned by New for an unsupported unit system.
var ErrUnknownUnits = errors.New("unknown unit system")

// revitScale is the factor between SI power/potential and the host model's
// internal (foot based) representation.
const revitScale = 10.76391041670972

// Converter turns internal values into whole watts and volts.
type Converter interface {
	Watts(internal float64) float64
	Volts(internal float64) float64
}

// Revit converts from the host model's internal units.
type Revit struct{}

// Watts returns the internal apparent load in whole watts.
func (Revit) Watts(internal float64) float64 {
	return round(internal / revitScale)
}

// Volts returns the internal potential in whole volts.
func (Revit) Volts(internal float64) float64 {
	return round(internal / revitScale)
}

// SI is used when the model already stores watts and volts.
type SI struct{}

func (SI) Watts(internal float64) float64 { return round(internal) }
func (SI) Volts(internal float64) float64 { return round(internal) }

// ToInternal is the inverse of Revit.Watts without rounding.
func ToInternal(watts float64) float64 {
	return watts * revitScale
}

// New returns the Converter for a configured unit system name.
func New(system string) (Converter, error) {
	switch system {
	case "", "revit":
		return Revit{}, nil
	case "si":
		return SI{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnits, system)
	}
}

// round rounds half to even, the way the host scripting runtime does.
func round(v float64) float64 {
	return math.RoundToEven(v)
}
