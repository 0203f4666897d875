// Package device models a composite device (one dock station and three
// switched output channels) and runs the per-device validation pipeline.
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ohowland/beyond_core/internal/pkg/load"
	"github.com/ohowland/beyond_core/internal/pkg/units"
)

// ErrAlreadyValidated is returned when Validate runs twice on one device.
var ErrAlreadyValidated = errors.New("device already validated")

// Stage is a step of the validation pipeline. A device passes through every
// stage exactly once, in order.
type Stage int

const (
	Created Stage = iota
	PanelChecked
	CircuitChecked
	GroupingResolved
	LoadsAssigned
	ThresholdsChecked
	Finalized
)

func (s Stage) String() string {
	switch s {
	case Created:
		return "Created"
	case PanelChecked:
		return "PanelChecked"
	case CircuitChecked:
		return "CircuitChecked"
	case GroupingResolved:
		return "GroupingResolved"
	case LoadsAssigned:
		return "LoadsAssigned"
	case ThresholdsChecked:
		return "ThresholdsChecked"
	case Finalized:
		return "Finalized"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Limits are the capacity thresholds, in watts.
type Limits struct {
	ChannelVA     float64 `json:"ChannelVA"`
	DockStationVA float64 `json:"DockStationVA"`
}

// DefaultLimits is the rated capacity of a device output and its supply.
var DefaultLimits = Limits{ChannelVA: 100, DockStationVA: 100}

// WithDefaults returns l with each zero threshold replaced by its default.
func (l Limits) WithDefaults() Limits {
	if l.ChannelVA == 0 {
		l.ChannelVA = DefaultLimits.ChannelVA
	}
	if l.DockStationVA == 0 {
		l.DockStationVA = DefaultLimits.DockStationVA
	}
	return l
}

// Device is a composite device under validation.
type Device struct {
	id        string
	elementID int64
	location  string
	dock      DockStation
	channels  [3]OutputChannel

	panel     Resolved
	circuit   Resolved
	switchIDs string
	voltage   float64
	issues    []string
	hasIssue  bool
	stage     Stage
}

// ID is the sequential device identifier assigned by the Registry.
func (d *Device) ID() string { return d.id }

// ElementID is the model element the device was read from.
func (d *Device) ElementID() int64 { return d.elementID }

// Location is the space or room the device is installed in.
func (d *Device) Location() string { return d.location }

// DockStation returns the device's supply connector.
func (d *Device) DockStation() DockStation { return d.dock }

// Channel returns output channel n, numbered 1 to 3.
func (d *Device) Channel(n int) OutputChannel { return d.channels[n-1] }

// Channels returns the three output channels.
func (d *Device) Channels() [3]OutputChannel { return d.channels }

// Panel returns the resolved distribution panel.
func (d *Device) Panel() Resolved { return d.panel }

// Circuit returns the resolved circuit.
func (d *Device) Circuit() Resolved { return d.circuit }

// SwitchIDs returns the channel switch identities formatted as "[a, Nulo, c]".
func (d *Device) SwitchIDs() string { return d.switchIDs }

// Voltage returns the dock station voltage in volts.
func (d *Device) Voltage() float64 { return d.voltage }

// Poles returns the dock station pole count.
func (d *Device) Poles() float64 { return d.dock.Poles }

// Issues returns the issues found, in the order they were found.
func (d *Device) Issues() []string { return d.issues }

// HasIssue reports whether any issue was found. It is only meaningful once
// the device is Finalized.
func (d *Device) HasIssue() bool { return d.hasIssue }

// Stage returns the pipeline stage the device has reached.
func (d *Device) Stage() Stage { return d.stage }

func (d *Device) String() string {
	return fmt.Sprintf("%s - Id %d", d.id, d.elementID)
}

// Validate runs the pipeline: connector consistency, switch grouping, load
// assignment, threshold checks and the fault flag.
func (d *Device) Validate(table load.Table, conv units.Converter, limits Limits) error {
	if d.stage != Created {
		return fmt.Errorf("%v: %w (stage %v)", d, ErrAlreadyValidated, d.stage)
	}

	d.checkPanel()
	d.stage = PanelChecked

	d.checkCircuit()
	d.stage = CircuitChecked

	d.switchIDs = groupSwitchIDs(d.channels)
	d.voltage = conv.Volts(d.dock.Voltage)
	d.stage = GroupingResolved

	for i := range d.channels {
		assign(&d.channels[i], table)
	}
	d.stage = LoadsAssigned

	d.checkDockStation(conv, limits)
	for i := range d.channels {
		d.checkChannel(d.channels[i], conv, limits)
	}
	d.stage = ThresholdsChecked

	d.hasIssue = len(d.issues) > 0
	d.stage = Finalized
	return nil
}

func groupSwitchIDs(channels [3]OutputChannel) string {
	ids := make([]string, len(channels))
	for i, c := range channels {
		ids[i] = c.SwitchGroup.String()
	}
	return "[" + strings.Join(ids, ", ") + "]"
}
