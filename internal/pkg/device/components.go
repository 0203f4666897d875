package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ohowland/beyond_core/internal/pkg/load"
	"github.com/ohowland/beyond_core/internal/pkg/model"
)

// Name prefixes of the nested sub-elements a device is built from.
const (
	DockStationPrefix   = "Beyond.Base"
	OutputChannelPrefix = "Saída"
)

var (
	ErrMissingDockStation   = errors.New("missing dock station")
	ErrMissingOutputChannel = errors.New("missing output channel")
)

// DockStation is the shared supply connector of a device. Voltage and
// ApparentLoad are in the model's internal units.
type DockStation struct {
	Name         string
	Panel        load.Identity
	Circuit      load.Identity
	Voltage      float64
	Poles        float64
	ApparentLoad float64
}

// OutputChannel is one switched output of a device. ApparentLoad starts at
// zero and is assigned from the aggregated fixture loads.
type OutputChannel struct {
	Name         string
	Panel        load.Identity
	Circuit      load.Identity
	SwitchGroup  load.Identity
	ApparentLoad float64
}

// Key returns the channel's own (panel, circuit, switch group) identity.
func (c OutputChannel) Key() load.Key {
	return load.Key{Panel: c.Panel, Circuit: c.Circuit, SwitchGroup: c.SwitchGroup}
}

func (c OutputChannel) String() string {
	return c.Name
}

// Components selects the dock station and the three output channels from
// an element's nested sub-elements, in model order.
func Components(el model.Element) (DockStation, [3]OutputChannel, error) {
	var dock *DockStation
	var channels [3]OutputChannel
	n := 0

	for _, c := range el.Components {
		switch {
		case dock == nil && strings.HasPrefix(c.Name, DockStationPrefix):
			dock = &DockStation{
				Name:         c.Name,
				Panel:        load.Parse(c.Panel),
				Circuit:      load.Parse(c.Circuit),
				Voltage:      model.Value(c.Voltage),
				Poles:        model.Value(c.Poles),
				ApparentLoad: model.Value(c.ApparentLoad),
			}
		case n < len(channels) && strings.HasPrefix(c.Name, OutputChannelPrefix):
			channels[n] = OutputChannel{
				Name:        c.Name,
				Panel:       load.Parse(c.Panel),
				Circuit:     load.Parse(c.Circuit),
				SwitchGroup: load.Parse(c.SwitchID),
			}
			n++
		}
	}

	if dock == nil {
		return DockStation{}, channels, fmt.Errorf("element %d: %w", el.ElementID, ErrMissingDockStation)
	}
	if n < len(channels) {
		return DockStation{}, channels, fmt.Errorf("element %d: %w (found %d of %d)",
			el.ElementID, ErrMissingOutputChannel, n, len(channels))
	}
	return *dock, channels, nil
}

// Locate returns the space name, else the room name, of an element.
func Locate(el model.Element) string {
	if el.Space != "" {
		return el.Space
	}
	if el.Room != "" {
		return el.Room
	}
	return LocationNotAssigned
}
