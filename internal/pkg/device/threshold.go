package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohowland/beyond_core/internal/pkg/units"
)

// checkChannel evaluates each condition independently and appends a single
// issue, prefixed by the channel name, when any of them trips.
func (d *Device) checkChannel(c OutputChannel, conv units.Converter, limits Limits) {
	watts := conv.Watts(c.ApparentLoad)
	var found []string

	if c.SwitchGroup.IsNull() {
		found = append(found, UnassignedSwitch)
	}
	if !c.SwitchGroup.IsNull() && watts == 0 {
		found = append(found, fmt.Sprintf("ID(%s) carga nula", c.SwitchGroup))
	}
	if watts > limits.ChannelVA {
		found = append(found, fmt.Sprintf("ID(%s) %sVA", c.SwitchGroup, formatWatts(watts)))
	}

	if len(found) == 0 {
		return
	}
	d.issues = append(d.issues, c.Name+" "+strings.Join(found, " "))
}

// checkDockStation tests the zero and over-capacity conditions independently.
func (d *Device) checkDockStation(conv units.Converter, limits Limits) {
	watts := conv.Watts(d.dock.ApparentLoad)
	if watts == 0 {
		d.issues = append(d.issues, DockStationNoLoad)
	}
	if watts > limits.DockStationVA {
		d.issues = append(d.issues, DockStationOverload)
	}
}

func formatWatts(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
