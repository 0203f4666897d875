package device

import "github.com/ohowland/beyond_core/internal/pkg/load"

func (d *Device) checkPanel() {
	var values [3]load.Identity
	for i, c := range d.channels {
		values[i] = c.Panel
	}
	d.panel = d.consistency(values, d.dock.Panel, PanelDivergent, PanelDisconnected)
}

func (d *Device) checkCircuit() {
	var values [3]load.Identity
	for i, c := range d.channels {
		values[i] = c.Circuit
	}
	d.circuit = d.consistency(values, d.dock.Circuit, CircuitDivergent, CircuitDisconnected)
}

// consistency compares the channel values of one field against the dock
// station. Divergence wins over disconnection.
func (d *Device) consistency(channels [3]load.Identity, dock load.Identity, divergentIssue, disconnectedIssue string) Resolved {
	for _, v := range channels {
		if v != dock {
			d.issues = append(d.issues, divergentIssue)
			return divergent()
		}
	}
	if dock.IsNull() {
		d.issues = append(d.issues, disconnectedIssue)
		return disconnected()
	}
	return resolvedTo(dock)
}
