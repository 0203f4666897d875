package engine

import (
	"github.com/google/uuid"

	"github.com/ohowland/beyond_core/internal/pkg/device"
	"github.com/ohowland/beyond_core/internal/pkg/model"
)

// Summary is the broadcast form of a Run.
type Summary struct {
	PID     uuid.UUID       `json:"PID"`
	Working int             `json:"Working"`
	Faulty  int             `json:"Faulty"`
	Dropped int             `json:"Dropped"`
	Devices []DeviceSummary `json:"Devices"`
	Report  string          `json:"Report"`
}

// DeviceSummary lists the outcome for one device.
type DeviceSummary struct {
	DeviceID  string   `json:"DeviceID"`
	ElementID int64    `json:"ElementID"`
	Issues    []string `json:"Issues"`
}

// Summary counts the run's devices by fault status.
func (r Run) Summary() Summary {
	s := Summary{PID: r.PID, Dropped: len(r.Dropped), Report: r.Report}
	for _, d := range r.Devices {
		if d.HasIssue() {
			s.Faulty++
		} else {
			s.Working++
		}
		s.Devices = append(s.Devices, DeviceSummary{
			DeviceID:  d.ID(),
			ElementID: d.ElementID(),
			Issues:    d.Issues(),
		})
	}
	return s
}

// Resolutions maps validated devices onto the values written back to the
// model.
func Resolutions(devices []*device.Device) []model.Resolution {
	out := make([]model.Resolution, 0, len(devices))
	for _, d := range devices {
		var loads [3]float64
		for i, c := range d.Channels() {
			loads[i] = c.ApparentLoad
		}
		out = append(out, model.Resolution{
			ElementID: d.ElementID(),
			Location:  d.Location(),
			DeviceID:  d.ID(),
			SwitchIDs: d.SwitchIDs(),
			Circuit:   d.Circuit().Render(device.CircuitDivergent),
			Panel:     d.Panel().Render(device.PanelDivergent),
			Voltage:   d.Voltage(),
			Poles:     d.Poles(),
			Loads:     loads,
		})
	}
	return out
}
