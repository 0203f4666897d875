package device

import (
	"strconv"

	"github.com/ohowland/beyond_core/internal/pkg/model"
)

// Registry creates the devices of one validation run and numbers them in
// creation order. Use a new Registry per run.
type Registry struct {
	count   int
	devices []*Device
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create builds a device from a model element. An element missing its dock
// station or any of its three output channels is rejected and does not
// consume an identifier.
func (r *Registry) Create(el model.Element) (*Device, error) {
	dock, channels, err := Components(el)
	if err != nil {
		return nil, err
	}

	r.count++
	d := &Device{
		id:        FormatID(r.count),
		elementID: el.ElementID,
		location:  Locate(el),
		dock:      dock,
		channels:  channels,
		stage:     Created,
	}
	r.devices = append(r.devices, d)
	return d, nil
}

// Devices returns the devices created so far, in creation order.
func (r *Registry) Devices() []*Device {
	return r.devices
}

// Len returns the number of devices created.
func (r *Registry) Len() int {
	return r.count
}

// FormatID returns the identifier of the nth device, counting from 1.
func FormatID(n int) string {
	if n <= 9 {
		return "BDO" + strconv.Itoa(n)
	}
	return "BD" + strconv.Itoa(n)
}
