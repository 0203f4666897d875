package device

import (
	"errors"
	"testing"

	"github.com/ohowland/beyond_core/internal/pkg/model"
	"gotest.tools/v3/assert"
)

func TestFormatID(t *testing.T) {
	assert.Equal(t, FormatID(1), "BDO1")
	assert.Equal(t, FormatID(3), "BDO3")
	assert.Equal(t, FormatID(9), "BDO9")
	assert.Equal(t, FormatID(10), "BD10")
	assert.Equal(t, FormatID(12), "BD12")
}

func TestRegistrySequence(t *testing.T) {
	r := NewRegistry()
	w := wiring{"P1", "C1", "S1"}
	for i := 0; i < 12; i++ {
		_, err := r.Create(newElement(int64(i), w, w, w, w))
		assert.NilError(t, err)
	}

	devices := r.Devices()
	assert.Equal(t, r.Len(), 12)
	assert.Equal(t, devices[2].ID(), "BDO3")
	assert.Equal(t, devices[11].ID(), "BD12")
	assert.Equal(t, devices[11].ElementID(), int64(11))
	assert.Equal(t, devices[0].Stage(), Created)

	// A fresh registry starts counting again.
	d, err := NewRegistry().Create(newElement(99, w, w, w, w))
	assert.NilError(t, err)
	assert.Equal(t, d.ID(), "BDO1")
}

func TestCreateMissingComponents(t *testing.T) {
	r := NewRegistry()
	w := wiring{"P1", "C1", "S1"}

	el := newElement(7, w, w, w)
	_, err := r.Create(el)
	assert.Assert(t, errors.Is(err, ErrMissingOutputChannel))
	assert.ErrorContains(t, err, "element 7")

	el = newElement(8, w, w, w, w)
	el.Components = el.Components[1:]
	_, err = r.Create(el)
	assert.Assert(t, errors.Is(err, ErrMissingDockStation))

	// Rejected elements do not consume an identifier.
	d, err := r.Create(newElement(9, w, w, w, w))
	assert.NilError(t, err)
	assert.Equal(t, d.ID(), "BDO1")
	assert.Equal(t, r.Len(), 1)
}

func TestComponentsSelection(t *testing.T) {
	el := model.Element{ElementID: 1, Components: []model.Component{
		{Name: "Saída A", SwitchID: "S1"},
		{Name: "Espelho"},
		{Name: "Beyond.Base.ONE", Panel: "P1"},
		{Name: "Saída B", SwitchID: "S2"},
		{Name: "Beyond.Base.Extra", Panel: "P9"},
		{Name: "Saída C", SwitchID: "S3"},
		{Name: "Saída D", SwitchID: "S4"},
	}}

	dock, channels, err := Components(el)
	assert.NilError(t, err)
	assert.Equal(t, dock.Name, "Beyond.Base.ONE")
	assert.Equal(t, channels[0].Name, "Saída A")
	assert.Equal(t, channels[2].Name, "Saída C")
	assert.Equal(t, channels[2].String(), "Saída C")
}

func TestLocate(t *testing.T) {
	assert.Equal(t, Locate(model.Element{Space: "Cozinha", Room: "Sala"}), "Cozinha")
	assert.Equal(t, Locate(model.Element{Room: "Sala"}), "Sala")
	assert.Equal(t, Locate(model.Element{}), LocationNotAssigned)
}
