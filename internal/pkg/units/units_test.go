package units

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestRevitConversion(t *testing.T) {
	r := Revit{}
	assert.Equal(t, r.Watts(ToInternal(110)), 110.0)
	assert.Equal(t, r.Watts(ToInternal(99.6)), 100.0)
	assert.Equal(t, r.Volts(ToInternal(127)), 127.0)
	assert.Equal(t, r.Watts(0), 0.0)
}

func TestRoundHalfEven(t *testing.T) {
	s := SI{}
	assert.Equal(t, s.Watts(2.5), 2.0)
	assert.Equal(t, s.Watts(3.5), 4.0)
	assert.Equal(t, s.Volts(219.6), 220.0)
}

func TestNew(t *testing.T) {
	c, err := New("")
	assert.NilError(t, err)
	assert.Equal(t, c, Converter(Revit{}))

	c, err = New("si")
	assert.NilError(t, err)
	assert.Equal(t, c, Converter(SI{}))

	_, err = New("imperial")
	assert.Assert(t, errors.Is(err, ErrUnknownUnits))
}
