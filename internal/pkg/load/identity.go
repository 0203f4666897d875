package load

// Unassigned is the text an unassigned identity renders as in reports and
// written-back values.
const Unassigned = "Nulo"

// Identity is a panel, circuit or switch identifier read from the model.
// The zero value is an unassigned identity.
type Identity struct {
	value string
	known bool
}

// Known returns an assigned identity.
func Known(v string) Identity {
	return Identity{value: v, known: true}
}

// Null returns an unassigned identity.
func Null() Identity {
	return Identity{}
}

// Parse maps a raw model value onto an Identity. The model reports an
// unassigned parameter as an empty string.
func Parse(v string) Identity {
	if v == "" {
		return Null()
	}
	return Known(v)
}

// Value returns the identifier and whether it is assigned.
func (i Identity) Value() (string, bool) {
	return i.value, i.known
}

// IsNull reports whether the identity is unassigned.
func (i Identity) IsNull() bool {
	return !i.known
}

func (i Identity) String() string {
	if !i.known {
		return Unassigned
	}
	return i.value
}

// Key is the (panel, circuit, switch group) triple loads are grouped and
// matched by.
type Key struct {
	Panel       Identity
	Circuit     Identity
	SwitchGroup Identity
}

// NewKey builds a Key from raw model values.
func NewKey(panel, circuit, switchGroup string) Key {
	return Key{Parse(panel), Parse(circuit), Parse(switchGroup)}
}

// Routable reports whether every component of the key is assigned. Only
// routable keys take part in aggregation and lookup.
func (k Key) Routable() bool {
	return !k.Panel.IsNull() && !k.Circuit.IsNull() && !k.SwitchGroup.IsNull()
}

func (k Key) String() string {
	return "(" + k.Panel.String() + ", " + k.Circuit.String() + ", " + k.SwitchGroup.String() + ")"
}
