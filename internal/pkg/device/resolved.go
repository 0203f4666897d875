package device

import "github.com/ohowland/beyond_core/internal/pkg/load"

// Issue and label texts written into reports and back onto the model.
const (
	PanelDivergent      = "Divergência no painel"
	CircuitDivergent    = "Divergência no circuito"
	PanelDisconnected   = "Painel desconectado"
	CircuitDisconnected = "Circuito desconectado"
	Disconnected        = "Desconectado"
	UnassignedSwitch    = "ID não atribuído"
	DockStationNoLoad   = "Tomada com carga nula"
	DockStationOverload = "Tomada com carga excedida"
	LocationNotAssigned = "Espaço ou Ambiente não atribuído"
)

type resolution int

const (
	resolvedValue resolution = iota
	resolvedDivergent
	resolvedDisconnected
)

// Resolved is the outcome of comparing one field across the four connectors
// of a device: the unanimous value, a divergence, or a disconnection.
type Resolved struct {
	kind  resolution
	value load.Identity
}

func resolvedTo(v load.Identity) Resolved { return Resolved{resolvedValue, v} }
func divergent() Resolved { return Resolved{kind: resolvedDivergent} }
func disconnected() Resolved { return Resolved{kind: resolvedDisconnected} }

// Value returns the unanimous identity, if the field resolved to one.
func (r Resolved) Value() (load.Identity, bool) {
	return r.value, r.kind == resolvedValue
}

// IsDivergent reports whether the connectors disagree.
func (r Resolved) IsDivergent() bool { return r.kind == resolvedDivergent }

// IsDisconnected reports whether all connectors are unassigned.
func (r Resolved) IsDisconnected() bool { return r.kind == resolvedDisconnected }

// Render returns the text written back for the field. divergentLabel names
// the field the divergence was found in.
func (r Resolved) Render(divergentLabel string) string {
	switch r.kind {
	case resolvedDivergent:
		return divergentLabel
	case resolvedDisconnected:
		return Disconnected
	default:
		return r.value.String()
	}
}
