// Package penalties mirrors the backend's fine resource. Creation is keyed
// to a fixed taxonomy of penalty types; the amount for each type is decided
// by the server and only displayed client-side as a read-only reference.
package penalties

// Penalty states.
const (
	StatusPending = "PENDIENTE"
	StatusPaid    = "PAGADA"
	StatusVoided  = "ANULADA"
)

// Penalty types accepted by the creation endpoint.
const (
	TypeLateReturn = "DEVOLUCION_TARDIA"
	TypeDamaged    = "DANIO"
	TypeLost       = "PERDIDA"
)

// Type describes one entry of the taxonomy. ReferenceAmount is what the
// server currently charges for the type; the client never sends an amount
// it computed.
type Type struct {
	Code            string
	Label           string
	ReferenceAmount float64
}

// Types lists the taxonomy in presentation order.
func Types() []Type {
	return []Type{
		{Code: TypeLateReturn, Label: "Devolución tardía", ReferenceAmount: 500},
		{Code: TypeDamaged, Label: "Ejemplar dañado", ReferenceAmount: 1500},
		{Code: TypeLost, Label: "Ejemplar perdido", ReferenceAmount: 5000},
	}
}

// TypeByCode finds a taxonomy entry.
func TypeByCode(code string) (Type, bool) {
	for _, t := range Types() {
		if t.Code == code {
			return t, true
		}
	}
	return Type{}, false
}

// SocioRef is the embedded member summary on a listed penalty.
type SocioRef struct {
	ID     string  `json:"id"`
	DNI    *string `json:"dni,omitempty"`
	Nombre *string `json:"nombre,omitempty"`
}

// Penalty mirrors the backend's fine shape.
type Penalty struct {
	ID         string    `json:"id"`
	SocioID    string    `json:"socio_id"`
	PrestamoID *string   `json:"prestamo_id,omitempty"`
	Monto      float64   `json:"monto"`
	Motivo     string    `json:"motivo"`
	Detalle    *string   `json:"detalle,omitempty"`
	Fecha      string    `json:"fecha"`
	Estado     string    `json:"estado"`
	Socio      *SocioRef `json:"socio,omitempty"`
}
