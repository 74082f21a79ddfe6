// Package membership mirrors the backend's user, socio and
// registration-request resources. A socio is the borrower record behind a
// user account, carrying the loan and penalty counters shown on the admin
// dashboards.
package membership

// Registration request states.
const (
	RequestPending  = "PENDIENTE"
	RequestApproved = "APROBADA"
	RequestRejected = "RECHAZADA"
)

// User is the backend's account record.
type User struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Nombre   string  `json:"nombre"`
	Rol      string  `json:"rol"`
	Activo   *bool   `json:"activo,omitempty"`
	CreadoEn *string `json:"creado_en,omitempty"`
	NroSocio *int    `json:"nro_socio,omitempty"`
}

// Socio is a member of the library as listed in the admin directory.
type Socio struct {
	ID               string  `json:"id"`
	UsuarioID        string  `json:"usuario_id"`
	DNI              *string `json:"dni,omitempty"`
	Nombre           string  `json:"nombre"`
	Email            string  `json:"email"`
	Activo           bool    `json:"activo"`
	PrestamosActivos int     `json:"prestamos_activos"`
	MultasPendientes int     `json:"multas_pendientes"`
	NroSocio         *int    `json:"nro_socio"`
}

// SocioRef is the slim socio record returned by the by-user lookup.
type SocioRef struct {
	ID        string  `json:"id"`
	UsuarioID string  `json:"usuario_id"`
	DNI       *string `json:"dni,omitempty"`
}

// RegistrationRequest is a pending application to become a socio.
type RegistrationRequest struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Email    string  `json:"email"`
	Telefono *string `json:"telefono,omitempty"`
	Fecha    string  `json:"fecha"`
	Estado   string  `json:"estado"`
}
