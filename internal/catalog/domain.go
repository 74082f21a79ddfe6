// Package catalog holds the client-side mirror of the backend's catalog
// resources and the views that browse and mutate them. The client owns no
// identity: every id is server-issued and every record is a cached copy.
package catalog

// Copy availability states, server-authoritative.
const (
	CopyAvailable = "DISPONIBLE"
	CopyLoaned    = "PRESTADO"
)

// Copy formats accepted by the backend.
const (
	FormatPDF       = "PDF"
	FormatEPUB      = "EPUB"
	FormatAudiobook = "AUDIOBOOK"
	FormatPhysical  = "FISICO"
)

// Author is a name-only tag created on write.
type Author struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// Genre is a name-only tag created on write.
type Genre struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// Editorial is a publisher directory entry.
type Editorial struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// Book mirrors the backend's book shape.
type Book struct {
	ID               string   `json:"id"`
	Titulo           string   `json:"titulo"`
	Descripcion      *string  `json:"descripcion,omitempty"`
	Idioma           *string  `json:"idioma,omitempty"`
	PortadaURL       *string  `json:"portada_url,omitempty"`
	FechaPublicacion *string  `json:"fecha_publicacion,omitempty"`
	Autores          []Author `json:"autores"`
	Generos          []Genre  `json:"generos"`
}

// Copy is one concrete lend-able instance of a book.
type Copy struct {
	ID          string  `json:"id"`
	LibroID     string  `json:"libro_id"`
	EditorialID string  `json:"editorial_id"`
	ISBN        *string `json:"isbn,omitempty"`
	Edicion     *string `json:"edicion,omitempty"`
	Formato     string  `json:"formato"`
	Estado      string  `json:"estado"`
}

// Available reports whether the copy can be loaned right now, as of the last
// fetch. The server is the authority; a stale true here surfaces as a
// rejected loan.
func (c Copy) Available() bool {
	return c.Estado == CopyAvailable
}
