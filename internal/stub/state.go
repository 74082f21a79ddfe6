package stub

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookbuster/internal/catalog"
	"bookbuster/internal/circulation"
	"bookbuster/internal/membership"
	"bookbuster/internal/penalties"
	"bookbuster/internal/session"
)

// account is a user record plus its credentials.
type account struct {
	membership.User
	passwordHash string
	passwordSalt string
}

// state is the whole in-memory backend. All access goes through the
// Server's mutex.
type state struct {
	accounts    map[string]*account // keyed by user id
	socios      map[string]*membership.Socio
	books       map[string]*catalog.Book
	copies      map[string]*catalog.Copy
	loans       map[string]*circulation.Loan
	fines       map[string]*penalties.Penalty
	editoriales map[string]*catalog.Editorial
	requests    map[string]*membership.RegistrationRequest
	sessions    map[string]string // session token -> user id
	seeded      bool
}

func newState() *state {
	return &state{
		accounts:    make(map[string]*account),
		socios:      make(map[string]*membership.Socio),
		books:       make(map[string]*catalog.Book),
		copies:      make(map[string]*catalog.Copy),
		loans:       make(map[string]*circulation.Loan),
		fines:       make(map[string]*penalties.Penalty),
		editoriales: make(map[string]*catalog.Editorial),
		requests:    make(map[string]*membership.RegistrationRequest),
		sessions:    make(map[string]string),
	}
}

// addUser creates an account and, for socios, the member record behind it.
func (st *state) addUser(nombre, email, rol, password string) (*account, error) {
	hash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	acc := &account{
		User: membership.User{
			ID:     uuid.NewString(),
			Email:  email,
			Nombre: nombre,
			Rol:    rol,
			Activo: &active,
		},
		passwordHash: hash,
		passwordSalt: salt,
	}
	st.accounts[acc.ID] = acc

	if rol == session.RoleMember {
		nro := len(st.socios) + 1
		acc.NroSocio = &nro
		st.socios[acc.ID] = &membership.Socio{
			ID:        uuid.NewString(),
			UsuarioID: acc.ID,
			Nombre:    nombre,
			Email:     email,
			Activo:    true,
			NroSocio:  &nro,
		}
	}
	return acc, nil
}

func (st *state) accountByEmail(email string) (*account, bool) {
	for _, acc := range st.accounts {
		if acc.Email == email {
			return acc, true
		}
	}
	return nil, false
}

func (st *state) socioByID(id string) (*membership.Socio, bool) {
	for _, s := range st.socios {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// seed loads the development fixtures once. It reports whether anything was
// created.
func (st *state) seed() (bool, error) {
	if st.seeded {
		return false, nil
	}

	if _, err := st.addUser("Admin", "admin@bookbuster.dev", session.RoleAdmin, "admin123"); err != nil {
		return false, err
	}
	if _, err := st.addUser("Biblio", "biblio@bookbuster.dev", session.RoleLibrarian, "biblio123"); err != nil {
		return false, err
	}
	ana, err := st.addUser("Ana García", "ana@example.com", session.RoleMember, "ana12345")
	if err != nil {
		return false, err
	}
	dni := "30111222"
	st.socios[ana.ID].DNI = &dni

	ed := &catalog.Editorial{ID: uuid.NewString(), Nombre: "Sudamericana"}
	st.editoriales[ed.ID] = ed

	desc := "Colección de cuentos."
	idioma := "Español"
	book := &catalog.Book{
		ID:          uuid.NewString(),
		Titulo:      "Ficciones",
		Descripcion: &desc,
		Idioma:      &idioma,
		Autores:     []catalog.Author{{ID: uuid.NewString(), Nombre: "Jorge Luis Borges"}},
		Generos:     []catalog.Genre{{ID: uuid.NewString(), Nombre: "Ficción"}},
	}
	st.books[book.ID] = book

	for _, formato := range []string{catalog.FormatPhysical, catalog.FormatEPUB} {
		cp := &catalog.Copy{
			ID:          uuid.NewString(),
			LibroID:     book.ID,
			EditorialID: ed.ID,
			Formato:     formato,
			Estado:      catalog.CopyAvailable,
		}
		st.copies[cp.ID] = cp
	}

	req := &membership.RegistrationRequest{
		ID:     uuid.NewString(),
		Nombre: "Pedro Solicitante",
		Email:  "pedro@example.com",
		Fecha:  time.Now().UTC().Format(time.RFC3339),
		Estado: membership.RequestPending,
	}
	st.requests[req.ID] = req

	st.seeded = true
	return true, nil
}
