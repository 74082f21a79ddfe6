// Package stub is an in-memory implementation of the BookBuster backend
// contract. It backs local development (cmd/stubserver) and the client
// tests, including the business rules the client must observe: copy
// availability, the due-date floor, per-type penalty amounts, and the
// reject-reason length.
package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bookbuster/internal/catalog"
	"bookbuster/internal/circulation"
	"bookbuster/internal/membership"
	"bookbuster/internal/penalties"
	"bookbuster/internal/session"
)

const sessionCookie = "bb_session"

// Server is the fake backend. Mount Handler on an httptest server or bind
// it in cmd/stubserver.
type Server struct {
	mu     sync.Mutex
	st     *state
	faults faultInjector
	router chi.Router
}

// New creates an empty stub backend.
func New() *Server {
	s := &Server{st: newState()}

	r := chi.NewRouter()
	r.Use(s.faults.middleware)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/profile", s.handleProfile)

	r.Get("/books", s.handleListBooks)
	r.Post("/books", s.handleCreateBook)
	r.Get("/books/{id}", s.handleGetBook)
	r.Patch("/books/{id}", s.handleUpdateBook)

	r.Get("/editoriales", s.handleListEditorials)
	r.Post("/editoriales", s.handleCreateEditorial)

	r.Get("/copies", s.handleListCopies)
	r.Post("/copies", s.handleCreateCopy)
	r.Put("/copies/{id}", s.handleUpdateCopy)
	r.Delete("/copies/{id}", s.handleDeleteCopy)

	r.Post("/loans", s.handleCreateLoan)
	r.Get("/loans", s.handleListLoans)
	r.Get("/loans/mine", s.handleMyLoans)
	r.Patch("/loans/{id}/return", s.handleReturnLoan)

	r.Get("/penalties", s.handleListPenalties)
	r.Post("/penalties", s.handleCreatePenalty)
	r.Patch("/penalties/{id}", s.handleUpdatePenalty)
	r.Delete("/penalties/{id}", s.handleDeletePenalty)

	r.Get("/socios", s.handleListSocios)
	r.Get("/socios/by-user/{id}", s.handleSocioByUser)

	r.Get("/solicitudes", s.handleListRequests)
	r.Post("/solicitudes", s.handleCreateRequest)
	r.Post("/solicitudes/{id}/approve", s.handleApproveRequest)
	r.Post("/solicitudes/{id}/reject", s.handleRejectRequest)

	r.Post("/dev/seed", s.handleSeed)

	s.router = r
	return s
}

// Handler returns the HTTP surface.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed loads the development fixtures directly, for processes that boot
// pre-seeded. It reports whether anything was created.
func (s *Server) Seed() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.seed()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidationErrors uses the backend's alternate rejection shape.
func writeValidationErrors(w http.ResponseWriter, msgs ...string) {
	type item struct {
		Msg string `json:"msg"`
	}
	items := make([]item, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, item{Msg: m})
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": items})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return false
	}
	return true
}

// currentUser resolves the session cookie. The caller must hold s.mu.
func (s *Server) currentUser(r *http.Request) (*account, bool) {
	ck, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	userID, ok := s.st.sessions[ck.Value]
	if !ok {
		return nil, false
	}
	acc, ok := s.st.accounts[userID]
	return acc, ok
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// --- auth ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nombre   string `json:"nombre"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	var problems []string
	if strings.TrimSpace(req.Nombre) == "" {
		problems = append(problems, "El nombre es requerido")
	}
	if !strings.Contains(req.Email, "@") {
		problems = append(problems, "Email inválido")
	}
	if len(req.Password) < 8 {
		problems = append(problems, "La contraseña debe tener al menos 8 caracteres")
	}
	if len(problems) > 0 {
		writeValidationErrors(w, problems...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.st.accountByEmail(req.Email); exists {
		writeError(w, http.StatusConflict, "El email ya está registrado")
		return
	}
	if _, err := s.st.addUser(req.Nombre, req.Email, session.RoleMember, req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Usuario registrado"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.st.accountByEmail(req.Email)
	if ok {
		valid, err := verifyPassword(req.Password, acc.passwordSalt, acc.passwordHash)
		ok = err == nil && valid
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	token := uuid.NewString()
	s.st.sessions[token] = acc.ID
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Sesión iniciada",
		"user": session.User{
			ID:     acc.ID,
			Email:  acc.Email,
			Nombre: acc.Nombre,
			Rol:    acc.Rol,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ck, err := r.Cookie(sessionCookie); err == nil {
		delete(s.st.sessions, ck.Value)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "No autenticado")
		return
	}
	writeJSON(w, http.StatusOK, acc.User)
}

// --- books ---

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Book, 0, len(s.st.books))
	for _, b := range s.st.books {
		out = append(out, *b)
	}
	writeJSON(w, http.StatusOK, out)
}

type bookPayload struct {
	Titulo           *string `json:"titulo"`
	Descripcion      *string `json:"descripcion"`
	Idioma           *string `json:"idioma"`
	PortadaURL       *string `json:"portada_url"`
	FechaPublicacion *string `json:"fecha_publicacion"`
	Autores          []struct {
		Nombre string `json:"nombre"`
	} `json:"autores"`
	Generos []struct {
		Nombre string `json:"nombre"`
	} `json:"generos"`
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if !decodeBody(w, r, &req) {
		return
	}

	var problems []string
	if req.Titulo == nil || len(strings.TrimSpace(*req.Titulo)) <= 1 {
		problems = append(problems, "El título debe tener al menos 2 caracteres")
	}
	if len(req.Autores) == 0 {
		problems = append(problems, "Se requiere al menos un autor")
	}
	if len(req.Generos) == 0 {
		problems = append(problems, "Se requiere al menos un género")
	}
	if len(problems) > 0 {
		writeValidationErrors(w, problems...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := &catalog.Book{
		ID:               uuid.NewString(),
		Titulo:           strings.TrimSpace(*req.Titulo),
		Descripcion:      req.Descripcion,
		Idioma:           req.Idioma,
		PortadaURL:       req.PortadaURL,
		FechaPublicacion: req.FechaPublicacion,
	}
	for _, a := range req.Autores {
		book.Autores = append(book.Autores, catalog.Author{ID: uuid.NewString(), Nombre: a.Nombre})
	}
	for _, g := range req.Generos {
		book.Generos = append(book.Generos, catalog.Genre{ID: uuid.NewString(), Nombre: g.Nombre})
	}
	s.st.books[book.ID] = book

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Libro creado", "id": book.ID})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.st.books[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Libro no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.st.books[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Libro no encontrado")
		return
	}

	if req.Titulo != nil {
		book.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Descripcion != nil {
		book.Descripcion = req.Descripcion
	}
	if req.Idioma != nil {
		book.Idioma = req.Idioma
	}
	if req.PortadaURL != nil {
		book.PortadaURL = req.PortadaURL
	}
	if req.FechaPublicacion != nil {
		book.FechaPublicacion = req.FechaPublicacion
	}
	if req.Autores != nil {
		book.Autores = nil
		for _, a := range req.Autores {
			book.Autores = append(book.Autores, catalog.Author{ID: uuid.NewString(), Nombre: a.Nombre})
		}
	}
	if req.Generos != nil {
		book.Generos = nil
		for _, g := range req.Generos {
			book.Generos = append(book.Generos, catalog.Genre{ID: uuid.NewString(), Nombre: g.Nombre})
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Libro actualizado"})
}

// --- editorials ---

func (s *Server) handleListEditorials(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Editorial, 0, len(s.st.editoriales))
	for _, e := range s.st.editoriales {
		out = append(out, *e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEditorial(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nombre string `json:"nombre"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Nombre) == "" {
		writeError(w, http.StatusBadRequest, "El nombre es requerido")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ed := &catalog.Editorial{ID: uuid.NewString(), Nombre: strings.TrimSpace(req.Nombre)}
	s.st.editoriales[ed.ID] = ed
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Editorial creada", "id": ed.ID})
}

// --- copies ---

func (s *Server) handleListCopies(w http.ResponseWriter, r *http.Request) {
	libroID := r.URL.Query().Get("libro_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Copy, 0)
	for _, c := range s.st.copies {
		if libroID == "" || c.LibroID == libroID {
			out = append(out, *c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCopy(w http.ResponseWriter, r *http.Request) {
	var req catalog.Copy
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.books[req.LibroID]; !ok {
		writeError(w, http.StatusNotFound, "Libro no encontrado")
		return
	}
	if _, ok := s.st.editoriales[req.EditorialID]; !ok {
		writeError(w, http.StatusNotFound, "Editorial no encontrada")
		return
	}

	cp := &catalog.Copy{
		ID:          uuid.NewString(),
		LibroID:     req.LibroID,
		EditorialID: req.EditorialID,
		ISBN:        req.ISBN,
		Edicion:     req.Edicion,
		Formato:     req.Formato,
		Estado:      catalog.CopyAvailable,
	}
	s.st.copies[cp.ID] = cp
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Copia creada", "id": cp.ID})
}

func (s *Server) handleUpdateCopy(w http.ResponseWriter, r *http.Request) {
	var req catalog.Copy
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.st.copies[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Copia no encontrada")
		return
	}
	if req.EditorialID != "" {
		cp.EditorialID = req.EditorialID
	}
	cp.ISBN = req.ISBN
	cp.Edicion = req.Edicion
	if req.Formato != "" {
		cp.Formato = req.Formato
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Copia actualizada"})
}

func (s *Server) handleDeleteCopy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.st.copies[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Copia no encontrada")
		return
	}
	if cp.Estado == catalog.CopyLoaned {
		writeError(w, http.StatusConflict, "La copia está prestada")
		return
	}
	delete(s.st.copies, cp.ID)
	w.WriteHeader(http.StatusNoContent)
}

// --- loans ---

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CopiaID          string `json:"copia_id"`
		FechaVencimiento string `json:"fecha_vencimiento"`
		SocioID          string `json:"socio_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "No autenticado")
		return
	}

	cp, ok := s.st.copies[req.CopiaID]
	if !ok {
		writeError(w, http.StatusNotFound, "Copia no encontrada")
		return
	}
	if cp.Estado != catalog.CopyAvailable {
		writeError(w, http.StatusConflict, "La copia ya está prestada")
		return
	}
	if req.FechaVencimiento < today() {
		writeError(w, http.StatusBadRequest, "La fecha de vencimiento no puede ser anterior a hoy")
		return
	}

	var socio *membership.Socio
	if req.SocioID != "" {
		if acc.Rol != session.RoleAdmin && acc.Rol != session.RoleLibrarian {
			writeError(w, http.StatusForbidden, "Solo administradores o bibliotecarios asignan préstamos")
			return
		}
		socio, ok = s.st.socioByID(req.SocioID)
		if !ok {
			writeError(w, http.StatusNotFound, "Socio no encontrado")
			return
		}
	} else {
		socio, ok = s.st.socios[acc.ID]
		if !ok {
			writeError(w, http.StatusBadRequest, "El usuario no tiene socio asociado")
			return
		}
	}

	cp.Estado = catalog.CopyLoaned
	socio.PrestamosActivos++

	loan := &circulation.Loan{
		ID:               uuid.NewString(),
		CopiaID:          cp.ID,
		LibroID:          cp.LibroID,
		SocioID:          socio.ID,
		FechaInicio:      today(),
		FechaVencimiento: req.FechaVencimiento,
		Estado:           circulation.LoanActive,
	}
	if book, ok := s.st.books[cp.LibroID]; ok {
		loan.BookTitle = &book.Titulo
	}
	s.st.loans[loan.ID] = loan

	writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	socioID := r.URL.Query().Get("socio_id")
	estado := r.URL.Query().Get("estado")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]circulation.Loan, 0)
	for _, l := range s.st.loans {
		if socioID != "" && l.SocioID != socioID {
			continue
		}
		if estado != "" && l.Estado != estado {
			continue
		}
		out = append(out, *l)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMyLoans(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "No autenticado")
		return
	}
	socio, ok := s.st.socios[acc.ID]
	if !ok {
		writeJSON(w, http.StatusOK, []circulation.Loan{})
		return
	}

	out := make([]circulation.Loan, 0)
	for _, l := range s.st.loans {
		if l.SocioID == socio.ID {
			out = append(out, *l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CreatePenalty bool `json:"createPenalty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.st.loans[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Préstamo no encontrado")
		return
	}
	if loan.Estado != circulation.LoanActive && loan.Estado != circulation.LoanOverdue {
		writeError(w, http.StatusConflict, "El préstamo no está activo")
		return
	}

	overdue := loan.FechaVencimiento < today()
	loan.Estado = circulation.LoanReturned
	if cp, ok := s.st.copies[loan.CopiaID]; ok {
		cp.Estado = catalog.CopyAvailable
	}
	if socio, ok := s.st.socioByID(loan.SocioID); ok {
		if socio.PrestamosActivos > 0 {
			socio.PrestamosActivos--
		}
		if req.CreatePenalty && overdue {
			s.addPenalty(socio, penalties.TypeLateReturn, &loan.ID, nil)
		}
	}

	writeJSON(w, http.StatusOK, loan)
}

// --- penalties ---

// addPenalty levies a fine for a taxonomy type. Caller holds s.mu.
func (s *Server) addPenalty(socio *membership.Socio, tipo string, prestamoID, detalle *string) *penalties.Penalty {
	t, _ := penalties.TypeByCode(tipo)
	p := &penalties.Penalty{
		ID:         uuid.NewString(),
		SocioID:    socio.ID,
		PrestamoID: prestamoID,
		Monto:      t.ReferenceAmount,
		Motivo:     t.Label,
		Detalle:    detalle,
		Fecha:      time.Now().UTC().Format(time.RFC3339),
		Estado:     penalties.StatusPending,
		Socio:      &penalties.SocioRef{ID: socio.ID, DNI: socio.DNI, Nombre: &socio.Nombre},
	}
	s.st.fines[p.ID] = p
	socio.MultasPendientes++
	return p
}

func (s *Server) handleListPenalties(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]penalties.Penalty, 0, len(s.st.fines))
	for _, p := range s.st.fines {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePenalty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SocioID    string  `json:"socio_id"`
		Tipo       string  `json:"tipo"`
		PrestamoID *string `json:"prestamo_id"`
		Detalle    *string `json:"detalle"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if _, ok := penalties.TypeByCode(req.Tipo); !ok {
		writeError(w, http.StatusBadRequest, "Tipo de multa desconocido")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	socio, ok := s.st.socioByID(req.SocioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Socio no encontrado")
		return
	}
	p := s.addPenalty(socio, req.Tipo, req.PrestamoID, req.Detalle)
	writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID, "message": "Multa aplicada"})
}

func (s *Server) handleUpdatePenalty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Estado  *string `json:"estado"`
		Detalle *string `json:"detalle"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.fines[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Multa no encontrada")
		return
	}

	if req.Estado != nil && *req.Estado != p.Estado {
		if p.Estado == penalties.StatusPending {
			if socio, ok := s.st.socioByID(p.SocioID); ok && socio.MultasPendientes > 0 {
				socio.MultasPendientes--
			}
		}
		p.Estado = *req.Estado
	}
	if req.Detalle != nil {
		p.Detalle = req.Detalle
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Multa actualizada"})
}

func (s *Server) handleDeletePenalty(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.fines[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Multa no encontrada")
		return
	}
	if p.Estado == penalties.StatusPending {
		if socio, ok := s.st.socioByID(p.SocioID); ok && socio.MultasPendientes > 0 {
			socio.MultasPendientes--
		}
	}
	delete(s.st.fines, p.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Multa eliminada"})
}

// --- socios ---

func (s *Server) handleListSocios(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]membership.Socio, 0, len(s.st.socios))
	for _, socio := range s.st.socios {
		out = append(out, *socio)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSocioByUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	socio, ok := s.st.socios[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Socio no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, membership.SocioRef{ID: socio.ID, UsuarioID: socio.UsuarioID, DNI: socio.DNI})
}

// --- registration requests ---

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]membership.RegistrationRequest, 0, len(s.st.requests))
	for _, req := range s.st.requests {
		out = append(out, *req)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nombre   string  `json:"nombre"`
		Email    string  `json:"email"`
		Telefono *string `json:"telefono"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Nombre) == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "Nombre y email son requeridos")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rr := &membership.RegistrationRequest{
		ID:       uuid.NewString(),
		Nombre:   strings.TrimSpace(req.Nombre),
		Email:    req.Email,
		Telefono: req.Telefono,
		Fecha:    time.Now().UTC().Format(time.RFC3339),
		Estado:   membership.RequestPending,
	}
	s.st.requests[rr.ID] = rr
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Solicitud creada", "id": rr.ID})
}

func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rr, ok := s.st.requests[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Solicitud no encontrada")
		return
	}
	if rr.Estado != membership.RequestPending {
		writeError(w, http.StatusConflict, "La solicitud ya fue procesada")
		return
	}

	if _, err := s.st.addUser(rr.Nombre, rr.Email, session.RoleMember, uuid.NewString()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rr.Estado = membership.RequestApproved
	writeJSON(w, http.StatusOK, map[string]string{"message": "Solicitud aprobada"})
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Motivo string `json:"motivo"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(strings.TrimSpace(req.Motivo)) < 4 {
		writeError(w, http.StatusBadRequest, "El motivo debe tener al menos 4 caracteres")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rr, ok := s.st.requests[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Solicitud no encontrada")
		return
	}
	if rr.Estado != membership.RequestPending {
		writeError(w, http.StatusConflict, "La solicitud ya fue procesada")
		return
	}
	rr.Estado = membership.RequestRejected
	writeJSON(w, http.StatusOK, map[string]string{"message": "Solicitud rechazada"})
}

// --- dev fixtures ---

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.st.seed()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"created": created})
}
