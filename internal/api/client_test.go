package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"bookbuster/internal/catalog"
	"bookbuster/internal/circulation"
	"bookbuster/internal/penalties"
	"bookbuster/internal/session"
	"bookbuster/internal/stub"
)

func newTestClient(t *testing.T) (*Client, *stub.Server, *session.MemoryStore) {
	t.Helper()

	backend := stub.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	c, err := New(srv.URL, store)
	require.NoError(t, err)
	return c, backend, store
}

func seedAndLogin(t *testing.T, c *Client, email, password string) session.User {
	t.Helper()

	ctx := context.Background()
	_, err := c.DevSeed(ctx)
	require.NoError(t, err)

	user, err := c.Login(ctx, email, password)
	require.NoError(t, err)
	return user
}

func TestLoginPersistsSession(t *testing.T) {
	c, _, store := newTestClient(t)

	user := seedAndLogin(t, c, "ana@example.com", "ana12345")
	assert.Equal(t, "Ana García", user.Nombre)
	assert.Equal(t, session.RoleMember, user.Rol)
	assert.False(t, user.Elevated())

	rec, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, user, rec.User)
	require.NotEmpty(t, rec.Cookies, "session cookie must be persisted with the record")

	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	c, _, store := newTestClient(t)

	ctx := context.Background()
	_, err := c.DevSeed(ctx)
	require.NoError(t, err)

	_, err = c.Login(ctx, "ana@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Credenciales inválidas", apiErr.Message)

	_, ok := store.Get()
	assert.False(t, ok, "failed login must not persist a session")
}

func TestLogoutClearsSession(t *testing.T) {
	c, _, store := newTestClient(t)
	seedAndLogin(t, c, "ana@example.com", "ana12345")

	require.NoError(t, c.Logout(context.Background()))

	_, ok := store.Get()
	assert.False(t, ok)

	_, err := c.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestPersistedCookiesResumeSession(t *testing.T) {
	backend := stub.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()

	first, err := New(srv.URL, store)
	require.NoError(t, err)
	ctx := context.Background()
	_, err = first.DevSeed(ctx)
	require.NoError(t, err)
	user, err := first.Login(ctx, "ana@example.com", "ana12345")
	require.NoError(t, err)

	// A second client over the same store picks up the cookie and is
	// authenticated without logging in again.
	second, err := New(srv.URL, store)
	require.NoError(t, err)
	profile, err := second.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
}

func TestValidationErrorsUseFirstMessage(t *testing.T) {
	c, _, _ := newTestClient(t)

	_, err := c.Register(context.Background(), "", "not-an-email", "short")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "El nombre es requerido", apiErr.Message)
}

func TestStatusFallbackWhenBodyHasNoMessage(t *testing.T) {
	c, backend, _ := newTestClient(t)

	backend.FailNext(1, 500, "")
	_, err := c.Books(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "HTTP 500", apiErr.Message)
}

func TestTransportFailureHasZeroStatus(t *testing.T) {
	backend := stub.New()
	srv := httptest.NewServer(backend.Handler())

	c, err := New(srv.URL, session.NewMemoryStore())
	require.NoError(t, err)

	srv.Close()
	_, err = c.Books(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.Error(t, apiErr.Unwrap())
}

func TestRentalRoundTrip(t *testing.T) {
	c, _, _ := newTestClient(t)
	seedAndLogin(t, c, "ana@example.com", "ana12345")

	ctx := context.Background()

	books, err := c.Books(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	book := books[0]
	assert.Equal(t, "Ficciones", book.Titulo)

	copies, err := c.CopiesByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, copies, 2)
	require.True(t, copies[0].Available())

	due := circulation.DefaultDueDate(time.Now())
	loan, err := c.CreateLoan(ctx, copies[0].ID, due, "")
	require.NoError(t, err)
	assert.Equal(t, circulation.LoanActive, loan.Estado)
	assert.Equal(t, book.ID, loan.LibroID)
	assert.Equal(t, due, loan.FechaVencimiento)

	// The loaned copy must no longer read as available.
	copies, err = c.CopiesByBook(ctx, book.ID)
	require.NoError(t, err)
	available := 0
	for _, cp := range copies {
		if cp.Available() {
			available++
		}
	}
	assert.Equal(t, 1, available)

	mine, err := c.MyLoans(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, loan.ID, mine[0].ID)

	returned, err := c.ReturnLoan(ctx, loan.ID, false)
	require.NoError(t, err)
	assert.Equal(t, circulation.LoanReturned, returned.Estado)
	assert.Equal(t, book.ID, returned.LibroID)

	copies, err = c.CopiesByBook(ctx, book.ID)
	require.NoError(t, err)
	for _, cp := range copies {
		assert.True(t, cp.Available())
	}
}

func TestCreateLoanRejectsUnavailableCopy(t *testing.T) {
	c, _, _ := newTestClient(t)
	seedAndLogin(t, c, "ana@example.com", "ana12345")

	ctx := context.Background()
	books, err := c.Books(ctx)
	require.NoError(t, err)
	copies, err := c.CopiesByBook(ctx, books[0].ID)
	require.NoError(t, err)

	due := circulation.DefaultDueDate(time.Now())
	_, err = c.CreateLoan(ctx, copies[0].ID, due, "")
	require.NoError(t, err)

	_, err = c.CreateLoan(ctx, copies[0].ID, due, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "La copia ya está prestada", apiErr.Message)
}

func TestCatalogWrites(t *testing.T) {
	c, _, _ := newTestClient(t)
	seedAndLogin(t, c, "admin@bookbuster.dev", "admin123")

	ctx := context.Background()

	id, err := c.CreateBook(ctx, CreateBookParams{
		Titulo:  "Rayuela",
		Idioma:  "Español",
		Autores: []string{"Julio Cortázar"},
		Generos: []string{"Novela"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	book, err := c.Book(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rayuela", book.Titulo)
	require.Len(t, book.Autores, 1)

	titulo := "Rayuela (ed. revisada)"
	require.NoError(t, c.UpdateBook(ctx, id, UpdateBookParams{Titulo: &titulo}))
	book, err = c.Book(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, titulo, book.Titulo)

	edID, err := c.CreateEditorial(ctx, "Alfaguara")
	require.NoError(t, err)
	eds, err := c.Editorials(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(eds), 2)

	copyID, err := c.CreateCopy(ctx, CreateCopyParams{
		LibroID:     id,
		EditorialID: edID,
		Formato:     catalog.FormatPDF,
	})
	require.NoError(t, err)

	require.NoError(t, c.UpdateCopy(ctx, copyID, UpdateCopyParams{
		EditorialID: edID,
		Formato:     catalog.FormatEPUB,
	}))
	copies, err := c.CopiesByBook(ctx, id)
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, catalog.FormatEPUB, copies[0].Formato)

	require.NoError(t, c.DeleteCopy(ctx, copyID))
	copies, err = c.CopiesByBook(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, copies)
}

func TestPenaltyAmountIsServerDerived(t *testing.T) {
	c, _, _ := newTestClient(t)
	seedAndLogin(t, c, "admin@bookbuster.dev", "admin123")

	ctx := context.Background()
	socios, err := c.Socios(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, socios)

	id, err := c.CreatePenalty(ctx, CreatePenaltyParams{
		SocioID: socios[0].ID,
		Tipo:    penalties.TypeDamaged,
	})
	require.NoError(t, err)

	fines, err := c.Penalties(ctx)
	require.NoError(t, err)
	require.Len(t, fines, 1)
	assert.Equal(t, id, fines[0].ID)
	assert.Equal(t, float64(1500), fines[0].Monto)
	assert.Equal(t, penalties.StatusPending, fines[0].Estado)

	paid := penalties.StatusPaid
	require.NoError(t, c.UpdatePenalty(ctx, id, UpdatePenaltyParams{Estado: &paid}))
	fines, err = c.Penalties(ctx)
	require.NoError(t, err)
	assert.Equal(t, penalties.StatusPaid, fines[0].Estado)

	require.NoError(t, c.DeletePenalty(ctx, id))
	fines, err = c.Penalties(ctx)
	require.NoError(t, err)
	assert.Empty(t, fines)
}

func TestRejectRequestNeedsReason(t *testing.T) {
	c, _, _ := newTestClient(t)
	seedAndLogin(t, c, "admin@bookbuster.dev", "admin123")

	ctx := context.Background()
	reqs, err := c.Requests(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reqs)

	err = c.RejectRequest(ctx, reqs[0].ID, "no")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	require.NoError(t, c.RejectRequest(ctx, reqs[0].ID, "Datos incompletos"))
}

func TestDevSeedIsOneShot(t *testing.T) {
	c, _, _ := newTestClient(t)

	ctx := context.Background()
	created, err := c.DevSeed(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.DevSeed(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestClientOptionsApply(t *testing.T) {
	backend := stub.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	hc := &http.Client{Timeout: 2 * time.Second}
	c, err := New(srv.URL, session.NewMemoryStore(),
		WithHTTPClient(hc),
		WithRateLimit(rate.Every(10*time.Millisecond), 5),
	)
	require.NoError(t, err)

	assert.Same(t, hc, c.http)
	assert.NotNil(t, hc.Jar)
	assert.Equal(t, 5, c.limiter.Burst())

	_, err = c.Books(context.Background())
	require.NoError(t, err)
}
