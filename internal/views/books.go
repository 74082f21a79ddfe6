// Package views holds the resource controllers behind each screen: they
// own the cached server data, the fetch lifecycle, and the mutations, and
// they reconcile through the invalidation bus. Controllers are
// single-screen objects; Close releases their subscriptions and any fetch
// still in flight.
package views

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"bookbuster/internal/api"
	"bookbuster/internal/bus"
	"bookbuster/internal/catalog"
	"bookbuster/internal/view"
)

// BooksView is the catalog listing with its genre filter.
type BooksView struct {
	view.Lifecycle

	client      *api.Client
	bus         *bus.Bus
	unsubscribe func()

	mu    sync.Mutex
	books []catalog.Book
	genre string
}

// NewBooksView creates the listing controller and subscribes it to book
// invalidations, so a mutation anywhere refreshes this list.
func NewBooksView(client *api.Client, b *bus.Bus) *BooksView {
	v := &BooksView{client: client, bus: b}
	v.unsubscribe = b.Books.Subscribe(func(struct{}) {
		v.Refresh(context.Background())
	})
	return v
}

// Refresh fetches the catalog. A refresh superseded by a newer one returns
// nil and leaves the newer fetch in charge.
func (v *BooksView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	books, err := v.client.Books(fctx)
	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.books = books
	v.mu.Unlock()
	return nil
}

// SetGenre narrows the listing to books carrying the named genre. Empty
// clears the filter.
func (v *BooksView) SetGenre(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.genre = name
}

// Books returns the listing with the genre filter applied.
func (v *BooksView) Books() []catalog.Book {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.genre == "" {
		out := make([]catalog.Book, len(v.books))
		copy(out, v.books)
		return out
	}
	var out []catalog.Book
	for _, b := range v.books {
		for _, g := range b.Generos {
			if g.Nombre == v.genre {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// Genres lists the distinct genre names across the catalog in first-seen
// order, the filter's option list.
func (v *BooksView) Genres() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	set := catalog.NewTagSet()
	for _, b := range v.books {
		for _, g := range b.Generos {
			set.Add(g.Nombre)
		}
	}
	return set.Names()
}

// Create validates and submits a new book, then invalidates every book
// listing. It returns the server-issued id.
func (v *BooksView) Create(ctx context.Context, form BookForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	if err := v.BeginMutation(); err != nil {
		return "", err
	}
	id, err := v.client.CreateBook(ctx, form.params())
	v.EndMutation()
	if err != nil {
		return "", err
	}
	v.bus.Books.Publish(struct{}{})
	return id, nil
}

// Close tears the controller down.
func (v *BooksView) Close() {
	v.unsubscribe()
	v.Lifecycle.Close()
}

// Form validation errors.
var (
	ErrTitleTooShort = errors.New("el título debe tener al menos 2 caracteres")
	ErrNoAuthors     = errors.New("se requiere al menos un autor")
	ErrNoGenres      = errors.New("se requiere al menos un género")
	ErrBadDate       = errors.New("la fecha de publicación debe ser YYYY-MM-DD")
)

// BookForm is the create/edit book input model. Autores and Generos are
// chip sets fed by comma-separated entry.
type BookForm struct {
	Titulo           string
	Descripcion      string
	Idioma           string
	PortadaURL       string
	FechaPublicacion string
	Autores          *catalog.TagSet
	Generos          *catalog.TagSet
}

// NewBookForm creates an empty form.
func NewBookForm() *BookForm {
	return &BookForm{
		Autores: catalog.NewTagSet(),
		Generos: catalog.NewTagSet(),
	}
}

// Validate applies the submit gate: a real title, at least one author, at
// least one genre. All violations are reported together.
func (f BookForm) Validate() error {
	var errs []error
	if len(strings.TrimSpace(f.Titulo)) <= 1 {
		errs = append(errs, ErrTitleTooShort)
	}
	if f.Autores == nil || f.Autores.Len() == 0 {
		errs = append(errs, ErrNoAuthors)
	}
	if f.Generos == nil || f.Generos.Len() == 0 {
		errs = append(errs, ErrNoGenres)
	}
	if f.FechaPublicacion != "" {
		if _, err := time.Parse("2006-01-02", f.FechaPublicacion); err != nil {
			errs = append(errs, ErrBadDate)
		}
	}
	return errors.Join(errs...)
}

func (f BookForm) params() api.CreateBookParams {
	p := api.CreateBookParams{
		Titulo:  strings.TrimSpace(f.Titulo),
		Idioma:  f.Idioma,
		Autores: f.Autores.Names(),
		Generos: f.Generos.Names(),
	}
	if f.Descripcion != "" {
		p.Descripcion = &f.Descripcion
	}
	if f.PortadaURL != "" {
		p.PortadaURL = &f.PortadaURL
	}
	if f.FechaPublicacion != "" {
		p.FechaPublicacion = &f.FechaPublicacion
	}
	return p
}
