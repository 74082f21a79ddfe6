package api

import (
	"context"
	"net/url"

	"bookbuster/internal/catalog"
)

type tagName struct {
	Nombre string `json:"nombre"`
}

func tagNames(names []string) []tagName {
	out := make([]tagName, 0, len(names))
	for _, n := range names {
		out = append(out, tagName{Nombre: n})
	}
	return out
}

// CreateBookParams is the book-creation payload. Autores and Generos are
// name-only tags created on write.
type CreateBookParams struct {
	Titulo           string
	Descripcion      *string
	Idioma           string
	PortadaURL       *string
	FechaPublicacion *string
	Autores          []string
	Generos          []string
}

// UpdateBookParams is the partial book-update payload; nil fields are left
// untouched by the server.
type UpdateBookParams struct {
	Titulo           *string  `json:"titulo,omitempty"`
	Descripcion      *string  `json:"descripcion,omitempty"`
	Idioma           *string  `json:"idioma,omitempty"`
	PortadaURL       *string  `json:"portada_url,omitempty"`
	FechaPublicacion *string  `json:"fecha_publicacion,omitempty"`
	Autores          []string `json:"-"`
	Generos          []string `json:"-"`
}

// Books lists the catalog.
func (c *Client) Books(ctx context.Context) ([]catalog.Book, error) {
	var out []catalog.Book
	err := c.get(ctx, "/books", &out)
	return out, err
}

// Book fetches one book with its full author and genre sets.
func (c *Client) Book(ctx context.Context, id string) (catalog.Book, error) {
	var out catalog.Book
	err := c.get(ctx, "/books/"+url.PathEscape(id), &out)
	return out, err
}

// CreateBook creates a book and returns its server-issued id.
func (c *Client) CreateBook(ctx context.Context, p CreateBookParams) (string, error) {
	payload := map[string]any{
		"titulo":            p.Titulo,
		"descripcion":       p.Descripcion,
		"idioma":            p.Idioma,
		"portada_url":       p.PortadaURL,
		"fecha_publicacion": p.FechaPublicacion,
		"autores":           tagNames(p.Autores),
		"generos":           tagNames(p.Generos),
	}
	var out struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	err := c.post(ctx, "/books", payload, &out)
	return out.ID, err
}

// UpdateBook patches a book.
func (c *Client) UpdateBook(ctx context.Context, id string, p UpdateBookParams) error {
	payload := map[string]any{}
	if p.Titulo != nil {
		payload["titulo"] = *p.Titulo
	}
	if p.Descripcion != nil {
		payload["descripcion"] = *p.Descripcion
	}
	if p.Idioma != nil {
		payload["idioma"] = *p.Idioma
	}
	if p.PortadaURL != nil {
		payload["portada_url"] = *p.PortadaURL
	}
	if p.FechaPublicacion != nil {
		payload["fecha_publicacion"] = *p.FechaPublicacion
	}
	if p.Autores != nil {
		payload["autores"] = tagNames(p.Autores)
	}
	if p.Generos != nil {
		payload["generos"] = tagNames(p.Generos)
	}
	return c.patch(ctx, "/books/"+url.PathEscape(id), payload, nil)
}
