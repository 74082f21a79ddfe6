package api

import (
	"context"
	"net/url"

	"bookbuster/internal/catalog"
)

// CreateCopyParams is the copy-creation payload.
type CreateCopyParams struct {
	LibroID     string  `json:"libro_id"`
	EditorialID string  `json:"editorial_id"`
	ISBN        *string `json:"isbn,omitempty"`
	Edicion     *string `json:"edicion,omitempty"`
	Formato     string  `json:"formato"`
}

// UpdateCopyParams replaces a copy's catalog data.
type UpdateCopyParams struct {
	EditorialID string  `json:"editorial_id"`
	ISBN        *string `json:"isbn,omitempty"`
	Edicion     *string `json:"edicion,omitempty"`
	Formato     string  `json:"formato"`
}

// CopiesByBook lists the copies of one book.
func (c *Client) CopiesByBook(ctx context.Context, libroID string) ([]catalog.Copy, error) {
	var out []catalog.Copy
	err := c.get(ctx, "/copies?libro_id="+url.QueryEscape(libroID), &out)
	return out, err
}

// CreateCopy registers a new copy and returns its server-issued id.
func (c *Client) CreateCopy(ctx context.Context, p CreateCopyParams) (string, error) {
	var out struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	err := c.post(ctx, "/copies", p, &out)
	return out.ID, err
}

// UpdateCopy replaces a copy's data.
func (c *Client) UpdateCopy(ctx context.Context, id string, p UpdateCopyParams) error {
	return c.put(ctx, "/copies/"+url.PathEscape(id), p, nil)
}

// DeleteCopy removes a copy.
func (c *Client) DeleteCopy(ctx context.Context, id string) error {
	return c.delete(ctx, "/copies/"+url.PathEscape(id), nil)
}

// Editorials lists the publisher directory.
func (c *Client) Editorials(ctx context.Context) ([]catalog.Editorial, error) {
	var out []catalog.Editorial
	err := c.get(ctx, "/editoriales", &out)
	return out, err
}

// CreateEditorial adds a publisher and returns its server-issued id.
func (c *Client) CreateEditorial(ctx context.Context, nombre string) (string, error) {
	var out struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	err := c.post(ctx, "/editoriales", map[string]string{"nombre": nombre}, &out)
	return out.ID, err
}
