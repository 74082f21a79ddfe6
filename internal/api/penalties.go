package api

import (
	"context"
	"net/url"

	"bookbuster/internal/penalties"
)

// CreatePenaltyParams keys a new fine to the fixed taxonomy. The server
// derives the amount from Tipo; the client never sends one.
type CreatePenaltyParams struct {
	SocioID    string  `json:"socio_id"`
	Tipo       string  `json:"tipo"`
	PrestamoID *string `json:"prestamo_id,omitempty"`
	Detalle    *string `json:"detalle,omitempty"`
}

// UpdatePenaltyParams patches a fine; nil fields are untouched.
type UpdatePenaltyParams struct {
	Estado  *string `json:"estado,omitempty"`
	Detalle *string `json:"detalle,omitempty"`
}

// Penalties lists all fines.
func (c *Client) Penalties(ctx context.Context) ([]penalties.Penalty, error) {
	var out []penalties.Penalty
	err := c.get(ctx, "/penalties", &out)
	return out, err
}

// CreatePenalty levies a fine and returns its server-issued id.
func (c *Client) CreatePenalty(ctx context.Context, p CreatePenaltyParams) (string, error) {
	var out struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	err := c.post(ctx, "/penalties", p, &out)
	return out.ID, err
}

// UpdatePenalty patches a fine.
func (c *Client) UpdatePenalty(ctx context.Context, id string, p UpdatePenaltyParams) error {
	return c.patch(ctx, "/penalties/"+url.PathEscape(id), p, nil)
}

// DeletePenalty removes a fine.
func (c *Client) DeletePenalty(ctx context.Context, id string) error {
	return c.delete(ctx, "/penalties/"+url.PathEscape(id), nil)
}
