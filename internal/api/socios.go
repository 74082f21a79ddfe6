package api

import (
	"context"
	"net/url"

	"bookbuster/internal/membership"
)

// Socios lists the member directory with loan and penalty counters.
func (c *Client) Socios(ctx context.Context) ([]membership.Socio, error) {
	var out []membership.Socio
	err := c.get(ctx, "/socios", &out)
	return out, err
}

// SocioByUser resolves the socio record behind a user account.
func (c *Client) SocioByUser(ctx context.Context, userID string) (membership.SocioRef, error) {
	var out membership.SocioRef
	err := c.get(ctx, "/socios/by-user/"+url.PathEscape(userID), &out)
	return out, err
}

// Requests lists registration requests.
func (c *Client) Requests(ctx context.Context) ([]membership.RegistrationRequest, error) {
	var out []membership.RegistrationRequest
	err := c.get(ctx, "/solicitudes", &out)
	return out, err
}

// CreateRequest files a registration request on behalf of an applicant.
func (c *Client) CreateRequest(ctx context.Context, nombre, email, telefono string) (string, error) {
	payload := map[string]any{"nombre": nombre, "email": email}
	if telefono != "" {
		payload["telefono"] = telefono
	}
	var out struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	err := c.post(ctx, "/solicitudes", payload, &out)
	return out.ID, err
}

// ApproveRequest converts a pending request into a user and socio pair
// server-side.
func (c *Client) ApproveRequest(ctx context.Context, id string) error {
	return c.post(ctx, "/solicitudes/"+url.PathEscape(id)+"/approve", nil, nil)
}

// RejectRequest declines a pending request with the operator's reason.
func (c *Client) RejectRequest(ctx context.Context, id, motivo string) error {
	return c.post(ctx, "/solicitudes/"+url.PathEscape(id)+"/reject", map[string]string{"motivo": motivo}, nil)
}

// DevSeed loads development fixtures. The server reports whether anything
// was created so callers can set their one-shot marker.
func (c *Client) DevSeed(ctx context.Context) (bool, error) {
	var out struct {
		Created bool `json:"created"`
	}
	err := c.post(ctx, "/dev/seed", nil, &out)
	return out.Created, err
}
