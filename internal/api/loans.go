package api

import (
	"context"
	"net/url"

	"bookbuster/internal/circulation"
)

// CreateLoan opens a loan on a copy. SocioID is empty when the acting user
// borrows for themselves; elevated actors pass the resolved member's id.
func (c *Client) CreateLoan(ctx context.Context, copiaID, fechaVencimiento, socioID string) (circulation.Loan, error) {
	payload := map[string]any{
		"copia_id":          copiaID,
		"fecha_vencimiento": fechaVencimiento,
	}
	if socioID != "" {
		payload["socio_id"] = socioID
	}
	var out circulation.Loan
	err := c.post(ctx, "/loans", payload, &out)
	return out, err
}

// LoansBySocio lists a member's loans, optionally filtered by estado.
func (c *Client) LoansBySocio(ctx context.Context, socioID, estado string) ([]circulation.Loan, error) {
	q := url.Values{}
	q.Set("socio_id", socioID)
	if estado != "" {
		q.Set("estado", estado)
	}
	var out []circulation.Loan
	err := c.get(ctx, "/loans?"+q.Encode(), &out)
	return out, err
}

// MyLoans lists the authenticated member's own loans.
func (c *Client) MyLoans(ctx context.Context) ([]circulation.Loan, error) {
	var out []circulation.Loan
	err := c.get(ctx, "/loans/mine", &out)
	return out, err
}

// ReturnLoan closes a loan and returns its updated record, which carries
// the book id the caller needs for a scoped invalidation. createPenalty
// asks the server to levy a late fee when applicable.
func (c *Client) ReturnLoan(ctx context.Context, loanID string, createPenalty bool) (circulation.Loan, error) {
	var out circulation.Loan
	err := c.patch(ctx, "/loans/"+url.PathEscape(loanID)+"/return", map[string]bool{
		"createPenalty": createPenalty,
	}, &out)
	return out, err
}
