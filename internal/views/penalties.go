package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"bookbuster/internal/api"
	"bookbuster/internal/membership"
	"bookbuster/internal/penalties"
	"bookbuster/internal/view"
)

// PenaltiesView is the fines administration screen: the fine ledger plus
// the socio directory new fines are keyed against.
type PenaltiesView struct {
	view.Lifecycle

	client *api.Client

	mu    sync.Mutex
	fines []penalties.Penalty
	dir   []membership.Socio
}

// NewPenaltiesView creates the controller.
func NewPenaltiesView(client *api.Client) *PenaltiesView {
	return &PenaltiesView{client: client}
}

// Refresh loads the ledger and the directory concurrently.
func (v *PenaltiesView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	var (
		fines []penalties.Penalty
		dir   []membership.Socio
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		var err error
		fines, err = v.client.Penalties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dir, err = v.client.Socios(gctx)
		return err
	})
	err = g.Wait()

	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.fines = fines
	v.dir = dir
	v.mu.Unlock()
	return nil
}

// Penalties returns the ledger as of the last committed fetch.
func (v *PenaltiesView) Penalties() []penalties.Penalty {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]penalties.Penalty, len(v.fines))
	copy(out, v.fines)
	return out
}

// Pending returns only the unpaid fines.
func (v *PenaltiesView) Pending() []penalties.Penalty {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []penalties.Penalty
	for _, p := range v.fines {
		if p.Estado == penalties.StatusPending {
			out = append(out, p)
		}
	}
	return out
}

// Create levies a fine of the given taxonomy type on the socio resolved
// from socioQuery. The amount is the server's; the form only shows the
// type's reference amount. It returns the new fine's id.
func (v *PenaltiesView) Create(ctx context.Context, socioQuery, tipo string, detalle string) (string, error) {
	v.mu.Lock()
	dir := v.dir
	v.mu.Unlock()

	socio, err := membership.Resolve(dir, socioQuery)
	if err != nil {
		return "", err
	}

	if err := v.BeginMutation(); err != nil {
		return "", err
	}
	params := api.CreatePenaltyParams{SocioID: socio.ID, Tipo: tipo}
	if detalle != "" {
		params.Detalle = &detalle
	}
	id, err := v.client.CreatePenalty(ctx, params)
	v.EndMutation()
	if err != nil {
		return "", err
	}
	return id, v.Refresh(ctx)
}

// MarkPaid settles a fine. Marking an already-paid fine is a no-op rather
// than an error, so a double-click costs nothing.
func (v *PenaltiesView) MarkPaid(ctx context.Context, id string) error {
	v.mu.Lock()
	alreadyPaid := false
	for _, p := range v.fines {
		if p.ID == id && p.Estado == penalties.StatusPaid {
			alreadyPaid = true
			break
		}
	}
	v.mu.Unlock()
	if alreadyPaid {
		return nil
	}

	if err := v.BeginMutation(); err != nil {
		return err
	}
	paid := penalties.StatusPaid
	err := v.client.UpdatePenalty(ctx, id, api.UpdatePenaltyParams{Estado: &paid})
	if err == nil {
		v.mu.Lock()
		for i := range v.fines {
			if v.fines[i].ID == id {
				v.fines[i].Estado = penalties.StatusPaid
			}
		}
		v.mu.Unlock()
	}
	v.EndMutation()
	return err
}

// Delete removes a fine from the ledger.
func (v *PenaltiesView) Delete(ctx context.Context, id string) error {
	if err := v.BeginMutation(); err != nil {
		return err
	}
	err := v.client.DeletePenalty(ctx, id)
	if err == nil {
		v.mu.Lock()
		kept := v.fines[:0]
		for _, p := range v.fines {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		v.fines = kept
		v.mu.Unlock()
	}
	v.EndMutation()
	return err
}
