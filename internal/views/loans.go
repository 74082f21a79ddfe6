package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"bookbuster/internal/api"
	"bookbuster/internal/bus"
	"bookbuster/internal/circulation"
	"bookbuster/internal/membership"
	"bookbuster/internal/penalties"
	"bookbuster/internal/view"
)

// MyLoansView is the member's own-loans screen, ordered by due date.
type MyLoansView struct {
	view.Lifecycle

	client      *api.Client
	bus         *bus.Bus
	unsubscribe func()

	mu    sync.Mutex
	loans []circulation.Loan
}

// NewMyLoansView creates the controller. It refreshes on any copies
// invalidation: a return elsewhere changes this list.
func NewMyLoansView(client *api.Client, b *bus.Bus) *MyLoansView {
	v := &MyLoansView{client: client, bus: b}
	v.unsubscribe = b.Copies.Subscribe(func(bus.CopiesChanged) {
		v.Refresh(context.Background())
	})
	return v
}

// Refresh fetches the viewer's loans.
func (v *MyLoansView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	loans, err := v.client.MyLoans(fctx)
	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.loans = circulation.SortByDueDate(loans)
	v.mu.Unlock()
	return nil
}

// Loans returns the loans in ascending due-date order.
func (v *MyLoansView) Loans() []circulation.Loan {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]circulation.Loan, len(v.loans))
	copy(out, v.loans)
	return out
}

// Close tears the controller down.
func (v *MyLoansView) Close() {
	v.unsubscribe()
	v.Lifecycle.Close()
}

// ReturnView is the operator's returns desk: resolve a socio, list their
// active loans, close one.
type ReturnView struct {
	view.Lifecycle

	client *api.Client
	bus    *bus.Bus

	mu    sync.Mutex
	dir   []membership.Socio
	socio *membership.Socio
	loans []circulation.Loan
}

// NewReturnView creates the controller. It holds no subscription: the desk
// re-queries per lookup rather than caching across socios.
func NewReturnView(client *api.Client, b *bus.Bus) *ReturnView {
	return &ReturnView{client: client, bus: b}
}

// Refresh loads the socio directory the lookup resolves against.
func (v *ReturnView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	dir, err := v.client.Socios(fctx)
	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.dir = dir
	v.mu.Unlock()
	return nil
}

// Lookup resolves query to one socio and loads their active loans, ordered
// by due date. An ambiguous or empty match clears the selection.
func (v *ReturnView) Lookup(ctx context.Context, query string) (membership.Socio, error) {
	v.mu.Lock()
	dir := v.dir
	v.mu.Unlock()

	socio, err := membership.Resolve(dir, query)
	if err != nil {
		v.mu.Lock()
		v.socio = nil
		v.loans = nil
		v.mu.Unlock()
		return membership.Socio{}, err
	}

	loans, err := v.client.LoansBySocio(ctx, socio.ID, circulation.LoanActive)
	if err != nil {
		return membership.Socio{}, err
	}

	v.mu.Lock()
	v.socio = &socio
	v.loans = circulation.SortByDueDate(loans)
	v.mu.Unlock()
	return socio, nil
}

// Socio returns the resolved selection, if any.
func (v *ReturnView) Socio() (membership.Socio, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.socio == nil {
		return membership.Socio{}, false
	}
	return *v.socio, true
}

// Loans returns the selected socio's active loans.
func (v *ReturnView) Loans() []circulation.Loan {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]circulation.Loan, len(v.loans))
	copy(out, v.loans)
	return out
}

// Return closes a loan. createPenalty asks the server to levy a late fee
// when the loan is overdue. The closed loan leaves the local list and a
// book-scoped invalidation is published so detail views of that book
// refetch their copies.
func (v *ReturnView) Return(ctx context.Context, loanID string, createPenalty bool) (circulation.Loan, error) {
	if err := v.BeginMutation(); err != nil {
		return circulation.Loan{}, err
	}
	returned, err := v.client.ReturnLoan(ctx, loanID, createPenalty)
	if err == nil {
		v.mu.Lock()
		kept := v.loans[:0]
		for _, l := range v.loans {
			if l.ID != loanID {
				kept = append(kept, l)
			}
		}
		v.loans = kept
		v.mu.Unlock()
	}
	v.EndMutation()
	if err != nil {
		return circulation.Loan{}, err
	}
	v.bus.Copies.Publish(bus.CopiesChanged{BookID: returned.LibroID})
	return returned, nil
}

// DashboardView is the member's home: profile, socio record, loans and own
// fines in one joint fetch.
type DashboardView struct {
	view.Lifecycle

	client *api.Client

	mu    sync.Mutex
	user  membership.User
	socio membership.SocioRef
	loans []circulation.Loan
	fines []penalties.Penalty
}

// NewDashboardView creates the controller.
func NewDashboardView(client *api.Client) *DashboardView {
	return &DashboardView{client: client}
}

// Refresh fetches the profile, then the socio record and loans
// concurrently.
func (v *DashboardView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	var (
		user  membership.User
		socio membership.SocioRef
		loans []circulation.Loan
		fines []penalties.Penalty
	)
	user, err = v.client.Profile(fctx)
	if err == nil {
		g, gctx := errgroup.WithContext(fctx)
		g.Go(func() error {
			var err error
			socio, err = v.client.SocioByUser(gctx, user.ID)
			return err
		})
		g.Go(func() error {
			var err error
			loans, err = v.client.MyLoans(gctx)
			return err
		})
		g.Go(func() error {
			// The fines load is optional: its absence degrades the
			// dashboard instead of blocking it.
			all, err := v.client.Penalties(gctx)
			if err != nil {
				return nil
			}
			fines = all
			return nil
		})
		err = g.Wait()
	}

	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	own := fines[:0]
	for _, p := range fines {
		if p.SocioID == socio.ID {
			own = append(own, p)
		}
	}

	v.mu.Lock()
	v.user = user
	v.socio = socio
	v.loans = circulation.SortByDueDate(loans)
	v.fines = own
	v.mu.Unlock()
	return nil
}

// User returns the profile as of the last committed fetch.
func (v *DashboardView) User() membership.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.user
}

// Socio returns the borrower record behind the profile.
func (v *DashboardView) Socio() membership.SocioRef {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.socio
}

// Loans returns the member's loans in ascending due-date order.
func (v *DashboardView) Loans() []circulation.Loan {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]circulation.Loan, len(v.loans))
	copy(out, v.loans)
	return out
}

// Penalties returns the member's own fines.
func (v *DashboardView) Penalties() []penalties.Penalty {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]penalties.Penalty, len(v.fines))
	copy(out, v.fines)
	return out
}
