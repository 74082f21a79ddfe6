package views

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bookbuster/internal/api"
	"bookbuster/internal/bus"
	"bookbuster/internal/catalog"
	"bookbuster/internal/circulation"
	"bookbuster/internal/membership"
	"bookbuster/internal/view"
)

// ErrCopyUnavailable rejects a rent on a copy the last fetch showed as
// loaned. The server re-checks regardless.
var ErrCopyUnavailable = errors.New("la copia no está disponible")

// FormatCount is one row of the detail view's availability summary.
type FormatCount struct {
	Formato   string
	Total     int
	Available int
}

// DetailView is the single-book screen: the book record, its copies, and,
// for elevated operators, the socio directory backing assisted rentals.
type DetailView struct {
	view.Lifecycle

	client      *api.Client
	bus         *bus.Bus
	bookID      string
	elevated    bool
	unsubscribe func()

	mu     sync.Mutex
	book   catalog.Book
	copies []catalog.Copy
	socios []membership.Socio
}

// NewDetailView creates the controller for one book. Elevated controllers
// additionally load the member directory so the operator can rent on a
// socio's behalf. It subscribes to copy invalidations scoped to this book.
func NewDetailView(client *api.Client, b *bus.Bus, bookID string, elevated bool) *DetailView {
	v := &DetailView{client: client, bus: b, bookID: bookID, elevated: elevated}
	v.unsubscribe = b.Copies.Subscribe(func(e bus.CopiesChanged) {
		if e.BookID == "" || e.BookID == v.bookID {
			v.Refresh(context.Background())
		}
	})
	return v
}

// Refresh loads the book and its copies concurrently, plus the socio
// directory when elevated. All three must succeed for the view to commit.
func (v *DetailView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	var (
		book   catalog.Book
		copies []catalog.Copy
		socios []membership.Socio
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		var err error
		book, err = v.client.Book(gctx, v.bookID)
		return err
	})
	g.Go(func() error {
		var err error
		copies, err = v.client.CopiesByBook(gctx, v.bookID)
		return err
	})
	if v.elevated {
		g.Go(func() error {
			var err error
			socios, err = v.client.Socios(gctx)
			return err
		})
	}
	err = g.Wait()

	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.book = book
	v.copies = copies
	v.socios = socios
	v.mu.Unlock()
	return nil
}

// Book returns the record as of the last committed fetch.
func (v *DetailView) Book() catalog.Book {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.book
}

// Copies returns all copies of the book.
func (v *DetailView) Copies() []catalog.Copy {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]catalog.Copy, len(v.copies))
	copy(out, v.copies)
	return out
}

// AvailableCopies returns only the copies a rent may target.
func (v *DetailView) AvailableCopies() []catalog.Copy {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []catalog.Copy
	for _, c := range v.copies {
		if c.Available() {
			out = append(out, c)
		}
	}
	return out
}

// FormatCounts summarizes availability per format, ordered by format name.
func (v *DetailView) FormatCounts() []FormatCount {
	v.mu.Lock()
	defer v.mu.Unlock()

	byFormat := make(map[string]*FormatCount)
	for _, c := range v.copies {
		fc, ok := byFormat[c.Formato]
		if !ok {
			fc = &FormatCount{Formato: c.Formato}
			byFormat[c.Formato] = fc
		}
		fc.Total++
		if c.Available() {
			fc.Available++
		}
	}

	out := make([]FormatCount, 0, len(byFormat))
	for _, fc := range byFormat {
		out = append(out, *fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Formato < out[j].Formato })
	return out
}

// Directory returns the socio directory; empty for non-elevated viewers.
func (v *DetailView) Directory() []membership.Socio {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]membership.Socio, len(v.socios))
	copy(out, v.socios)
	return out
}

// Rent opens a loan on copyID due on due (YYYY-MM-DD). socioQuery is empty
// when the viewer borrows for themselves; elevated operators pass a
// directory query that must resolve to exactly one socio. On success the
// local copy flips to loaned immediately and a scoped invalidation is
// published for every other view of this book.
func (v *DetailView) Rent(ctx context.Context, copyID, due, socioQuery string) (circulation.Loan, error) {
	if err := circulation.ValidateDueDate(due, time.Now()); err != nil {
		return circulation.Loan{}, err
	}
	if err := v.BeginMutation(); err != nil {
		return circulation.Loan{}, err
	}
	loan, err := v.rent(ctx, copyID, due, socioQuery)
	v.EndMutation()
	if err != nil {
		return circulation.Loan{}, err
	}
	v.bus.Copies.Publish(bus.CopiesChanged{BookID: v.bookID})
	return loan, nil
}

func (v *DetailView) rent(ctx context.Context, copyID, due, socioQuery string) (circulation.Loan, error) {
	v.mu.Lock()
	available := false
	for _, c := range v.copies {
		if c.ID == copyID {
			available = c.Available()
			break
		}
	}
	socios := v.socios
	v.mu.Unlock()

	if !available {
		return circulation.Loan{}, ErrCopyUnavailable
	}

	socioID := ""
	if socioQuery != "" {
		socio, err := membership.Resolve(socios, socioQuery)
		if err != nil {
			return circulation.Loan{}, err
		}
		socioID = socio.ID
	}

	loan, err := v.client.CreateLoan(ctx, copyID, due, socioID)
	if err != nil {
		return circulation.Loan{}, err
	}

	v.mu.Lock()
	for i := range v.copies {
		if v.copies[i].ID == copyID {
			v.copies[i].Estado = catalog.CopyLoaned
		}
	}
	v.mu.Unlock()
	return loan, nil
}

// Edit patches the book and invalidates every book listing. A patched
// title passes the same gate as creation.
func (v *DetailView) Edit(ctx context.Context, p api.UpdateBookParams) error {
	if p.Titulo != nil && len(strings.TrimSpace(*p.Titulo)) <= 1 {
		return ErrTitleTooShort
	}
	if err := v.BeginMutation(); err != nil {
		return err
	}
	err := v.client.UpdateBook(ctx, v.bookID, p)
	v.EndMutation()
	if err != nil {
		return err
	}
	v.bus.Books.Publish(struct{}{})
	return nil
}

// Close tears the controller down.
func (v *DetailView) Close() {
	v.unsubscribe()
	v.Lifecycle.Close()
}
