// Package circulation mirrors the backend's loan resource and carries the
// client-side due-date rules for the rental flow. Overdue status is never
// computed here; the client displays whatever estado the server returns.
package circulation

import (
	"errors"
	"sort"
	"time"
)

// Loan states, server-authoritative.
const (
	LoanActive    = "ACTIVO"
	LoanReturned  = "DEVUELTO"
	LoanOverdue   = "VENCIDO"
	LoanCancelled = "CANCELADO"
)

// LoanPeriod is the default rental length.
const LoanPeriod = 14 * 24 * time.Hour

// ErrDueDateBeforeToday rejects a user-adjusted due date earlier than the
// submission date.
var ErrDueDateBeforeToday = errors.New("due date cannot be before today")

// Loan mirrors the backend's loan shape. Listings carry the book id so a
// return can publish a book-scoped invalidation.
type Loan struct {
	ID               string  `json:"id"`
	CopiaID          string  `json:"copia_id"`
	LibroID          string  `json:"libro_id"`
	SocioID          string  `json:"socio_id"`
	FechaInicio      string  `json:"fecha_inicio"`
	FechaVencimiento string  `json:"fecha_vencimiento"`
	Estado           string  `json:"estado"`
	BookTitle        *string `json:"bookTitle,omitempty"`
}

// DefaultDueDate returns the due date offered for a loan opened at now:
// fourteen days out, as a date-only ISO string.
func DefaultDueDate(now time.Time) string {
	return now.Add(LoanPeriod).Format("2006-01-02")
}

// ValidateDueDate checks a user-adjusted due date against the floor: the
// date portion of now. The string must be a date-only ISO value.
func ValidateDueDate(due string, now time.Time) error {
	d, err := time.Parse("2006-01-02", due)
	if err != nil {
		return errors.New("due date must be YYYY-MM-DD")
	}
	today, _ := time.Parse("2006-01-02", now.Format("2006-01-02"))
	if d.Before(today) {
		return ErrDueDateBeforeToday
	}
	return nil
}

// SortByDueDate orders loans by ascending due date, the order the return
// picker presents them in.
func SortByDueDate(loans []Loan) []Loan {
	out := make([]Loan, len(loans))
	copy(out, loans)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FechaVencimiento < out[j].FechaVencimiento
	})
	return out
}
