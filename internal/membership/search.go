package membership

import (
	"errors"
	"strings"
)

// Errors returned by Resolve. Both mean the selection stays empty and the
// operator must refine the query; a multi-match is never silently resolved
// to the first hit.
var (
	ErrNoMatch   = errors.New("no socio matches the query")
	ErrAmbiguous = errors.New("query matches more than one socio")
)

// Resolve matches query against the socio directory and returns the single
// unambiguous match. Matching is case-insensitive on name, email and DNI.
// An exact email, DNI or name match wins over any number of partial
// matches; otherwise exactly one partial match resolves, zero partials is
// ErrNoMatch, and several partials is ErrAmbiguous.
func Resolve(directory []Socio, query string) (Socio, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Socio{}, ErrNoMatch
	}

	var partial []Socio
	for _, s := range directory {
		name := strings.ToLower(s.Nombre)
		email := strings.ToLower(s.Email)
		dni := ""
		if s.DNI != nil {
			dni = strings.ToLower(*s.DNI)
		}

		if email == q || name == q || (dni != "" && dni == q) {
			return s, nil
		}
		if strings.Contains(name, q) || strings.Contains(email, q) || (dni != "" && strings.Contains(dni, q)) {
			partial = append(partial, s)
		}
	}

	switch len(partial) {
	case 0:
		return Socio{}, ErrNoMatch
	case 1:
		return partial[0], nil
	default:
		return Socio{}, ErrAmbiguous
	}
}
