package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func directory() []Socio {
	return []Socio{
		{ID: "s1", Nombre: "Ana García", Email: "ana@example.com", DNI: strp("30111222"), Activo: true},
		{ID: "s2", Nombre: "Anabel Torres", Email: "anabel@example.com", Activo: true},
		{ID: "s3", Nombre: "Juana Pérez", Email: "juana@example.com", DNI: strp("28999000"), Activo: false},
	}
}

func TestResolveExactEmailWinsOverPartials(t *testing.T) {
	// The exact email must auto-resolve even though "ana" alone is ambiguous.
	got, err := Resolve(directory(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
}

func TestResolveExactDNI(t *testing.T) {
	got, err := Resolve(directory(), "28999000")
	require.NoError(t, err)
	assert.Equal(t, "s3", got.ID)
}

func TestResolveExactNameCaseInsensitive(t *testing.T) {
	got, err := Resolve(directory(), "ANA GARCÍA")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
}

func TestResolveSinglePartialMatch(t *testing.T) {
	got, err := Resolve(directory(), "juan")
	require.NoError(t, err)
	assert.Equal(t, "s3", got.ID)
}

func TestResolveAmbiguousPartialsRejected(t *testing.T) {
	// "ana" appears in Ana, Anabel and Juana; never silently pick the first.
	_, err := Resolve(directory(), "ana")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestResolveNoMatch(t *testing.T) {
	_, err := Resolve(directory(), "zzz")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveEmptyQuery(t *testing.T) {
	_, err := Resolve(directory(), "   ")
	assert.ErrorIs(t, err, ErrNoMatch)
}
