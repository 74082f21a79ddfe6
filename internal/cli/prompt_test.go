package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTrims(t *testing.T) {
	var out strings.Builder
	p := NewTestPrompter(strings.NewReader("  ana@example.com  \n"), &out)

	got, err := p.Line("Email")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got)
	assert.Equal(t, "Email: ", out.String())
}

func TestPasswordFallbackKeepsInnerSpaces(t *testing.T) {
	var out strings.Builder
	p := NewTestPrompter(strings.NewReader("s3cret pass\n"), &out)

	got, err := p.Password("Contraseña")
	require.NoError(t, err)
	assert.Equal(t, "s3cret pass", got)
}

func TestLineWithoutTrailingNewline(t *testing.T) {
	p := NewTestPrompter(strings.NewReader("admin123"), &strings.Builder{})

	got, err := p.Line("Contraseña")
	require.NoError(t, err)
	assert.Equal(t, "admin123", got)
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":   true,
		"Y\n":   true,
		"yes\n": true,
		"n\n":   false,
		"\n":    false,
		"si\n":  false,
	} {
		p := NewTestPrompter(strings.NewReader(input), &strings.Builder{})
		got, err := p.Confirm("¿Continuar?")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}
}
