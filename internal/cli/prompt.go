// Package cli holds the terminal interaction layer: prompts, masked
// password entry, and the scoped terminal acquisition that guarantees the
// terminal is restored on every exit path, including nested prompts.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Terminal guards raw-mode access to a tty. Acquire saves the current
// state and returns the release that restores exactly that state. Access
// is exclusive: a second Acquire waits until the first release. Release is
// idempotent so deferred and explicit calls can coexist.
type Terminal struct {
	fd int

	mu sync.Mutex
}

// NewTerminal wraps the tty behind f.
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{fd: int(f.Fd())}
}

// Acquire snapshots the terminal state. The returned release restores it
// and may be called more than once.
func (t *Terminal) Acquire() (release func() error, err error) {
	t.mu.Lock()
	state, err := term.GetState(t.fd)
	if err != nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("read terminal state: %w", err)
	}

	var once sync.Once
	return func() error {
		var restoreErr error
		once.Do(func() {
			restoreErr = term.Restore(t.fd, state)
			t.mu.Unlock()
		})
		return restoreErr
	}, nil
}

// Prompter reads interactive input. When the input is a real tty,
// passwords are read in raw mode without echo; otherwise they fall back to
// plain line reads so piped input and tests work.
type Prompter struct {
	r   *bufio.Reader
	out io.Writer
	tty *Terminal
	fd  int
}

// NewPrompter builds a prompter over stdin/stdout.
func NewPrompter() *Prompter {
	p := &Prompter{r: bufio.NewReader(os.Stdin), out: os.Stdout}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		p.tty = NewTerminal(os.Stdin)
		p.fd = int(os.Stdin.Fd())
	}
	return p
}

// NewTestPrompter builds a prompter over arbitrary streams, never in raw
// mode.
func NewTestPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(in), out: out}
}

// Line prompts for one line and returns it trimmed.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prompts without echo. The terminal is restored before Password
// returns, whatever the read's outcome.
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)

	if p.tty == nil {
		line, err := p.r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	release, err := p.tty.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	raw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if restoreErr := release(); restoreErr != nil {
		return "", restoreErr
	}
	return string(raw), nil
}

// Confirm prompts for a yes/no answer. Only "y" and "yes" are true.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Line(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
