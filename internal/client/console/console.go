// Package console adapts the client controllers to a terminal: yes/no
// prompts, notifications, the login redirect and hidden password input.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/SscSPs/treasury_backoffice/internal/client/remittance"
	"golang.org/x/term"
)

// ErrNoAnswer is returned when input ends before the operator answered.
var ErrNoAnswer = errors.New("no answer on input")

// Terminal reads answers from in and writes prompts and notices to out.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
	// assumeYes answers every confirmation with yes without reading input.
	assumeYes bool
}

// NewTerminal creates a Terminal. With assumeYes set, confirmations are
// printed but not asked.
func NewTerminal(in io.Reader, out io.Writer, assumeYes bool) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

var (
	_ remittance.Confirmer = (*Terminal)(nil)
	_ remittance.Notifier  = (*Terminal)(nil)
)

// Confirm asks a yes/no question. "o", "oui", "y" and "yes" mean yes;
// anything else, including an empty line, means no.
func (t *Terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.assumeYes {
		fmt.Fprintf(t.out, "%s [o/N] o\n", prompt)
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(t.out, "%s [o/N] ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		fmt.Fprintln(t.out)
		if errors.Is(err, io.EOF) {
			return false, ErrNoAnswer
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "o", "oui", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Notify prints a notice. Errors are prefixed so they stand out in
// scrolled output.
func (t *Terminal) Notify(level remittance.Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if level == remittance.LevelError {
		fmt.Fprintln(t.out, "Erreur: "+message)
		return
	}
	fmt.Fprintln(t.out, message)
}

// Navigate tells the operator the session is gone. The console has a single
// view, so the only route it knows is the login command.
func (t *Terminal) Navigate(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Session expirée. Reconnectez-vous avec « treasury login » (%s).\n", route)
}

// Prompt reads one line after printing label.
func (t *Terminal) Prompt(label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword reads a password without echo when in is a terminal, and as
// a plain line otherwise (pipes, tests).
func (t *Terminal) ReadPassword(in *os.File, label string) (string, error) {
	if in != nil && term.IsTerminal(int(in.Fd())) {
		t.mu.Lock()
		defer t.mu.Unlock()
		fmt.Fprint(t.out, label)
		pw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}
	return t.Prompt(label)
}
