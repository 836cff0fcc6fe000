package utils

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// TerminalWidth returns the column count of stdout, or fallback when stdout
// is not a terminal.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// ReadPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input.

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadPassphraseContext is ReadPassphrase with cancellation. An interrupt
// while the prompt is waiting wins over the prompt; the terminal is left for
// the process to clean up on exit.
func ReadPassphraseContext(ctx context.Context, prompt string) ([]byte, error) {
	type result struct {
		pass []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		pass, err := ReadPassphrase(prompt)
		ch <- result{pass, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.pass, r.err
	}
}

// ConfirmContext prints prompt and waits for the user to press Enter.
// Returns ctx.Err() if the run is cancelled while waiting.
func ConfirmContext(ctx context.Context, prompt string) error {
	fmt.Fprint(os.Stderr, prompt)

	ch := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		_, err := reader.ReadString('\n')
		ch <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-ch:
		return err
	}
}
