package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// readSecret prompts for a secret without echoing it to the terminal.
func readSecret(prompt string) ([]byte, error) {
	stdin := int(os.Stdin.Fd())
	initialTermState, err := term.GetState(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "stdin is not a terminal")
	}

	// Restore the terminal in the event of an interrupt.
	interrupt := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	defer close(done)
	go func() {
		select {
		case <-interrupt:
			_ = term.Restore(stdin, initialTermState)
			os.Exit(1)
		case <-done:
		}
	}()

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return secret, nil
}
