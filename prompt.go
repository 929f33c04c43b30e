package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

// passwordPrompt returns a masked-input prompt when stdin is a terminal,
// and nil otherwise. A nil prompt makes the session manager surface
// ErrNoCredentialSource instead of hanging on a pipe.
func passwordPrompt() vault.PasswordPrompt {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}

	return func(prompt string) (string, error) {
		fmt.Fprint(os.Stderr, prompt)

		password, err := term.ReadPassword(int(fd))

		// ReadPassword suppresses the user's newline; restore it so the
		// next line of output starts cleanly.
		fmt.Fprintln(os.Stderr)

		if err != nil {
			return "", err
		}

		return string(password), nil
	}
}

// stdin is shared across prompts so input typed ahead of one prompt stays
// buffered for the next instead of vanishing with a discarded reader.
var stdin = bufio.NewReader(os.Stdin)

// promptLine prints prompt and reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
