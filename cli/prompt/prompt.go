// Package prompt reads secrets interactively from the terminal.
package prompt

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	isatty "github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Secret prints the message and reads a line without echoing it. The
// message goes to stderr so piped stdout stays clean.
func Secret(msg string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("cannot prompt for a secret, stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, msg)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	// the user's enter key is not echoed while reading
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "could not read secret from terminal")
	}
	return string(pass), nil
}
