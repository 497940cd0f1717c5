package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"golang.org/x/term"
)

// terminal seams, replaced in tests
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// readLine prints prompt to w and returns one trimmed line from r. A last
// line without a newline is still returned.
func readLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a password without echo when stdin is a terminal and
// falls back to a plain line otherwise, so input can be piped in. The raw
// terminal buffer is zeroed once copied.
func readSecret(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return readLine(r, w, prompt)
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	defer common.WipeByteArray(pw)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
