package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// commander is the command surface the REPL drives. *App satisfies it.
type commander interface {
	signedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Profile(ctx context.Context) error
}

// runREPL reads one command per line from in until "exit", "quit" or end of
// input. Command errors are already reported by the commands themselves and
// never end the loop.
func runREPL(ctx context.Context, a commander, prompt func() string, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprint(out, prompt())

		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.signedIn() {
				fmt.Fprintln(out, "Available commands: status, profile, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, status, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "status":
			_ = a.Status(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
