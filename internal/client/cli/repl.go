package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Verify(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Update(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Delete(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// It returns on EOF or on "exit"/"quit". Handlers report their own errors
// and read their prompts from the same reader.
//
//	Not logged in:  help, register, verify, login, exit
//	Logged in:      help, whoami, update, refresh, logout, delete, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "ak%s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, update, refresh, logout, delete, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, verify, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "update":
			_ = a.Update(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
