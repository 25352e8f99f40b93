package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL dispatches to. App
// satisfies it; tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	SetPicture(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Opportunities(ctx context.Context) error
	Wall(ctx context.Context, args []string) error
}

// runREPL reads lines from the scanner, parses the first token as the
// command, and dispatches to a. Unknown commands are reported back. The
// loop ends on EOF or "exit"/"quit".
//
// Handler errors are ignored here; handlers notify the user themselves.
// That keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(promptStyle.Render("campuslink " + statusFn() + "> "))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, update, setpic, verify, opportunities, wall, logout, exit")
			} else {
				printlnFn("Available commands: register, login, resetpw, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "update":
			_ = a.UpdateProfile(ctx)

		case "setpic":
			_ = a.SetPicture(ctx)

		case "verify":
			_ = a.VerifyEmail(ctx)

		case "resetpw":
			_ = a.ResetPassword(ctx)

		case "opps", "opportunities":
			_ = a.Opportunities(ctx)

		case "wall":
			_ = a.Wall(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
