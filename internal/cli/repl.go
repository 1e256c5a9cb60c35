package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	Submit(ctx context.Context) error
	History(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the enhancer CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on scanner EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	help                      — show available commands
//	register                  — create an account (then log in explicitly)
//	login                     — authenticate
//	whoami                    — show the current session
//	select <path>             — choose an image for enhancement
//	submit                    — upload the selected image
//	history | h               — fetch and show past jobs
//	delete <id>               — delete a history item (asks for confirmation)
//	download <unique_id> [to] — save a processed image locally
//	exit | quit               — leave the program
//
// Errors returned by command handlers are ignored here; handlers report their
// own failures. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("enh %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: select <path>, submit, (h)istory, delete <id>, download <unique_id> [dest], whoami, exit")
			} else {
				printlnFn("Available commands: register, login, whoami, (h)istory, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "select":
			_ = a.Select(ctx, args)

		case "submit":
			_ = a.Submit(ctx)

		case "h", "history", "list":
			_ = a.History(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
