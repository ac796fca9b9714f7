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
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	IDs(ctx context.Context) error
	Create(ctx context.Context) error
	View(ctx context.Context, id string) error
	Update(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Convert(ctx context.Context, id, ext string) error
}

// runREPL starts a simple read–eval–print loop for the fragments CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as arguments, and dispatches to methods on 'a'. Unknown commands
// are reported back to the user. The loop exits on EOF, when ctx is done,
// or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               show available commands
//	  - login              authenticate
//	  - exit | quit        leave the program
//
//	Logged in:
//	  - help               show available commands
//	  - list | l           list fragments with metadata
//	  - ids                list fragment ids only
//	  - create             create a fragment (typed or @file content)
//	  - view <id>          show a fragment's content
//	  - update <id>        replace a fragment's content
//	  - delete <id>        delete a fragment
//	  - convert <id> <ext> show a fragment converted to ext
//	  - logout             log out
//	  - exit | quit        leave the program
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors and alert the user. This keeps the REPL loop resilient
// and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("fragments %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, ids, create, view <id>, update <id>, delete <id>, convert <id> <ext>, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "login":
			if a.isLoggedIn() {
				printlnFn("Already logged in. Type 'logout' first to switch users.")
				continue
			}
			_ = a.Login(ctx)
			continue
		}

		if !a.isLoggedIn() {
			if isKnownCommand(cmd) {
				printlnFn("Please login first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "l", "list":
			_ = a.List(ctx)

		case "ids":
			_ = a.IDs(ctx)

		case "create":
			_ = a.Create(ctx)

		case "view":
			if len(args) != 1 {
				printlnFn("Usage: view <id>")
				continue
			}
			_ = a.View(ctx, args[0])

		case "update":
			if len(args) != 1 {
				printlnFn("Usage: update <id>")
				continue
			}
			_ = a.Update(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "convert":
			if len(args) != 2 {
				printlnFn("Usage: convert <id> <ext>")
				continue
			}
			_ = a.Convert(ctx, args[0], args[1])

		case "logout":
			_ = a.Logout(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isKnownCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "ids", "create", "view", "update", "delete", "convert", "logout":
		return true
	}
	return false
}
