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
	followNavigation(ctx context.Context)
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Ping(ctx context.Context) error
	Get(ctx context.Context, path string) error
	ChangePassword(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit" or "quit". Pending navigations are handled before each prompt.
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate
//	  - ping           check the server
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - whoami         show the current session
//	  - get <path>     fetch an API resource
//	  - passwd         change the password
//	  - ping           check the server
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Errors returned by handlers are ignored here; handlers print their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		a.followNavigation(ctx)

		printlnFn(fmt.Sprintf("boabp %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
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
				printlnFn("Available commands: whoami, get <path>, passwd, ping, logout, exit")
			} else {
				printlnFn("Available commands: login, ping, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "ping":
			_ = a.Ping(ctx)

		case "get":
			if len(args) == 0 {
				printlnFn("Usage: get <path>")
				continue
			}
			_ = a.Get(ctx, args[0])

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
