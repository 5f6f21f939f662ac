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
	awaitingOTP() bool
	Login(ctx context.Context) error
	Otp(ctx context.Context) error
	Resend(ctx context.Context) error
	Whoami(ctx context.Context) error
	Communities(ctx context.Context) error
	Join(ctx context.Context, args []string) error
	Posts(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	Verifications(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the Synapse Space CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate (may continue with otp/resend)
//	  - otp            — submit the one-time code for a pending login
//	  - resend         — ask for a fresh one-time code
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current account and access level
//	  - communities    — list communities
//	  - join <id>      — join a community
//	  - posts <id>     — list posts in a community
//	  - post <id>      — create a post (interactive title/body prompt)
//	  - verifications  — list accounts awaiting review (admins)
//	  - logout         — end the session
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ss> %s ", statusFn()))
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
				printlnFn("Available commands: whoami, communities, join <id>, posts <id>, post <id>, verifications, logout, exit")
			} else if a.awaitingOTP() {
				printlnFn("Available commands: otp, resend, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "otp":
			_ = a.Otp(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "communities":
			_ = a.Communities(ctx)

		case "join":
			_ = a.Join(ctx, args)

		case "posts":
			_ = a.Posts(ctx, args)

		case "post":
			_ = a.Post(ctx, args)

		case "verifications":
			_ = a.Verifications(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
