package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Help(args []string) string
	Exec(ctx context.Context, name string, args []string) error
}

// runREPL starts a read–eval–print loop for the console.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to a.Exec. The loop exits on EOF, on context cancellation or
// when the user types "exit" or "quit".
//
// Errors carrying an HTTP status were already shown by the notifier and are
// not printed again.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("bladmin %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if !a.isLoggedIn() && len(args) == 0 {
				printlnFn("Not logged in. Use 'login' or 'register'.")
			}
			printlnFn(a.Help(args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := a.Exec(ctx, cmd, args); err != nil && shouldReport(err) {
				printlnFn("Error:", err)
			}
		}
	}
}

func shouldReport(err error) bool {
	var se *transport.StatusError
	return !errors.As(err, &se)
}
