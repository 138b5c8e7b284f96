package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier prints transient notices, one line each.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Success(_ context.Context, msg string) {
	n.print("[ok]", msg)
}

func (n *Notifier) Error(_ context.Context, msg string) {
	n.print("[error]", msg)
}

func (n *Notifier) print(tag, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, tag, msg)
}
