package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bladmin/internal/logging"
)

const maxRedirects = 5

var ErrTooManyRedirects = errors.New("too many redirects")

// Router tracks the current destination. It also serves as the pipeline's
// redirector, so a credential that cannot be recovered lands on login.
type Router struct {
	table  *Table
	guard  *Guard
	logger logging.Logger

	mu       sync.Mutex
	current  Destination
	redirect string
}

func New(table *Table, guard *Guard, logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Router{table: table, guard: guard, logger: logger}
}

// Push navigates to path and returns where navigation ended after guard
// redirects.
func (r *Router) Push(ctx context.Context, path string) (Destination, error) {
	requested := path
	for hops := 0; hops <= maxRedirects; hops++ {
		d := r.table.Resolve(path)
		dec := r.guard.Check(ctx, d)
		if dec.Allow {
			r.mu.Lock()
			r.current = d
			r.mu.Unlock()
			if d.Path != requested {
				r.logger.Debug(ctx, "navigation redirected", "from", requested, "to", d.Path)
			}
			return d, nil
		}
		path = dec.Redirect
	}
	return Destination{}, fmt.Errorf("navigate to %s: %w", requested, ErrTooManyRedirects)
}

// Redirect navigates to path on behalf of a background component and
// remembers it until TakeRedirect.
func (r *Router) Redirect(ctx context.Context, path string) {
	d, err := r.Push(ctx, path)
	if err != nil {
		r.logger.Warn(ctx, "redirect failed", "path", path, "error", err)
		return
	}
	r.mu.Lock()
	r.redirect = d.Path
	r.mu.Unlock()
}

// TakeRedirect returns and clears the last background redirect.
func (r *Router) TakeRedirect() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.redirect
	r.redirect = ""
	return p, p != ""
}

func (r *Router) Current() Destination {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Table() *Table {
	return r.table
}
