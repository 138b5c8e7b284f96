package cli

import (
	"context"

	"github.com/dmitrijs2005/bladmin/internal/client/router"
)

// navigate moves to path through the guard. A login redirect prompts for
// credentials once and retries. It reports whether path was reached.
func (a *App) navigate(ctx context.Context, path string) (bool, error) {
	want := a.router.Table().Resolve(path)

	for attempt := 0; attempt < 2; attempt++ {
		d, err := a.router.Push(ctx, path)
		if err != nil {
			return false, err
		}
		if d.Route.Name == want.Route.Name {
			return true, nil
		}

		if d.Path != router.PathLogin {
			a.println("Access denied:", want.Title())
			return false, nil
		}
		if attempt > 0 {
			return false, nil
		}
		a.println("Authentication required:", want.Title())
		if !a.login(ctx) {
			return false, nil
		}
	}
	return false, nil
}

// afterCommand reports a session that was lost while the command ran.
func (a *App) afterCommand() {
	if p, ok := a.router.TakeRedirect(); ok && p == router.PathLogin {
		a.println("Session expired. Use 'login' to sign in again.")
	}
}
