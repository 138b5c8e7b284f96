package router

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/logging"
)

// Session is what the guard needs from the credential store.
type Session interface {
	InitializeAuth(ctx context.Context) error
	IsAuthenticated() bool
	AccessToken() string
	User() *models.User
	GetCurrentUser(ctx context.Context) error
	Logout(ctx context.Context)
}

// Decision is the guard's verdict. Redirect is set when Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(path string) Decision {
	return Decision{Redirect: path}
}

type Guard struct {
	session Session
	logger  logging.Logger

	mu           sync.Mutex
	bootstrapped bool
}

func NewGuard(s Session, logger logging.Logger) *Guard {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Guard{session: s, logger: logger}
}

// Bootstrapped reports whether session restore has run.
func (g *Guard) Bootstrapped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bootstrapped
}

// bootstrap restores the session exactly once. Concurrent navigations wait
// for the first one.
func (g *Guard) bootstrap(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.bootstrapped {
		return
	}
	g.bootstrapped = true
	if err := g.session.InitializeAuth(ctx); err != nil {
		g.logger.Error(ctx, "session restore failed", "error", err)
	}
}

// Check decides whether navigation to d may proceed.
func (g *Guard) Check(ctx context.Context, d Destination) Decision {
	g.bootstrap(ctx)

	if d.Path == PathLogin && g.session.IsAuthenticated() {
		return redirect(PathHome)
	}
	if d.Route.Meta.Public {
		return allow()
	}

	if g.session.AccessToken() != "" && g.session.User() == nil {
		if err := g.session.GetCurrentUser(ctx); err != nil {
			g.logger.Warn(ctx, "profile fetch failed during navigation", "path", d.Path, "error", err)
			g.session.Logout(ctx)
			return redirect(PathLogin)
		}
	}

	u := g.session.User()
	if g.session.AccessToken() == "" || u == nil {
		g.logger.Debug(ctx, "navigation requires login", "path", d.Path)
		return redirect(PathLogin)
	}

	if roles := d.Route.Meta.Roles; len(roles) > 0 {
		if role := u.RoleName(); role == "" || !slices.Contains(roles, role) {
			g.logger.Info(ctx, "navigation denied by role", "path", d.Path, "role", role)
			return redirect(PathHome)
		}
	}
	return allow()
}
