package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/viant/afs"

	"github.com/dmitrijs2005/bladmin/internal/client/api"
	"github.com/dmitrijs2005/bladmin/internal/client/config"
	"github.com/dmitrijs2005/bladmin/internal/client/router"
	"github.com/dmitrijs2005/bladmin/internal/client/session"
	"github.com/dmitrijs2005/bladmin/internal/client/storage"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
	"github.com/dmitrijs2005/bladmin/internal/logging"
)

type App struct {
	store  *session.Store
	api    *api.Client
	router *router.Router
	fs     afs.Service
	reader *bufio.Reader
	out    io.Writer
	logger logging.Logger
	now    func() time.Time
	closer io.Closer

	commands map[string]*command
}

// NewApp opens the session database and wires the pipeline, store and
// router for cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repo, db, err := storage.Open(ctx, cfg.StateDSN)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	notifier := NewNotifier(os.Stdout)

	p, err := transport.New(cfg.ServerBaseURL,
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithNotifier(notifier),
		transport.WithLogger(logger.With("component", "transport")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	client := api.New(p)
	store := session.NewStore(client.Auth, repo,
		session.WithNotifier(notifier),
		session.WithLogger(logger.With("component", "session")),
	)
	p.SetSession(store)

	table, err := router.NewTable(router.DefaultRoutes())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rt := router.New(table, router.NewGuard(store, logger.With("component", "guard")), logger.With("component", "router"))
	p.SetRedirector(rt)

	app := newApp(store, client, rt, os.Stdin, os.Stdout, logger)
	app.closer = db
	return app, nil
}

func newApp(store *session.Store, client *api.Client, rt *router.Router, in io.Reader, out io.Writer, logger logging.Logger) *App {
	a := &App{
		store:  store,
		api:    client,
		router: rt,
		fs:     afs.New(),
		reader: bufio.NewReader(in),
		out:    out,
		logger: logger,
		now:    time.Now,
	}
	a.registerCommands()
	return a
}

// Run lands on the dashboard, then serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Blacklist admin console (type 'help' for commands)")
	if ok, err := a.navigate(ctx, router.PathHome); err != nil {
		a.logger.Error(ctx, "initial navigation failed", "error", err)
	} else if ok {
		a.println(a.router.Current().Title())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

// getStatus is the prompt annotation: "(username role)" when logged in.
func (a *App) getStatus() string {
	u := a.store.User()
	if u == nil || !a.store.IsAuthenticated() {
		return ""
	}
	if role := u.RoleName(); role != "" {
		return fmt.Sprintf("(%s %s)", u.Username, role)
	}
	return fmt.Sprintf("(%s)", u.Username)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
