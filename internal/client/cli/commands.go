package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bladmin/internal/client/api"
	"github.com/dmitrijs2005/bladmin/internal/client/router"
)

type handler func(ctx context.Context, args []string) error

// command is a REPL verb. A command with subs dispatches on its first
// argument. dest maps the remaining arguments to a navigation target; a nil
// dest skips navigation.
type command struct {
	name    string
	summary string
	dest    func(args []string) string
	run     handler
	subs    map[string]*subcommand
}

type subcommand struct {
	usage string
	dest  func(args []string) string
	run   handler
}

type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return "usage: " + e.usage
}

func usage(u string) error {
	return &usageError{usage: u}
}

func at(path string) func([]string) string {
	return func([]string) string { return path }
}

// Exec runs one command line.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	c, ok := a.commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}

	dest, run := c.dest, c.run
	if c.subs != nil {
		if len(args) == 0 {
			return usage(c.usage())
		}
		s, ok := c.subs[args[0]]
		if !ok {
			return usage(c.usage())
		}
		dest, run, args = s.dest, s.run, args[1:]
	}

	if dest != nil {
		ok, err := a.navigate(ctx, dest(args))
		if err != nil || !ok {
			return err
		}
	}

	err := run(ctx, args)
	a.afterCommand()
	return err
}

func (c *command) usage() string {
	return c.name + " <" + strings.Join(c.subNames(), "|") + ">"
}

func (c *command) subNames() []string {
	names := make([]string, 0, len(c.subs))
	for n := range c.subs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Help lists the commands, or the subcommands of the command named in args.
func (a *App) Help(args []string) string {
	if len(args) > 0 {
		if c, ok := a.commands[args[0]]; ok && c.subs != nil {
			var b strings.Builder
			for _, n := range c.subNames() {
				fmt.Fprintf(&b, "  %s\n", c.subs[n].usage)
			}
			return strings.TrimRight(b.String(), "\n")
		}
	}

	names := make([]string, 0, len(a.commands))
	for n := range a.commands {
		names = append(names, n)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, n := range names {
		c := a.commands[n]
		line := c.name
		if c.subs != nil {
			line = c.usage()
		}
		fmt.Fprintf(&b, "  %-60s %s\n", line, c.summary)
	}
	b.WriteString("  exit | quit")
	return b.String()
}

func (a *App) registerCommands() {
	cmds := []*command{
		{name: "login", summary: "sign in", run: a.Login},
		{name: "logout", summary: "sign out and clear the saved session", run: a.Logout},
		{name: "register", summary: "create an account", dest: at("/register"), run: a.Register},
		{name: "whoami", summary: "show the session state", dest: at("/debug/auth"), run: a.WhoAmI},
		{name: "token", summary: "show access token claims", dest: at("/debug/token"), run: a.Token},
		{name: "dashboard", summary: "show check statistics", dest: at(router.PathHome), run: a.dashboard},
		{name: "blacklist", summary: "manage blacklist entries", subs: a.blacklistCommands()},
		{name: "orders", summary: "manage orders", subs: a.orderCommands()},
		{name: "groups", summary: "manage order groups", subs: a.groupCommands()},
		{name: "screening", summary: "run screening tasks", subs: a.screeningCommands()},
		{name: "check", summary: "blacklist check results", subs: a.checkCommands()},
		{name: "users", summary: "manage users", subs: a.userCommands()},
		{name: "roles", summary: "list roles", dest: at("/users"), run: a.roles},
		{name: "admin", summary: "system administration", subs: a.adminCommands()},
	}

	a.commands = make(map[string]*command, len(cmds))
	for _, c := range cmds {
		a.commands[c.name] = c
	}
}

// parseList splits args into paging/filter pairs (key=value) and
// positional arguments.
func parseList(args []string) (api.ListParams, []string, error) {
	var (
		p   api.ListParams
		pos []string
	)
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			pos = append(pos, arg)
			continue
		}
		switch k {
		case "skip", "limit":
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return p, nil, fmt.Errorf("%s: not a non-negative number: %q", k, v)
			}
			if k == "skip" {
				p.Skip = n
			} else {
				p.Limit = n
			}
		default:
			if p.Filters == nil {
				p.Filters = map[string]string{}
			}
			p.Filters[k] = v
		}
	}
	return p, pos, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
