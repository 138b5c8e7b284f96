package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/bladmin/internal/client/api"
	"github.com/dmitrijs2005/bladmin/internal/client/models"
)

func (a *App) dashboard(ctx context.Context, _ []string) error {
	stats, err := a.api.BlacklistCheck.Statistics(ctx)
	if err != nil {
		return err
	}
	a.printJSON(stats)
	return nil
}

func (a *App) roles(ctx context.Context, _ []string) error {
	out, err := a.api.Users.Roles(ctx)
	if err != nil {
		return err
	}
	a.printJSON(out)
	return nil
}

// show wraps a call returning JSON for an id given as the first argument.
func (a *App) show(use string, fn func(ctx context.Context, id int64) (json.RawMessage, error)) handler {
	return func(ctx context.Context, args []string) error {
		if len(args) < 1 {
			return usage(use)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		out, err := fn(ctx, id)
		if err != nil {
			return err
		}
		a.printJSON(out)
		return nil
	}
}

func (a *App) listPage(fn func(ctx context.Context, p api.ListParams) (*models.Page, error)) handler {
	return func(ctx context.Context, args []string) error {
		p, _, err := parseList(args)
		if err != nil {
			return err
		}
		page, err := fn(ctx, p)
		if err != nil {
			return err
		}
		a.printPage(page)
		return nil
	}
}

func (a *App) listRaw(fn func(ctx context.Context, p api.ListParams) (json.RawMessage, error)) handler {
	return func(ctx context.Context, args []string) error {
		p, _, err := parseList(args)
		if err != nil {
			return err
		}
		out, err := fn(ctx, p)
		if err != nil {
			return err
		}
		a.printJSON(out)
		return nil
	}
}

// create posts a JSON body read from args[0], or typed at the terminal.
func (a *App) create(prompt string, fn func(ctx context.Context, data json.RawMessage) (json.RawMessage, error)) handler {
	return func(ctx context.Context, args []string) error {
		body, err := a.readJSON(ctx, args, prompt)
		if err != nil {
			return err
		}
		out, err := fn(ctx, body)
		if err != nil {
			return err
		}
		a.printJSON(out)
		return nil
	}
}

func (a *App) update(use string, fn func(ctx context.Context, id int64, data json.RawMessage) (json.RawMessage, error)) handler {
	return func(ctx context.Context, args []string) error {
		if len(args) < 1 {
			return usage(use)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		body, err := a.readJSON(ctx, args[1:], "Enter the changed fields as JSON")
		if err != nil {
			return err
		}
		out, err := fn(ctx, id, body)
		if err != nil {
			return err
		}
		a.printJSON(out)
		return nil
	}
}

func (a *App) remove(use, what string, fn func(ctx context.Context, id int64) error) handler {
	return func(ctx context.Context, args []string) error {
		if len(args) < 1 {
			return usage(use)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := fn(ctx, id); err != nil {
			return err
		}
		a.println("Deleted", what, id)
		return nil
	}
}

func (a *App) blacklistCommands() map[string]*subcommand {
	bl := a.api.Blacklist
	list := at("/blacklist")
	return map[string]*subcommand{
		"list":   {usage: "blacklist list [skip=N] [limit=N] [field=value...]", dest: list, run: a.listPage(bl.List)},
		"show":   {usage: "blacklist show <id>", dest: list, run: a.show("blacklist show <id>", bl.Detail)},
		"create": {usage: "blacklist create [json-source]", dest: at("/blacklist/create"), run: a.create("Enter the entry as JSON", bl.Create)},
		"update": {usage: "blacklist update <id> [json-source]", dest: a.routeOr("blacklist-edit", "id", "/blacklist"), run: a.update("blacklist update <id> [json-source]", bl.Update)},
		"delete": {usage: "blacklist delete <id>", dest: list, run: a.remove("blacklist delete <id>", "blacklist entry", bl.Delete)},
		"batch-delete": {usage: "blacklist batch-delete <id>...", dest: list, run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return usage("blacklist batch-delete <id>...")
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			out, err := bl.BatchDelete(ctx, ids)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
		"import": {usage: "blacklist import <source>", dest: list, run: a.upload("blacklist import <source>", bl.Import)},
		"export": {usage: "blacklist export <destination> [field=value...]", dest: list, run: func(ctx context.Context, args []string) error {
			p, pos, err := parseList(args)
			if err != nil {
				return err
			}
			if len(pos) < 1 {
				return usage("blacklist export <destination> [field=value...]")
			}
			dl, err := bl.Export(ctx, p)
			if err != nil {
				return err
			}
			return a.saveDownload(ctx, pos[0], dl)
		}},
		"history": {usage: "blacklist history <id>", dest: list, run: a.show("blacklist history <id>", bl.History)},
	}
}

// routeOr builds the path of a named route from the first argument, falling
// back when the argument does not fit the route template.
func (a *App) routeOr(name, key, fallback string) func([]string) string {
	return func(args []string) string {
		if len(args) == 0 {
			return fallback
		}
		p, err := a.router.Table().URL(name, key, args[0])
		if err != nil {
			return fallback
		}
		return p
	}
}

// upload wraps a single-file multipart call whose source is args[0].
func (a *App) upload(use string, fn func(ctx context.Context, name string, data []byte) (json.RawMessage, error)) handler {
	return func(ctx context.Context, args []string) error {
		if len(args) < 1 {
			return usage(use)
		}
		data, name, err := a.readSource(ctx, args[0])
		if err != nil {
			return err
		}
		out, err := fn(ctx, name, data)
		if err != nil {
			return err
		}
		a.printJSON(out)
		return nil
	}
}

func (a *App) saveDownload(ctx context.Context, location string, dl *models.Download) error {
	dest, err := a.writeDownload(ctx, location, dl)
	if err != nil {
		return err
	}
	a.println("Saved", len(dl.Data), "bytes to", dest)
	return nil
}

func (a *App) orderCommands() map[string]*subcommand {
	oc := a.api.Orders
	orders := at("/orders")
	return map[string]*subcommand{
		"list":   {usage: "orders list [skip=N] [limit=N] [field=value...]", dest: orders, run: a.listPage(oc.List)},
		"show":   {usage: "orders show <id>", dest: orders, run: a.show("orders show <id>", oc.Detail)},
		"create": {usage: "orders create [json-source]", dest: orders, run: a.create("Enter the order as JSON", oc.Create)},
		"update": {usage: "orders update <id> [json-source]", dest: orders, run: a.update("orders update <id> [json-source]", oc.Update)},
		"upload": {usage: "orders upload <source>", dest: orders, run: a.upload("orders upload <source>", oc.UploadExcel)},
		"delete": {usage: "orders delete <id>...", dest: orders, run: func(ctx context.Context, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			switch len(ids) {
			case 0:
				return usage("orders delete <id>...")
			case 1:
				if err := oc.Delete(ctx, ids[0]); err != nil {
					return err
				}
				a.println("Deleted order", ids[0])
				return nil
			}
			out, err := oc.BatchDelete(ctx, ids)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
		"check": {usage: "orders check <id>...", dest: orders, run: func(ctx context.Context, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			var out json.RawMessage
			switch len(ids) {
			case 0:
				return usage("orders check <id>...")
			case 1:
				out, err = oc.CheckBlacklist(ctx, ids[0])
			default:
				out, err = oc.BatchCheckBlacklist(ctx, ids)
			}
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
		"export": {usage: "orders export <destination> [field=value...]", dest: orders, run: func(ctx context.Context, args []string) error {
			p, pos, err := parseList(args)
			if err != nil {
				return err
			}
			if len(pos) < 1 {
				return usage("orders export <destination> [field=value...]")
			}
			dl, err := oc.Export(ctx, p)
			if err != nil {
				return err
			}
			return a.saveDownload(ctx, pos[0], dl)
		}},
	}
}

func (a *App) groupCommands() map[string]*subcommand {
	gc := a.api.Groups
	orders := at("/orders")
	return map[string]*subcommand{
		"list":   {usage: "groups list [skip=N] [limit=N] [field=value...]", dest: orders, run: a.listPage(gc.List)},
		"show":   {usage: "groups show <id>", dest: orders, run: a.show("groups show <id>", gc.Detail)},
		"create": {usage: "groups create [json-source]", dest: orders, run: a.create("Enter the group as JSON", gc.Create)},
		"update": {usage: "groups update <id> [json-source]", dest: orders, run: a.update("groups update <id> [json-source]", gc.Update)},
		"delete": {usage: "groups delete <id>", dest: orders, run: a.remove("groups delete <id>", "group", gc.Delete)},
		"check": {usage: "groups check <id> [force]", dest: orders, run: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return usage("groups check <id> [force]")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			force := len(args) > 1 && args[1] == "force"
			out, err := gc.BatchCheck(ctx, id, force)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
		"upload": {usage: "groups upload <id> <source>", dest: orders, run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return usage("groups upload <id> <source>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			data, name, err := a.readSource(ctx, args[1])
			if err != nil {
				return err
			}
			out, err := gc.UploadExcel(ctx, id, name, data)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
	}
}

func (a *App) screeningCommands() map[string]*subcommand {
	sc := a.api.Screening
	screening := at("/screening")
	results := a.routeOr("screening-results", "taskId", "/screening")
	return map[string]*subcommand{
		"upload": {usage: "screening upload <source> [task name]", dest: at("/screening/upload"), run: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return usage("screening upload <source> [task name]")
			}
			data, name, err := a.readSource(ctx, args[0])
			if err != nil {
				return err
			}
			out, err := sc.Upload(ctx, name, data, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
		"tasks": {usage: "screening tasks [skip=N] [limit=N] [field=value...]", dest: screening, run: a.listRaw(sc.Tasks)},
		"task":  {usage: "screening task <id>", dest: screening, run: a.show("screening task <id>", sc.Task)},
		"start": {usage: "screening start <id>", dest: screening, run: a.show("screening start <id>", sc.Start)},
		"results": {usage: "screening results <id> [skip=N] [limit=N]", dest: results, run: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return usage("screening results <id> [skip=N] [limit=N]")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, _, err := parseList(args[1:])
			if err != nil {
				return err
			}
			out, err := sc.Results(ctx, id, p)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
		"export": {usage: "screening export <id> <destination> [format]", dest: results, run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return usage("screening export <id> <destination> [format]")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			format := ""
			if len(args) > 2 {
				format = args[2]
			}
			dl, err := sc.Export(ctx, id, format)
			if err != nil {
				return err
			}
			return a.saveDownload(ctx, args[1], dl)
		}},
	}
}

func (a *App) checkCommands() map[string]*subcommand {
	cc := a.api.BlacklistCheck
	check := at("/blacklist-check")
	return map[string]*subcommand{
		"order":   {usage: "check order <id>", dest: check, run: a.show("check order <id>", cc.CheckOrder)},
		"orders":  {usage: "check orders [field=value...]", dest: check, run: a.listRaw(cc.CheckOrders)},
		"matches": {usage: "check matches [field=value...]", dest: check, run: a.listRaw(cc.Matches)},
		"stats": {usage: "check stats", dest: check, run: func(ctx context.Context, _ []string) error {
			return a.dashboard(ctx, nil)
		}},
	}
}

func (a *App) userCommands() map[string]*subcommand {
	uc := a.api.Users
	users := at("/users")
	return map[string]*subcommand{
		"list":   {usage: "users list [skip=N] [limit=N] [field=value...]", dest: users, run: a.listPage(uc.List)},
		"show":   {usage: "users show <id>", dest: users, run: a.show("users show <id>", uc.Detail)},
		"create": {usage: "users create [json-source]", dest: users, run: a.create("Enter the user as JSON", uc.Create)},
		"update": {usage: "users update <id> [json-source]", dest: users, run: a.update("users update <id> [json-source]", uc.Update)},
		"delete": {usage: "users delete <id>", dest: users, run: a.remove("users delete <id>", "user", uc.Delete)},
	}
}

func (a *App) adminCommands() map[string]*subcommand {
	ac := a.api.Admin
	admin := at("/admin")
	noArgs := func(fn func(ctx context.Context) (json.RawMessage, error)) handler {
		return func(ctx context.Context, _ []string) error {
			out, err := fn(ctx)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}
	}
	return map[string]*subcommand{
		"stats":  {usage: "admin stats", dest: admin, run: noArgs(ac.Stats)},
		"backup": {usage: "admin backup", dest: admin, run: noArgs(ac.Backup)},
		"logs":   {usage: "admin logs [field=value...]", dest: admin, run: a.listRaw(ac.Logs)},
		"config": {usage: "admin config [json-source]", dest: admin, run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return noArgs(ac.Config)(ctx, nil)
			}
			body, err := a.readJSON(ctx, args, "")
			if err != nil {
				return err
			}
			out, err := ac.UpdateConfig(ctx, body)
			if err != nil {
				return err
			}
			a.printJSON(out)
			return nil
		}},
	}
}
