package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Well-known paths.
const (
	PathLogin = "/login"
	PathHome  = "/"
)

// Role names as issued by the backend.
const (
	RoleSuperAdmin = "超级管理员"
	RoleAdmin      = "管理员"
)

const appTitle = "Blacklist Admin"

type Meta struct {
	Title string
	// Public destinations skip authentication.
	Public bool
	// Roles, when set, restricts the destination to users holding one of them.
	Roles []string
}

type Route struct {
	Name string
	Path string
	Meta Meta
}

// Destination is a resolved navigation target.
type Destination struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Title is the display title of the destination.
func (d Destination) Title() string {
	if d.Route.Meta.Title == "" {
		return appTitle
	}
	return d.Route.Meta.Title + " - " + appTitle
}

// NotFound is the catch-all route.
var NotFound = Route{Name: "not-found", Path: "/{path:.*}", Meta: Meta{Title: "Page not found", Public: true}}

// DefaultRoutes is the navigation table of the console.
func DefaultRoutes() []Route {
	admins := []string{RoleSuperAdmin, RoleAdmin}
	return []Route{
		{Name: "login", Path: PathLogin, Meta: Meta{Title: "Login", Public: true}},
		{Name: "register", Path: "/register", Meta: Meta{Title: "Register", Public: true}},
		{Name: "dashboard", Path: PathHome, Meta: Meta{Title: "Dashboard"}},
		{Name: "blacklist", Path: "/blacklist", Meta: Meta{Title: "Blacklist"}},
		{Name: "blacklist-create", Path: "/blacklist/create", Meta: Meta{Title: "Add blacklist entry"}},
		{Name: "blacklist-edit", Path: "/blacklist/{id:[0-9]+}/edit", Meta: Meta{Title: "Edit blacklist entry"}},
		{Name: "orders", Path: "/orders", Meta: Meta{Title: "Orders"}},
		{Name: "screening", Path: "/screening", Meta: Meta{Title: "Order screening"}},
		{Name: "screening-upload", Path: "/screening/upload", Meta: Meta{Title: "Upload screening file"}},
		{Name: "screening-results", Path: "/screening/{taskId:[0-9]+}/results", Meta: Meta{Title: "Screening results"}},
		{Name: "blacklist-check", Path: "/blacklist-check", Meta: Meta{Title: "Blacklist check results"}},
		{Name: "users", Path: "/users", Meta: Meta{Title: "Users", Roles: admins}},
		{Name: "admin", Path: "/admin", Meta: Meta{Title: "Administration", Roles: admins}},
		{Name: "debug-auth", Path: "/debug/auth", Meta: Meta{Title: "Auth debug"}},
		{Name: "debug-token", Path: "/debug/token", Meta: Meta{Title: "Token debug"}},
	}
}

// Table resolves paths to routes. Unknown paths resolve to NotFound.
type Table struct {
	mux    *mux.Router
	routes map[string]Route
}

func NewTable(routes []Route) (*Table, error) {
	t := &Table{mux: mux.NewRouter(), routes: make(map[string]Route, len(routes)+1)}
	for _, r := range append(routes, NotFound) {
		if _, dup := t.routes[r.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}
		mr := t.mux.Path(r.Path).Name(r.Name)
		if err := mr.GetError(); err != nil {
			return nil, fmt.Errorf("route %q: %w", r.Name, err)
		}
		t.routes[r.Name] = r
	}
	return t, nil
}

func (t *Table) Resolve(path string) Destination {
	if path == "" {
		path = PathHome
	}
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return Destination{Route: NotFound, Path: path}
	}

	var m mux.RouteMatch
	if !t.mux.Match(req, &m) || m.Route == nil {
		return Destination{Route: NotFound, Path: path}
	}
	r := t.routes[m.Route.GetName()]
	if r.Name == NotFound.Name {
		return Destination{Route: r, Path: path}
	}
	return Destination{Route: r, Path: req.URL.Path, Params: m.Vars}
}

// URL builds the path of a named route.
func (t *Table) URL(name string, pairs ...string) (string, error) {
	r := t.mux.Get(name)
	if r == nil {
		return "", fmt.Errorf("unknown route %q", name)
	}
	u, err := r.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("route %q: %w", name, err)
	}
	return u.Path, nil
}
