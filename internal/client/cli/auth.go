package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bladmin/internal/client/api"
	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/router"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Login prompts for credentials unless the session is already
// authenticated, in which case the guard sends login to the dashboard.
func (a *App) Login(ctx context.Context, _ []string) error {
	d, err := a.router.Push(ctx, router.PathLogin)
	if err != nil {
		return err
	}
	if d.Path != router.PathLogin {
		a.println("Already logged in as", a.store.User())
		return nil
	}
	a.login(ctx)
	return nil
}

// login prompts for username and password and reports whether the store
// accepted them. Notices are printed by the store.
func (a *App) login(ctx context.Context) bool {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		a.logger.Warn(ctx, "read username", "error", err)
		return false
	}

	password, err := getPassword(a.out)
	if err != nil {
		a.logger.Warn(ctx, "read password", "error", err)
		return false
	}
	defer clear(password)

	if !a.store.Login(ctx, userName, string(password)) {
		return false
	}
	_, _ = a.router.Push(ctx, router.PathHome)
	return true
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if a.store.AccessToken() == "" {
		a.println("Not logged in")
		return nil
	}
	a.store.Logout(ctx)
	_, err := a.router.Push(ctx, router.PathLogin)
	return err
}

// Register creates an account. The new user still has to log in.
func (a *App) Register(ctx context.Context, _ []string) error {
	var req models.RegisterRequest
	fields := []struct {
		prompt string
		dst    *string
		opt    bool
	}{
		{"Enter username", &req.Username, false},
		{"Enter email", &req.Email, false},
		{"Enter full name (optional)", &req.FullName, true},
		{"Enter phone (optional)", &req.Phone, true},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if v == "" && !f.opt {
			return fmt.Errorf("%s: value required", strings.TrimPrefix(f.prompt, "Enter "))
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)
	req.Password = string(password)

	u, err := a.store.Register(ctx, req)
	if err != nil {
		return err
	}
	a.println("Registered", u.Username+". Use 'login' to sign in.")
	return nil
}

// WhoAmI prints the session state as the auth debug page shows it.
func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	a.println("authenticated:", a.store.IsAuthenticated())
	a.println("has token:", a.store.AccessToken() != "")
	u := a.store.User()
	if u == nil {
		a.println("user: none")
		return nil
	}
	a.println("user:", u.String())
	if u.Role != nil {
		a.println("permissions:", strings.Join(u.Role.Permissions, ", "))
	}
	return nil
}

// Token prints the unverified claims of the access token.
func (a *App) Token(ctx context.Context, _ []string) error {
	claims, err := api.DecodeToken(a.store.AccessToken(), a.now())
	if err != nil {
		return err
	}
	a.println("subject:", claims.Subject)
	if !claims.IssuedAt.IsZero() {
		a.println("issued at:", claims.IssuedAt.Format(time.RFC3339))
	}
	if !claims.ExpiresAt.IsZero() {
		a.println("expires at:", claims.ExpiresAt.Format(time.RFC3339))
		a.println("remaining:", claims.Remaining(a.now()).Truncate(time.Second))
	}
	a.println("expired:", claims.Expired)
	return nil
}
