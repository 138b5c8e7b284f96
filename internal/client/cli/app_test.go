package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bladmin/internal/client/api"
	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/router"
	"github.com/dmitrijs2005/bladmin/internal/client/session"
	"github.com/dmitrijs2005/bladmin/internal/client/storage"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
	"github.com/dmitrijs2005/bladmin/internal/logging"
)

const roleViewer = "viewer"

// fakeBackend serves the endpoints the console tests touch. Resource
// endpoints require "Bearer <token>".
type fakeBackend struct {
	mu sync.Mutex

	role       string
	token      string
	refreshOK  bool
	expireNext bool

	exportName string

	calls   map[string]int
	uploads map[string]string
	bodies  map[string]string
}

func newFakeBackend(role string) *fakeBackend {
	return &fakeBackend{
		role:    role,
		token:      "tok-1",
		exportName: "blacklist.xlsx",
		calls:      map[string]int{},
		uploads: map[string]string{},
		bodies:  map[string]string{},
	}
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[path]++

	w.Header().Set("Content-Type", "application/json")
	user := fmt.Sprintf(`{"id":1,"username":"alice","role":{"id":2,"name":%q,"permissions":["blacklist:read"]}}`, b.role)

	switch path {
	case "/auth/login":
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":"ref-1","token_type":"bearer","user":%s}`, b.token, user)
		return
	case "/auth/refresh":
		if !b.refreshOK {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid refresh token"}`))
			return
		}
		fmt.Fprintf(w, `{"access_token":%q}`, b.token)
		return
	case "/auth/logout":
		_, _ = w.Write([]byte(`{"message":"ok"}`))
		return
	case "/auth/me":
		_, _ = w.Write([]byte(user))
		return
	case "/auth/register":
		_, _ = w.Write([]byte(`{"id":5,"username":"carol","email":"carol@example.com"}`))
		return
	}

	if b.expireNext {
		b.expireNext = false
		b.token = "tok-2"
	}
	if r.Header.Get(transport.AuthorizationHeader) != "Bearer "+b.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
		return
	}

	switch path {
	case "/blacklist/list", "/users/list":
		_, _ = w.Write([]byte(`{"data":[{"id":1},{"id":2}],"total":2,"page":1,"size":20}`))
	case "/blacklist":
		body, _ := io.ReadAll(r.Body)
		b.bodies[path] = string(body)
		_, _ = w.Write([]byte(`{"id":3}`))
	case "/blacklist/import":
		f, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		b.uploads[hdr.Filename] = string(data)
		_, _ = w.Write([]byte(`{"imported":2}`))
	case "/blacklist/export":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, b.exportName))
		_, _ = w.Write([]byte("xlsx-bytes"))
	case "/users/7":
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	case "/admin/stats", "/blacklist-check/statistics":
		_, _ = w.Write([]byte(`{"total_orders":10}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testEnv struct {
	app     *App
	out     *bytes.Buffer
	backend *fakeBackend
	store   *session.Store
}

func newTestEnv(t *testing.T, role string) *testEnv {
	t.Helper()
	b := newFakeBackend(role)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	notifier := NewNotifier(out)
	p, err := transport.New(srv.URL+"/api/v1", transport.WithNotifier(notifier))
	require.NoError(t, err)

	client := api.New(p)
	store := session.NewStore(client.Auth, storage.NewMemoryRepository(), session.WithNotifier(notifier))
	p.SetSession(store)

	table, err := router.NewTable(router.DefaultRoutes())
	require.NoError(t, err)
	rt := router.New(table, router.NewGuard(store, nil), nil)
	p.SetRedirector(rt)

	stubCredentials(t, "alice", "pw")
	return &testEnv{
		app:     newApp(store, client, rt, strings.NewReader(""), out, logging.Discard()),
		out:     out,
		backend: b,
		store:   store,
	}
}

func stubCredentials(t *testing.T, user, password string) {
	t.Helper()
	origText, origPass := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return user, nil }
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPass })
}

func (e *testEnv) exec(t *testing.T, line string) error {
	t.Helper()
	parts := strings.Fields(line)
	return e.app.Exec(context.Background(), parts[0], parts[1:])
}

func TestApp_ProtectedCommandPromptsLogin(t *testing.T) {
	e := newTestEnv(t, roleViewer)

	require.NoError(t, e.exec(t, "blacklist list limit=5"))

	assert.Equal(t, 1, e.backend.count("/auth/login"))
	assert.Equal(t, 1, e.backend.count("/blacklist/list"))
	assert.Contains(t, e.out.String(), "Authentication required: Blacklist - Blacklist Admin")
	assert.Contains(t, e.out.String(), "[ok] login successful")
	assert.Contains(t, e.out.String(), "total: 2, page 1, size 20")
	assert.Equal(t, "(alice viewer)", e.app.getStatus())
}

func TestApp_FailedLoginSkipsCommand(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	getPassword = func(io.Writer) ([]byte, error) { return nil, io.EOF }

	require.NoError(t, e.exec(t, "blacklist list"))
	assert.Zero(t, e.backend.count("/auth/login"))
	assert.Zero(t, e.backend.count("/blacklist/list"))
}

func TestApp_RoleGatedCommands(t *testing.T) {
	t.Run("denied", func(t *testing.T) {
		e := newTestEnv(t, roleViewer)
		require.NoError(t, e.app.Login(context.Background(), nil))

		require.NoError(t, e.exec(t, "users list"))
		require.NoError(t, e.exec(t, "admin stats"))

		assert.Zero(t, e.backend.count("/users/list"))
		assert.Zero(t, e.backend.count("/admin/stats"))
		assert.Contains(t, e.out.String(), "Access denied: Users - Blacklist Admin")
		assert.Contains(t, e.out.String(), "Access denied: Administration - Blacklist Admin")
	})

	t.Run("allowed", func(t *testing.T) {
		e := newTestEnv(t, router.RoleAdmin)
		require.NoError(t, e.app.Login(context.Background(), nil))

		require.NoError(t, e.exec(t, "users list"))
		require.NoError(t, e.exec(t, "admin stats"))

		assert.Equal(t, 1, e.backend.count("/users/list"))
		assert.Equal(t, 1, e.backend.count("/admin/stats"))
		assert.Contains(t, e.out.String(), `"total_orders": 10`)
	})
}

func TestApp_DeleteUser(t *testing.T) {
	e := newTestEnv(t, router.RoleSuperAdmin)
	require.NoError(t, e.app.Login(context.Background(), nil))

	require.NoError(t, e.exec(t, "users delete 7"))
	assert.Equal(t, 1, e.backend.count("/users/7"))
	assert.Contains(t, e.out.String(), "Deleted user 7")

	var ue *usageError
	assert.ErrorAs(t, e.exec(t, "users delete"), &ue)
}

func TestApp_LoginWhenAlreadyLoggedIn(t *testing.T) {
	e := newTestEnv(t, router.RoleAdmin)
	ctx := context.Background()

	require.NoError(t, e.app.Login(ctx, nil))
	require.NoError(t, e.app.Login(ctx, nil))

	assert.Equal(t, 1, e.backend.count("/auth/login"))
	assert.Contains(t, e.out.String(), "Already logged in as alice ["+router.RoleAdmin+"]")
}

func TestApp_Logout(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()

	require.NoError(t, e.app.Logout(ctx, nil))
	assert.Contains(t, e.out.String(), "Not logged in")

	require.NoError(t, e.app.Login(ctx, nil))
	require.NoError(t, e.exec(t, "logout"))

	assert.False(t, e.store.IsAuthenticated())
	assert.Equal(t, 1, e.backend.count("/auth/logout"))
	assert.Equal(t, router.PathLogin, e.app.router.Current().Path)
	assert.Empty(t, e.app.getStatus())
}

func TestApp_ImportAndExportThroughAFS(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx, nil))

	src := "mem://localhost/in/entries.xlsx"
	require.NoError(t, e.app.fs.Upload(ctx, src, 0o644, strings.NewReader("sheet-data")))

	require.NoError(t, e.exec(t, "blacklist import "+src))
	assert.Equal(t, "sheet-data", e.backend.uploads["entries.xlsx"])
	assert.Contains(t, e.out.String(), `"imported": 2`)

	require.NoError(t, e.exec(t, "blacklist export mem://localhost/out/ status=active"))
	data, err := e.app.fs.DownloadWithURL(ctx, "mem://localhost/out/blacklist.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))
	assert.Contains(t, e.out.String(), "Saved 10 bytes to mem://localhost/out/blacklist.xlsx")
}

func TestApp_ExportStaysInsideDirectory(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx, nil))
	e.backend.mu.Lock()
	e.backend.exportName = "../escaped.txt"
	e.backend.mu.Unlock()

	require.NoError(t, e.exec(t, "blacklist export mem://localhost/exports/"))

	ok, err := e.app.fs.Exists(ctx, "mem://localhost/exports/escaped.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = e.app.fs.Exists(ctx, "mem://localhost/escaped.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApp_RouteOr(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	edit := e.app.routeOr("blacklist-edit", "id", "/blacklist")

	assert.Equal(t, "/blacklist/42/edit", edit([]string{"42"}))
	assert.Equal(t, "/blacklist", edit([]string{"abc"}))
	assert.Equal(t, "/blacklist", edit(nil))

	results := e.app.routeOr("screening-results", "taskId", "/screening")
	assert.Equal(t, "/screening/7/results", results([]string{"7", "out/"}))
}

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"report.xlsx":      "report.xlsx",
		"../escaped.txt":   "escaped.txt",
		`..\..\evil.txt`: "evil.txt",
		"..":               "export.bin",
		"/":                "export.bin",
		"":                 "export.bin",
	}
	for in, want := range tests {
		assert.Equal(t, want, exportName(in), in)
	}
}

func TestApp_CreateFromJSONSource(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx, nil))

	good := "mem://localhost/in/entry.json"
	require.NoError(t, e.app.fs.Upload(ctx, good, 0o644, strings.NewReader(`{"name":"Bob","phone":"123"}`)))
	require.NoError(t, e.exec(t, "blacklist create "+good))
	assert.JSONEq(t, `{"name":"Bob","phone":"123"}`, e.backend.bodies["/blacklist"])

	bad := "mem://localhost/in/bad.json"
	require.NoError(t, e.app.fs.Upload(ctx, bad, 0o644, strings.NewReader(`{"name":`)))
	assert.ErrorIs(t, e.exec(t, "blacklist create "+bad), errInvalidJSON)
	assert.Equal(t, 1, e.backend.count("/blacklist"))
}

func TestApp_CreateFromTerminal(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx, nil))

	orig := getMultiline
	getMultiline = func(*bufio.Reader, string, io.Writer) (string, error) { return `{"name":"Eve"}`, nil }
	t.Cleanup(func() { getMultiline = orig })

	require.NoError(t, e.exec(t, "blacklist create"))
	assert.JSONEq(t, `{"name":"Eve"}`, e.backend.bodies["/blacklist"])
}

func TestApp_SessionLostDuringCommand(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx, nil))

	e.backend.mu.Lock()
	e.backend.expireNext = true
	e.backend.mu.Unlock()

	err := e.exec(t, "blacklist list")
	require.ErrorIs(t, err, transport.ErrUnauthorized)
	assert.False(t, e.store.IsAuthenticated())
	assert.Equal(t, 1, e.backend.count("/auth/refresh"))
	assert.Contains(t, e.out.String(), "Session expired")
}

func TestApp_RefreshKeepsCommandAlive(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx, nil))

	e.backend.mu.Lock()
	e.backend.expireNext = true
	e.backend.refreshOK = true
	e.backend.mu.Unlock()

	require.NoError(t, e.exec(t, "blacklist list"))
	assert.Equal(t, 2, e.backend.count("/blacklist/list"))
	assert.Equal(t, "tok-2", e.store.AccessToken())
	assert.NotContains(t, e.out.String(), "Session expired")
}

func TestApp_Token(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	now := time.Unix(1_700_000_000, 0)
	e.app.now = func() time.Time { return now }

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": now.Add(90 * time.Second).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	e.backend.token = tok

	require.NoError(t, e.app.Login(context.Background(), nil))
	require.NoError(t, e.exec(t, "token"))

	assert.Contains(t, e.out.String(), "subject: alice")
	assert.Contains(t, e.out.String(), "remaining: 1m30s")
	assert.Contains(t, e.out.String(), "expired: false")
}

func TestApp_WhoAmI(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	require.NoError(t, e.app.Login(context.Background(), nil))

	require.NoError(t, e.exec(t, "whoami"))
	assert.Contains(t, e.out.String(), "authenticated: true")
	assert.Contains(t, e.out.String(), "user: alice [viewer]")
	assert.Contains(t, e.out.String(), "permissions: blacklist:read")
}

func TestApp_Register(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	answers := []string{"carol", "carol@example.com", "", ""}
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}

	require.NoError(t, e.exec(t, "register"))
	assert.Equal(t, 1, e.backend.count("/auth/register"))
	assert.False(t, e.store.IsAuthenticated())
	assert.Contains(t, e.out.String(), "Registered carol. Use 'login' to sign in.")
	assert.Contains(t, e.out.String(), "[ok] registration successful")

	answers = []string{""}
	assert.ErrorContains(t, e.exec(t, "register"), "username: value required")
}

func TestApp_UsageAndUnknownCommands(t *testing.T) {
	e := newTestEnv(t, roleViewer)
	require.NoError(t, e.app.Login(context.Background(), nil))

	var ue *usageError
	assert.ErrorAs(t, e.exec(t, "blacklist"), &ue)
	assert.ErrorAs(t, e.exec(t, "blacklist nope"), &ue)
	assert.ErrorAs(t, e.exec(t, "blacklist show"), &ue)
	assert.ErrorContains(t, e.exec(t, "blacklist show abc"), "invalid id")
	assert.ErrorContains(t, e.exec(t, "frobnicate"), "unknown command")
}

func TestApp_Help(t *testing.T) {
	e := newTestEnv(t, roleViewer)

	h := e.app.Help(nil)
	assert.Contains(t, h, "blacklist <batch-delete|create|delete|export|history|import|list|show|update>")
	assert.Contains(t, h, "exit | quit")

	sub := e.app.Help([]string{"screening"})
	assert.Contains(t, sub, "screening export <id> <destination> [format]")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    api.ListParams
		pos     []string
		wantErr bool
	}{
		{name: "empty", want: api.ListParams{}},
		{
			name: "paging and filters",
			args: []string{"skip=20", "limit=10", "status=active"},
			want: api.ListParams{Skip: 20, Limit: 10, Filters: map[string]string{"status": "active"}},
		},
		{
			name: "positional kept in order",
			args: []string{"out/", "name=bob", "extra"},
			want: api.ListParams{Filters: map[string]string{"name": "bob"}},
			pos:  []string{"out/", "extra"},
		},
		{name: "bad limit", args: []string{"limit=x"}, wantErr: true},
		{name: "negative skip", args: []string{"skip=-1"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, pos, err := parseList(tc.args)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.pos, pos)
		})
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf)
	n.Success(context.Background(), "saved")
	n.Error(context.Background(), "failed")
	assert.Equal(t, "[ok] saved\n[error] failed\n", buf.String())
}

func TestPrintPage(t *testing.T) {
	var buf bytes.Buffer
	a := &App{out: &buf}
	a.printPage(&models.Page{Data: []json.RawMessage{json.RawMessage(`{"id":1}`)}, Total: 41, Page: 2, Size: 20, Pages: 3})
	assert.Equal(t, "{\"id\":1}\ntotal: 41, page 2/3, size 20\n", buf.String())
}
