package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type captured struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
	CT     string
}

type backend struct {
	mu    sync.Mutex
	calls []captured
	reply func(w http.ResponseWriter, r *http.Request)
}

func (b *backend) handler(w http.ResponseWriter, r *http.Request) {
	c := captured{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, CT: r.Header.Get("Content-Type")}
	if r.Header.Get("Content-Type") == "application/json" {
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &c.Body)
		}
	}
	b.mu.Lock()
	b.calls = append(b.calls, c)
	b.mu.Unlock()

	if b.reply != nil {
		b.reply(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (b *backend) last(t *testing.T) captured {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.calls)
	return b.calls[len(b.calls)-1]
}

type refreshCounter struct {
	mu        sync.Mutex
	refreshes int
}

func (s *refreshCounter) AccessToken() string { return "tok" }
func (s *refreshCounter) RefreshAccessToken(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	return false
}
func (s *refreshCounter) Logout(context.Context) {}

func newClient(t *testing.T, b *backend) (*Client, *refreshCounter) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(b.handler))
	t.Cleanup(srv.Close)

	s := &refreshCounter{}
	p, err := transport.New(srv.URL+"/api/v1", transport.WithSession(s))
	require.NoError(t, err)
	return New(p), s
}

func TestAuthClient_Login(t *testing.T) {
	b := &backend{reply: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"a","refresh_token":"r","token_type":"bearer","user":{"id":1,"username":"alice","role":{"id":1,"name":"admin"}}}`))
	}}
	c, _ := newClient(t, b)

	resp, err := c.Auth.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, resp.Valid())
	assert.Equal(t, "admin", resp.User.RoleName())

	got := b.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/v1/auth/login", got.Path)
	assert.Equal(t, "alice", got.Body["username"])
}

func TestAuthClient_CallsDoNotRecover(t *testing.T) {
	b := &backend{reply: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid refresh token"}`))
	}}
	c, s := newClient(t, b)
	ctx := context.Background()

	_, err := c.Auth.Refresh(ctx, "r")
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrUnauthorized)
	assert.Equal(t, "Invalid refresh token", transport.MessageOf(err))

	_, err = c.Auth.Me(ctx)
	require.Error(t, err)
	require.Error(t, c.Auth.Logout(ctx))
	_, err = c.Auth.Login(ctx, models.LoginRequest{})
	require.Error(t, err)

	assert.Zero(t, s.refreshes)
}

func TestAuthClient_Refresh(t *testing.T) {
	b := &backend{reply: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"new","token_type":"bearer"}`))
	}}
	c, _ := newClient(t, b)

	resp, err := c.Auth.Refresh(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "new", resp.AccessToken)
	assert.Equal(t, "r1", b.last(t).Body["refresh_token"])
}

func TestResourceClients_Routes(t *testing.T) {
	ctx := context.Background()
	data := json.RawMessage(`{"name":"x"}`)
	p := ListParams{Skip: 20, Limit: 10, Filters: map[string]string{"status": "active"}}

	tests := []struct {
		name   string
		call   func(c *Client) error
		method string
		path   string
		check  func(t *testing.T, got captured)
	}{
		{
			name:   "blacklist list",
			call:   func(c *Client) error { _, err := c.Blacklist.List(ctx, p); return err },
			method: http.MethodPost, path: "/api/v1/blacklist/list",
			check: func(t *testing.T, got captured) {
				assert.EqualValues(t, 20, got.Body["skip"])
				assert.EqualValues(t, 10, got.Body["limit"])
				assert.Equal(t, "active", got.Body["status"])
			},
		},
		{
			name:   "blacklist update",
			call:   func(c *Client) error { _, err := c.Blacklist.Update(ctx, 7, data); return err },
			method: http.MethodPut, path: "/api/v1/blacklist/7",
		},
		{
			name:   "blacklist delete",
			call:   func(c *Client) error { return c.Blacklist.Delete(ctx, 7) },
			method: http.MethodDelete, path: "/api/v1/blacklist/7",
		},
		{
			name:   "blacklist export",
			call:   func(c *Client) error { _, err := c.Blacklist.Export(ctx, p); return err },
			method: http.MethodGet, path: "/api/v1/blacklist/export",
			check: func(t *testing.T, got captured) {
				assert.Contains(t, got.Query, "limit=10")
				assert.Contains(t, got.Query, "status=active")
			},
		},
		{
			name:   "order update merges id",
			call:   func(c *Client) error { _, err := c.Orders.Update(ctx, 3, data); return err },
			method: http.MethodPost, path: "/api/v1/orders/update",
			check: func(t *testing.T, got captured) {
				assert.EqualValues(t, 3, got.Body["order_id"])
				assert.Equal(t, "x", got.Body["name"])
			},
		},
		{
			name:   "order check",
			call:   func(c *Client) error { _, err := c.Orders.CheckBlacklist(ctx, 3); return err },
			method: http.MethodPost, path: "/api/v1/orders/3/check-blacklist",
		},
		{
			name:   "group batch check",
			call:   func(c *Client) error { _, err := c.Groups.BatchCheck(ctx, 5, true); return err },
			method: http.MethodPost, path: "/api/v1/groups/batch-check",
			check: func(t *testing.T, got captured) {
				assert.EqualValues(t, 5, got.Body["group_id"])
				assert.Equal(t, true, got.Body["force_recheck"])
			},
		},
		{
			name:   "screening start",
			call:   func(c *Client) error { _, err := c.Screening.Start(ctx, 9); return err },
			method: http.MethodPost, path: "/api/v1/screening/tasks/9/start",
		},
		{
			name:   "screening export format",
			call:   func(c *Client) error { _, err := c.Screening.Export(ctx, 9, ""); return err },
			method: http.MethodPost, path: "/api/v1/screening/tasks/9/export",
			check: func(t *testing.T, got captured) {
				assert.Equal(t, "format=excel", got.Query)
			},
		},
		{
			name:   "check statistics",
			call:   func(c *Client) error { _, err := c.BlacklistCheck.Statistics(ctx); return err },
			method: http.MethodGet, path: "/api/v1/blacklist-check/statistics",
		},
		{
			name:   "user detail",
			call:   func(c *Client) error { _, err := c.Users.Detail(ctx, 2); return err },
			method: http.MethodGet, path: "/api/v1/users/2",
		},
		{
			name:   "roles",
			call:   func(c *Client) error { _, err := c.Users.Roles(ctx); return err },
			method: http.MethodPost, path: "/api/v1/roles/list",
		},
		{
			name:   "admin config update",
			call:   func(c *Client) error { _, err := c.Admin.UpdateConfig(ctx, data); return err },
			method: http.MethodPut, path: "/api/v1/admin/config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &backend{}
			c, _ := newClient(t, b)

			require.NoError(t, tt.call(c))
			got := b.last(t)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestBlacklistClient_ListDecodesPage(t *testing.T) {
	b := &backend{reply: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1},{"id":2}],"total":2,"page":1,"size":20}`))
	}}
	c, _ := newClient(t, b)

	pg, err := c.Blacklist.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Len(t, pg.Data, 2)
	assert.Equal(t, 2, pg.Total)
	assert.JSONEq(t, `{"id":1}`, string(pg.Data[0]))
}

func TestScreeningClient_UploadIsMultipart(t *testing.T) {
	var fields map[string]string
	var fileData string
	b := &backend{reply: func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{"task_name": r.FormValue("task_name")}
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		fileData = string(data)
		_, _ = w.Write([]byte(`{"id":11}`))
	}}
	c, _ := newClient(t, b)

	out, err := c.Screening.Upload(context.Background(), "orders.xlsx", []byte("xlsx"), "weekly")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":11}`, string(out))
	assert.Equal(t, "weekly", fields["task_name"])
	assert.Equal(t, "xlsx", fileData)
	assert.Contains(t, b.last(t).CT, "multipart/form-data")
}

func TestOrderClient_UpdateRejectsNonObject(t *testing.T) {
	c, _ := newClient(t, &backend{})
	_, err := c.Orders.Update(context.Background(), 1, json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}
