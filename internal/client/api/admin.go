package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type AdminClient struct {
	d Doer
}

func (c *AdminClient) Stats(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/admin/stats", nil))
}

func (c *AdminClient) Config(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/admin/config", nil))
}

func (c *AdminClient) UpdateConfig(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, &transport.Call{Method: http.MethodPut, Path: "/admin/config", Body: data})
}

func (c *AdminClient) Backup(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/admin/backup", nil))
}

func (c *AdminClient) Logs(ctx context.Context, p ListParams) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/admin/logs", p.query()))
}
