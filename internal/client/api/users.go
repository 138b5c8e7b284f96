package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type UserClient struct {
	d Doer
}

func (c *UserClient) List(ctx context.Context, p ListParams) (*models.Page, error) {
	return page(ctx, c.d, post("/users/list", p.body()))
}

func (c *UserClient) Detail(ctx context.Context, userID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/users/"+id(userID), nil))
}

func (c *UserClient) Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/users", data))
}

func (c *UserClient) Update(ctx context.Context, userID int64, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, &transport.Call{Method: http.MethodPut, Path: "/users/" + id(userID), Body: data})
}

func (c *UserClient) Delete(ctx context.Context, userID int64) error {
	_, err := c.d.Do(ctx, &transport.Call{Method: http.MethodDelete, Path: "/users/" + id(userID)})
	return err
}

func (c *UserClient) Roles(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/roles/list", map[string]any{}))
}
