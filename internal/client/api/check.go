package api

import (
	"context"
	"encoding/json"
)

type BlacklistCheckClient struct {
	d Doer
}

func (c *BlacklistCheckClient) CheckOrder(ctx context.Context, orderID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/blacklist-check/check-order/"+id(orderID), nil))
}

func (c *BlacklistCheckClient) CheckOrders(ctx context.Context, p ListParams) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/blacklist-check/check-orders", p.query()))
}

func (c *BlacklistCheckClient) Matches(ctx context.Context, p ListParams) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/blacklist-check/blacklist-matches", p.query()))
}

func (c *BlacklistCheckClient) Statistics(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/blacklist-check/statistics", nil))
}
