package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type OrderClient struct {
	d Doer
}

func (c *OrderClient) List(ctx context.Context, p ListParams) (*models.Page, error) {
	return page(ctx, c.d, post("/orders/list", p.body()))
}

func (c *OrderClient) Detail(ctx context.Context, orderID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/orders/detail", map[string]int64{"order_id": orderID}))
}

func (c *OrderClient) Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/orders/create", data))
}

func (c *OrderClient) Update(ctx context.Context, orderID int64, data json.RawMessage) (json.RawMessage, error) {
	body, err := merge(map[string]any{"order_id": orderID}, data)
	if err != nil {
		return nil, err
	}
	return raw(ctx, c.d, post("/orders/update", body))
}

func (c *OrderClient) Delete(ctx context.Context, orderID int64) error {
	_, err := c.d.Do(ctx, post("/orders/delete", map[string]int64{"order_id": orderID}))
	return err
}

func (c *OrderClient) BatchDelete(ctx context.Context, ids []int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/orders/batch-delete", map[string][]int64{"ids": ids}))
}

func (c *OrderClient) UploadExcel(ctx context.Context, fileName string, data []byte) (json.RawMessage, error) {
	return raw(ctx, c.d, &transport.Call{
		Method: http.MethodPost,
		Path:   "/orders/upload-excel",
		Upload: &models.Upload{FileName: fileName, Data: data},
	})
}

func (c *OrderClient) CheckBlacklist(ctx context.Context, orderID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/orders/"+id(orderID)+"/check-blacklist", nil))
}

func (c *OrderClient) BatchCheckBlacklist(ctx context.Context, ids []int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/orders/batch-check-blacklist", map[string][]int64{"order_ids": ids}))
}

func (c *OrderClient) Export(ctx context.Context, p ListParams) (*models.Download, error) {
	return c.d.Download(ctx, post("/orders/export", p.body()))
}
