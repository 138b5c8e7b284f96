package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type BlacklistClient struct {
	d Doer
}

func (c *BlacklistClient) List(ctx context.Context, p ListParams) (*models.Page, error) {
	return page(ctx, c.d, post("/blacklist/list", p.body()))
}

func (c *BlacklistClient) Detail(ctx context.Context, entryID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/blacklist/detail", map[string]int64{"blacklist_id": entryID}))
}

func (c *BlacklistClient) Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/blacklist", data))
}

func (c *BlacklistClient) Update(ctx context.Context, entryID int64, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, &transport.Call{Method: http.MethodPut, Path: "/blacklist/" + id(entryID), Body: data})
}

func (c *BlacklistClient) Delete(ctx context.Context, entryID int64) error {
	_, err := c.d.Do(ctx, &transport.Call{Method: http.MethodDelete, Path: "/blacklist/" + id(entryID)})
	return err
}

func (c *BlacklistClient) BatchDelete(ctx context.Context, ids []int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/blacklist/batch-delete", map[string][]int64{"ids": ids}))
}

// Import uploads a spreadsheet of entries.
func (c *BlacklistClient) Import(ctx context.Context, fileName string, data []byte) (json.RawMessage, error) {
	return raw(ctx, c.d, &transport.Call{
		Method: http.MethodPost,
		Path:   "/blacklist/import",
		Upload: &models.Upload{FileName: fileName, Data: data},
	})
}

func (c *BlacklistClient) Export(ctx context.Context, p ListParams) (*models.Download, error) {
	return c.d.Download(ctx, get("/blacklist/export", p.query()))
}

func (c *BlacklistClient) History(ctx context.Context, entryID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/blacklist/"+id(entryID)+"/history", nil))
}
