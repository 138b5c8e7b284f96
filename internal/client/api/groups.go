package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type GroupClient struct {
	d Doer
}

func (c *GroupClient) List(ctx context.Context, p ListParams) (*models.Page, error) {
	return page(ctx, c.d, post("/groups/list", p.body()))
}

func (c *GroupClient) Detail(ctx context.Context, groupID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/groups/detail", map[string]int64{"group_id": groupID}))
}

func (c *GroupClient) Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/groups/create", data))
}

func (c *GroupClient) Update(ctx context.Context, groupID int64, data json.RawMessage) (json.RawMessage, error) {
	body, err := merge(map[string]any{"group_id": groupID}, data)
	if err != nil {
		return nil, err
	}
	return raw(ctx, c.d, post("/groups/update", body))
}

func (c *GroupClient) Delete(ctx context.Context, groupID int64) error {
	_, err := c.d.Do(ctx, post("/groups/delete", map[string]int64{"group_id": groupID}))
	return err
}

// BatchCheck runs the blacklist check over every order of the group.
func (c *GroupClient) BatchCheck(ctx context.Context, groupID int64, forceRecheck bool) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/groups/batch-check", map[string]any{
		"group_id":      groupID,
		"force_recheck": forceRecheck,
	}))
}

func (c *GroupClient) UploadExcel(ctx context.Context, groupID int64, fileName string, data []byte) (json.RawMessage, error) {
	return raw(ctx, c.d, &transport.Call{
		Method: http.MethodPost,
		Path:   "/groups/upload-excel",
		Query:  url.Values{"group_id": {id(groupID)}},
		Upload: &models.Upload{FileName: fileName, Data: data},
	})
}
