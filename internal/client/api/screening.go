package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type ScreeningClient struct {
	d Doer
}

// Upload creates a screening task from a spreadsheet of orders.
func (c *ScreeningClient) Upload(ctx context.Context, fileName string, data []byte, taskName string) (json.RawMessage, error) {
	up := &models.Upload{FileName: fileName, Data: data}
	if taskName != "" {
		up.Fields = map[string]string{"task_name": taskName}
	}
	return raw(ctx, c.d, &transport.Call{Method: http.MethodPost, Path: "/screening/upload", Upload: up})
}

func (c *ScreeningClient) Tasks(ctx context.Context, p ListParams) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/screening/tasks", p.query()))
}

func (c *ScreeningClient) Task(ctx context.Context, taskID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/screening/tasks/"+id(taskID), nil))
}

func (c *ScreeningClient) Start(ctx context.Context, taskID int64) (json.RawMessage, error) {
	return raw(ctx, c.d, post("/screening/tasks/"+id(taskID)+"/start", nil))
}

func (c *ScreeningClient) Results(ctx context.Context, taskID int64, p ListParams) (json.RawMessage, error) {
	return raw(ctx, c.d, get("/screening/tasks/"+id(taskID)+"/results", p.query()))
}

// Export downloads the task results; format defaults to "excel".
func (c *ScreeningClient) Export(ctx context.Context, taskID int64, format string) (*models.Download, error) {
	if format == "" {
		format = "excel"
	}
	return c.d.Download(ctx, &transport.Call{
		Method: http.MethodPost,
		Path:   "/screening/tasks/" + id(taskID) + "/export",
		Query:  url.Values{"format": {format}},
	})
}
