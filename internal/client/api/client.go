package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

// Doer is the part of transport.Pipeline the clients need.
type Doer interface {
	Do(ctx context.Context, call *transport.Call) ([]byte, error)
	DoJSON(ctx context.Context, call *transport.Call, out any) error
	Download(ctx context.Context, call *transport.Call) (*models.Download, error)
}

// Client bundles every resource client over one Doer.
type Client struct {
	Auth           *AuthClient
	Blacklist      *BlacklistClient
	Orders         *OrderClient
	Groups         *GroupClient
	Screening      *ScreeningClient
	BlacklistCheck *BlacklistCheckClient
	Users          *UserClient
	Admin          *AdminClient
}

func New(d Doer) *Client {
	return &Client{
		Auth:           &AuthClient{d: d},
		Blacklist:      &BlacklistClient{d: d},
		Orders:         &OrderClient{d: d},
		Groups:         &GroupClient{d: d},
		Screening:      &ScreeningClient{d: d},
		BlacklistCheck: &BlacklistCheckClient{d: d},
		Users:          &UserClient{d: d},
		Admin:          &AdminClient{d: d},
	}
}

// ListParams are the paging and filter parameters shared by list endpoints.
// Filters are passed through untouched.
type ListParams struct {
	Skip    int
	Limit   int
	Filters map[string]string
}

func (p ListParams) body() map[string]any {
	b := make(map[string]any, len(p.Filters)+2)
	for k, v := range p.Filters {
		b[k] = v
	}
	if p.Skip > 0 {
		b["skip"] = p.Skip
	}
	if p.Limit > 0 {
		b["limit"] = p.Limit
	}
	return b
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// merge returns a JSON object holding extra fields plus the fields of data,
// used by "update" endpoints that take the id inside the body.
func merge(extra map[string]any, data json.RawMessage) (map[string]any, error) {
	out := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	}
	for k, v := range extra {
		out[k] = v
	}
	return out, nil
}

func raw(ctx context.Context, d Doer, call *transport.Call) (json.RawMessage, error) {
	body, err := d.Do(ctx, call)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func page(ctx context.Context, d Doer, call *transport.Call) (*models.Page, error) {
	var p models.Page
	if err := d.DoJSON(ctx, call, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func post(path string, body any) *transport.Call {
	return &transport.Call{Method: http.MethodPost, Path: path, Body: body}
}

func get(path string, q url.Values) *transport.Call {
	return &transport.Call{Method: http.MethodGet, Path: path, Query: q}
}
