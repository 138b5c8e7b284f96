package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
)

type AuthClient struct {
	d Doer
}

func authCall(method, path string, body any) *transport.Call {
	return &transport.Call{Method: method, Path: path, Body: body, NoRecover: true}
}

func (c *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.d.DoJSON(ctx, authCall(http.MethodPost, "/auth/login", req), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.RefreshTokenResponse, error) {
	var resp models.RefreshTokenResponse
	req := models.RefreshTokenRequest{RefreshToken: refreshToken}
	if err := c.d.DoJSON(ctx, authCall(http.MethodPost, "/auth/refresh", req), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *AuthClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.d.DoJSON(ctx, authCall(http.MethodGet, "/auth/me", nil), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *AuthClient) Logout(ctx context.Context) error {
	_, err := c.d.Do(ctx, authCall(http.MethodPost, "/auth/logout", nil))
	return err
}

func (c *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var u models.User
	if err := c.d.DoJSON(ctx, authCall(http.MethodPost, "/auth/register", req), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
