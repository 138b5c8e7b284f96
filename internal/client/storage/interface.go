package storage

import "context"

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Repository persists the session as key/value pairs.
type Repository interface {
	Set(ctx context.Context, key string, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
