// Package storage is the durable side of the session: a small key/value
// repository holding the access token, the refresh token and the JSON
// encoded user profile.
//
// Two implementations exist. SQLiteRepository keeps the values in the
// client state database (schema managed by goose, see Open). MemoryRepository
// keeps them in a map and is used by tests and throwaway runs.
//
// SetMany and Clear are atomic: either every key changes or none does.
package storage
