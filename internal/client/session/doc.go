// Package session holds the credential store: the access and refresh tokens
// and the cached user profile for one process.
//
// Authentication status is derived, never stored: a session is authenticated
// exactly when it holds an access token and a profile. Clearing and saving
// touch memory and durable storage inside one lock section and, for the
// SQLite repository, one transaction.
package session
