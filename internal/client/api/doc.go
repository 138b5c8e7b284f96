// Package api holds thin typed clients for the backend REST endpoints.
//
// Every client sends through a Doer, normally a *transport.Pipeline, so
// credential attachment, status handling and the refresh-and-retry path
// apply uniformly. Business payloads (blacklist entries, orders, groups,
// screening tasks, users) stay opaque json.RawMessage values; only the auth
// endpoints are typed because the session store depends on their shape.
//
// Auth calls are sent with NoRecover: their failures are handled by the
// session store, and a refresh call must never trigger another refresh.
package api
