// Package transport is the request pipeline every API call goes through.
//
// # Pre-send
//
// When the bound Session holds an access token the request carries
// "Authorization: Bearer <token>". Without a token the call simply goes out
// unauthenticated; the backend has the final word. Each request also gets an
// X-Request-ID for correlation with backend logs.
//
// # Post-receive
//
// Responses are dispatched on status through one table:
//
//	2xx       body returned to the caller
//	401, 403  refresh the access token and re-issue the call once; if the
//	          refresh fails, log out and redirect to the login destination
//	404       "not found" notice, ErrNotFound
//	422       joined validation messages, ErrValidation
//	500       "server error" notice, ErrServer
//	other     backend detail or generic notice, ErrUnexpectedStatus
//	no reply  "network connection failed" notice, ErrUnavailable
//
// A call is retried at most once. The retry runs the same table with
// recovery disabled, so a second 401/403 is returned to the caller as is.
//
// Calls with NoRecover set skip the refresh path entirely; the auth
// endpoints use it because the session store handles their failures itself.
package transport
