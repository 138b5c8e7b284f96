package transport

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/bladmin/internal/logging"
)

type Option func(*Pipeline)

// WithHTTPClient replaces the underlying client. Its Timeout is the per-call
// deadline.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) {
		p.client = c
	}
}

// WithTimeout sets the fixed per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

func WithSession(s Session) Option {
	return func(p *Pipeline) {
		p.session = s
	}
}

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.notifier = n
		}
	}
}

func WithRedirector(r Redirector) Option {
	return func(p *Pipeline) {
		p.redirector = r
	}
}

// WithLoginPath sets the destination used after an unrecoverable auth failure.
func WithLoginPath(path string) Option {
	return func(p *Pipeline) {
		p.loginPath = path
	}
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.requestID = fn
		}
	}
}

// WithMaxBodySize caps the size of a reply body. Larger replies fail with
// ErrResponseTooLarge.
func WithMaxBodySize(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBody = n
		}
	}
}
