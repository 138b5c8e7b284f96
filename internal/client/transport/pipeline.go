package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/logging"
	"github.com/google/uuid"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"

	defaultTimeout = 10 * time.Second
	defaultMaxBody = 64 << 20
)

// Session is the credential side the pipeline needs.
type Session interface {
	AccessToken() string
	RefreshAccessToken(ctx context.Context) bool
	Logout(ctx context.Context)
}

// Notifier surfaces transient messages to the user.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// Redirector moves the application to another destination.
type Redirector interface {
	Redirect(ctx context.Context, path string)
}

// Call describes one outbound API call.
type Call struct {
	Method string
	// Path is appended to the pipeline base URL.
	Path  string
	Query url.Values
	// Body is JSON encoded when non-nil. Ignored when Upload is set.
	Body   any
	Upload *models.Upload
	// NoRecover disables the refresh-and-retry path for this call.
	NoRecover bool
}

// Response is a received reply, kept after the body has been drained.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type statusHandler func(ctx context.Context, call *Call, res *Response, recoverable bool) (*Response, error)

type Pipeline struct {
	baseURL    *url.URL
	client     *http.Client
	timeout    time.Duration
	notifier   Notifier
	redirector Redirector
	loginPath  string
	logger     logging.Logger
	requestID  func() string
	maxBody    int64
	handlers   map[int]statusHandler

	mu      sync.RWMutex
	session Session
}

// New builds a pipeline rooted at baseURL.
func New(baseURL string, opts ...Option) (*Pipeline, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	p := &Pipeline{
		baseURL:   u,
		timeout:   defaultTimeout,
		loginPath: "/login",
		notifier:  nopNotifier{},
		logger:    logging.Discard(),
		requestID: uuid.NewString,
		maxBody:   defaultMaxBody,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: p.timeout}
	}

	p.handlers = map[int]statusHandler{
		http.StatusUnauthorized:        p.recoverAuth,
		http.StatusForbidden:           p.recoverAuth,
		http.StatusNotFound:            p.notFound,
		http.StatusUnprocessableEntity: p.invalid,
		http.StatusInternalServerError: p.serverFailure,
	}
	return p, nil
}

// SetSession binds the credential source after construction, which breaks
// the cycle between the pipeline and the store built on top of it.
func (p *Pipeline) SetSession(s Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = s
}

// SetRedirector binds the destination handler after construction.
func (p *Pipeline) SetRedirector(r Redirector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redirector = r
}

func (p *Pipeline) currentSession() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

func (p *Pipeline) currentRedirector() Redirector {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.redirector
}

// Do sends call and returns the response body of a successful reply.
func (p *Pipeline) Do(ctx context.Context, call *Call) ([]byte, error) {
	res, err := p.Exchange(ctx, call)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// DoJSON sends call and decodes a successful reply into out. A nil out or an
// empty body skips decoding.
func (p *Pipeline) DoJSON(ctx context.Context, call *Call, out any) error {
	body, err := p.Do(ctx, call)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", call.Method, call.Path, err)
	}
	return nil
}

// Download sends call and returns the binary reply with its file name.
func (p *Pipeline) Download(ctx context.Context, call *Call) (*models.Download, error) {
	res, err := p.Exchange(ctx, call)
	if err != nil {
		return nil, err
	}
	return &models.Download{
		FileName:    fileName(res.Header.Get("Content-Disposition")),
		ContentType: res.Header.Get("Content-Type"),
		Data:        res.Body,
	}, nil
}

// Exchange runs the full pipeline for call.
func (p *Pipeline) Exchange(ctx context.Context, call *Call) (*Response, error) {
	res, err := p.send(ctx, call)
	return p.receive(ctx, call, res, err, !call.NoRecover)
}

func (p *Pipeline) receive(ctx context.Context, call *Call, res *Response, err error, recoverable bool) (*Response, error) {
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return nil, p.fail(ctx, se)
		}
		// Local failures (encoding, oversized replies) are not transport failures.
		return nil, err
	}
	if res.Status >= 200 && res.Status < 300 {
		return res, nil
	}
	h, ok := p.handlers[res.Status]
	if !ok {
		h = p.unexpected
	}
	return h(ctx, call, res, recoverable)
}

// recoverAuth is the single recovery routine for 401 and 403: a 403 is
// treated as a possibly expired credential, not a hard denial.
func (p *Pipeline) recoverAuth(ctx context.Context, call *Call, res *Response, recoverable bool) (*Response, error) {
	authErr := &StatusError{Status: res.Status, Message: detailOr(res.Body, "authentication required"), Kind: ErrUnauthorized}
	if !recoverable {
		return nil, authErr
	}

	session := p.currentSession()
	if session != nil && session.RefreshAccessToken(ctx) {
		p.logger.Info(ctx, "access token refreshed, retrying call", "method", call.Method, "path", call.Path)
		retried, err := p.send(ctx, call)
		return p.receive(ctx, call, retried, err, false)
	}

	p.logger.Warn(ctx, "credential could not be recovered", "status", res.Status, "path", call.Path)
	if session != nil {
		session.Logout(ctx)
	}
	if r := p.currentRedirector(); r != nil {
		r.Redirect(ctx, p.loginPath)
	}
	return nil, authErr
}

func (p *Pipeline) notFound(ctx context.Context, _ *Call, res *Response, _ bool) (*Response, error) {
	return nil, p.fail(ctx, &StatusError{Status: res.Status, Message: "requested resource not found", Kind: ErrNotFound})
}

func (p *Pipeline) invalid(ctx context.Context, _ *Call, res *Response, _ bool) (*Response, error) {
	return nil, p.fail(ctx, &StatusError{Status: res.Status, Message: validationMessage(res.Body), Kind: ErrValidation})
}

func (p *Pipeline) serverFailure(ctx context.Context, _ *Call, res *Response, _ bool) (*Response, error) {
	return nil, p.fail(ctx, &StatusError{Status: res.Status, Message: "internal server error", Kind: ErrServer})
}

func (p *Pipeline) unexpected(ctx context.Context, _ *Call, res *Response, _ bool) (*Response, error) {
	return nil, p.fail(ctx, &StatusError{Status: res.Status, Message: detailOr(res.Body, "request failed"), Kind: ErrUnexpectedStatus})
}

func (p *Pipeline) fail(ctx context.Context, err *StatusError) error {
	p.notifier.Error(ctx, err.Message)
	return err
}

// send performs one HTTP exchange. The request is rebuilt on every call so a
// retry never reuses a consumed body. Network failures come back as a
// *StatusError of kind ErrUnavailable.
func (p *Pipeline) send(ctx context.Context, call *Call) (*Response, error) {
	req, err := p.newRequest(ctx, call)
	if err != nil {
		return nil, err
	}

	hasToken := false
	if session := p.currentSession(); session != nil {
		if token := session.AccessToken(); token != "" {
			req.Header.Set(AuthorizationHeader, "Bearer "+token)
			hasToken = true
		}
	}

	log := p.logger.With("method", call.Method, "path", call.Path, "request_id", req.Header.Get(RequestIDHeader))
	started := time.Now()

	resp, err := p.client.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "has_token", hasToken, "error", err)
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBody+1))
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return nil, unavailable(err)
	}
	if int64(len(body)) > p.maxBody {
		log.Warn(ctx, "response too large", "status", resp.StatusCode, "limit", p.maxBody)
		return nil, fmt.Errorf("%s %s: %w", call.Method, call.Path, ErrResponseTooLarge)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "has_token", hasToken, "took", time.Since(started))
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func unavailable(err error) error {
	return &StatusError{Message: "network connection failed", Kind: ErrUnavailable, Err: err}
}

func (p *Pipeline) newRequest(ctx context.Context, call *Call) (*http.Request, error) {
	u := p.baseURL.JoinPath(call.Path)
	if len(call.Query) > 0 {
		u.RawQuery = call.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case call.Upload != nil:
		buf, ct, err := encodeMultipart(call.Upload)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case call.Body != nil:
		b, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", call.Method, call.Path, err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, p.requestID())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func encodeMultipart(up *models.Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	field := up.FieldName
	if field == "" {
		field = "file"
	}
	part, err := w.CreateFormFile(field, up.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("multipart file: %w", err)
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, "", fmt.Errorf("multipart file: %w", err)
	}
	for k, v := range up.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("multipart field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("multipart close: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// fileName returns the base name suggested by a Content-Disposition header.
// Directory parts are dropped.
func fileName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	name := path.Base(strings.ReplaceAll(params["filename"], `\`, "/"))
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, string) {}
func (nopNotifier) Error(context.Context, string)   {}
