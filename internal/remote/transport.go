package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultUserAgent identifies jsrl to the remote endpoints.
	DefaultUserAgent = "jsrl/0.1"

	// FormContentType is the content type of a form-encoded POST body.
	FormContentType = "application/x-www-form-urlencoded"
)

var (
	// ErrStatus marks a response with a non-2xx status code.
	ErrStatus = errors.New("non-success response")

	// ErrDecode marks a response body that could not be decoded.
	ErrDecode = errors.New("undecodable body")
)

// TransportError reports a network failure, a non-success status or a
// response decode failure for a single request.
type TransportError struct {
	Op         string // HTTP method
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError builds the TransportError used when a fetched body cannot be
// decoded into text.
func DecodeError(op, url string, statusCode int, cause error) *TransportError {
	return &TransportError{
		Op:         op,
		URL:        url,
		StatusCode: statusCode,
		Err:        fmt.Errorf("decode response: %w: %w", ErrDecode, cause),
	}
}

// Response is the metadata of a completed request. The body is not kept.
type Response struct {
	URL           string
	StatusCode    int
	Status        string
	Header        http.Header
	ContentLength int64
}

// Transport issues requests against the remote feeds. It is safe for
// concurrent use.
type Transport struct {
	http      *http.Client
	userAgent string
}

// NewTransport returns a Transport using client. A nil client selects
// http.DefaultClient; an empty userAgent selects DefaultUserAgent.
func NewTransport(client *http.Client, userAgent string) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &Transport{http: client, userAgent: userAgent}
}

// Get fetches url and returns the complete body with the response metadata.
func (t *Transport) Get(ctx context.Context, url string) ([]byte, *Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, &TransportError{Op: http.MethodGet, URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Op: http.MethodGet, URL: url, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	meta := newResponse(url, resp)
	if err := checkStatus(http.MethodGet, url, resp.StatusCode); err != nil {
		return nil, meta, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, meta, &TransportError{
			Op:         http.MethodGet,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("read response: %w", err),
		}
	}
	return body, meta, nil
}

// PostForm sends an already-encoded form body to url. The cache is bypassed
// and the response body is drained without being interpreted.
func (t *Transport) PostForm(ctx context.Context, url, form string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form))
	if err != nil {
		return nil, &TransportError{Op: http.MethodPost, URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", FormContentType)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: http.MethodPost, URL: url, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	meta := newResponse(url, resp)
	if err := checkStatus(http.MethodPost, url, resp.StatusCode); err != nil {
		return meta, err
	}
	return meta, nil
}

func newResponse(url string, resp *http.Response) *Response {
	return &Response{
		URL:           url,
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Header:        resp.Header.Clone(),
		ContentLength: resp.ContentLength,
	}
}

func checkStatus(op, url string, code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &TransportError{
		Op:         op,
		URL:        url,
		StatusCode: code,
		Err:        fmt.Errorf("returned status %d: %w", code, ErrStatus),
	}
}
