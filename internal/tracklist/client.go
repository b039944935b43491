package tracklist

import (
	"context"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/jsrl/internal/dispatch"
	"github.com/five82/jsrl/internal/remote"
)

// Result is the single value delivered by FetchAsync.
type Result struct {
	Tracks []Entry
	Err    error
}

// Client fetches track-list scripts and extracts their entries. Unlike a
// silent empty result, every transport or decode failure is reported as a
// *remote.TransportError.
type Client struct {
	transport  *remote.Transport
	extractor  *Extractor
	dispatcher dispatch.Dispatcher
	logger     zerolog.Logger
}

type clientOptions struct {
	httpClient *http.Client
	userAgent  string
	extractor  *Extractor
	dispatcher dispatch.Dispatcher
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithExtractor replaces the default extractor.
func WithExtractor(e *Extractor) Option {
	return func(o *clientOptions) { o.extractor = e }
}

// WithDispatcher sets the execution context completions run on.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(o *clientOptions) { o.dispatcher = d }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient builds a track-list Client.
func NewClient(opts ...Option) *Client {
	o := clientOptions{
		extractor:  Default(),
		dispatcher: dispatch.Inline{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.extractor == nil {
		o.extractor = Default()
	}
	if o.dispatcher == nil {
		o.dispatcher = dispatch.Inline{}
	}
	return &Client{
		transport:  remote.NewTransport(o.httpClient, o.userAgent),
		extractor:  o.extractor,
		dispatcher: o.dispatcher,
		logger:     o.logger,
	}
}

// Fetch downloads sourceURL without blocking and calls completion exactly
// once on the client's dispatcher. On failure the track slice is empty.
func (c *Client) Fetch(ctx context.Context, sourceURL string, completion func(err error, tracks []Entry)) {
	if completion == nil {
		completion = func(error, []Entry) {}
	}
	go func() {
		tracks, err := c.FetchTracks(ctx, sourceURL)
		c.dispatcher.Dispatch(func() {
			completion(err, tracks)
		})
	}()
}

// FetchAsync is Fetch with the result delivered on a channel that receives
// exactly one value and is then closed.
func (c *Client) FetchAsync(ctx context.Context, sourceURL string) <-chan Result {
	ch := make(chan Result, 1)
	c.Fetch(ctx, sourceURL, func(err error, tracks []Entry) {
		ch <- Result{Tracks: tracks, Err: err}
		close(ch)
	})
	return ch
}

// FetchTracks downloads and extracts on the calling goroutine.
func (c *Client) FetchTracks(ctx context.Context, sourceURL string) ([]Entry, error) {
	reqID := uuid.NewString()
	start := time.Now()
	c.logger.Debug().Str("request_id", reqID).Str("url", sourceURL).Msg("fetching track list")

	body, resp, err := c.transport.Get(ctx, sourceURL)
	if err != nil {
		c.logger.Debug().Str("request_id", reqID).Err(err).Dur("latency", time.Since(start)).Msg("track list fetch failed")
		return []Entry{}, err
	}
	if !utf8.Valid(body) {
		err := remote.DecodeError(http.MethodGet, sourceURL, resp.StatusCode, errors.New("body is not valid UTF-8"))
		c.logger.Debug().Str("request_id", reqID).Err(err).Msg("track list decode failed")
		return []Entry{}, err
	}

	tracks := c.extractor.Extract(string(body))
	c.logger.Debug().Str("request_id", reqID).Int("tracks", len(tracks)).Dur("latency", time.Since(start)).Msg("track list extracted")
	return tracks, nil
}
