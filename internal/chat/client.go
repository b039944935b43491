package chat

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/five82/jsrl/internal/dispatch"
	"github.com/five82/jsrl/internal/endpoint"
	"github.com/five82/jsrl/internal/remote"
)

// Paths of the chat endpoints relative to the endpoint base.
const (
	ReceivePath = "/chat/messages.xml"
	SendPath    = "/chat/save.php"
)

// Form field names accepted by the send endpoint.
const (
	FormFieldMessage  = "chatmessage"
	FormFieldPassword = "chatpassword"
	FormFieldUsername = "username"
)

// Fetcher is implemented by *Client and can be faked in tests.
type Fetcher interface {
	FetchMessages(ctx context.Context) ([]Message, error)
	SendMessage(ctx context.Context, msg Message) (*remote.Response, error)
}

var _ Fetcher = (*Client)(nil)

// FetchResult is the single value delivered by FetchAsync.
type FetchResult struct {
	Messages []Message
	Err      error
}

// SendResult is the single value delivered by SendAsync.
type SendResult struct {
	Response *remote.Response
	Err      error
}

// Client fetches and posts chat messages. Fetch and send share no mutable
// state, so concurrent calls are independent and may complete in any order.
type Client struct {
	endpoint   endpoint.Context
	transport  *remote.Transport
	parser     *Parser
	dispatcher dispatch.Dispatcher
	logger     zerolog.Logger
}

type clientOptions struct {
	httpClient *http.Client
	userAgent  string
	names      ElementNames
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

// WithElementNames overrides the chat document element names.
func WithElementNames(names ElementNames) Option {
	return func(o *clientOptions) { o.names = names }
}

// WithDispatcher sets the execution context that parses fetched documents
// and runs completions. The default runs them on the I/O goroutine.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(o *clientOptions) { o.dispatcher = d }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient builds a chat Client rooted at ep.
func NewClient(ep endpoint.Context, opts ...Option) *Client {
	o := clientOptions{
		names:      DefaultElementNames(),
		dispatcher: dispatch.Inline{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dispatcher == nil {
		o.dispatcher = dispatch.Inline{}
	}
	return &Client{
		endpoint:   ep,
		transport:  remote.NewTransport(o.httpClient, o.userAgent),
		parser:     NewParser(o.names),
		dispatcher: o.dispatcher,
		logger:     o.logger,
	}
}

// Fetch retrieves messages.xml without blocking. The download runs on its own
// goroutine; parsing and completion run on the client's dispatcher. completion
// is called exactly once, with an empty slice on any failure except a
// malformed document, which carries the messages parsed before the fault.
func (c *Client) Fetch(ctx context.Context, completion func(err error, messages []Message)) {
	if completion == nil {
		completion = func(error, []Message) {}
	}
	go func() {
		reqID := uuid.NewString()
		body, err := c.download(ctx, reqID)
		c.dispatcher.Dispatch(func() {
			if err != nil {
				completion(err, []Message{})
				return
			}
			messages, err := c.parse(reqID, body)
			completion(err, messages)
		})
	}()
}

// FetchAsync is Fetch with the result delivered on a channel that receives
// exactly one value and is then closed.
func (c *Client) FetchAsync(ctx context.Context) <-chan FetchResult {
	ch := make(chan FetchResult, 1)
	c.Fetch(ctx, func(err error, messages []Message) {
		ch <- FetchResult{Messages: messages, Err: err}
		close(ch)
	})
	return ch
}

// FetchMessages downloads and parses messages.xml on the calling goroutine.
func (c *Client) FetchMessages(ctx context.Context) ([]Message, error) {
	reqID := uuid.NewString()
	body, err := c.download(ctx, reqID)
	if err != nil {
		return []Message{}, err
	}
	return c.parse(reqID, body)
}

func (c *Client) download(ctx context.Context, reqID string) ([]byte, error) {
	u := c.endpoint.URL(ReceivePath)
	start := time.Now()
	c.logger.Debug().Str("request_id", reqID).Str("url", u).Msg("fetching chat messages")

	body, _, err := c.transport.Get(ctx, u)
	if err != nil {
		c.logger.Debug().Str("request_id", reqID).Err(err).Dur("latency", time.Since(start)).Msg("chat fetch failed")
		return nil, err
	}
	c.logger.Debug().Str("request_id", reqID).Int("bytes", len(body)).Dur("latency", time.Since(start)).Msg("chat document received")
	return body, nil
}

func (c *Client) parse(reqID string, body []byte) ([]Message, error) {
	messages, err := c.parser.ParseBytes(body)
	if err != nil {
		c.logger.Debug().Str("request_id", reqID).Err(err).Int("messages", len(messages)).Msg("chat parse failed")
		return messages, err
	}
	c.logger.Debug().Str("request_id", reqID).Int("messages", len(messages)).Msg("chat parsed")
	return messages, nil
}

// Send posts msg without blocking. completion is called exactly once on the
// client's dispatcher with the response metadata; the response body is not
// interpreted.
func (c *Client) Send(ctx context.Context, msg Message, completion func(err error, resp *remote.Response)) {
	if completion == nil {
		completion = func(error, *remote.Response) {}
	}
	go func() {
		resp, err := c.SendMessage(ctx, msg)
		c.dispatcher.Dispatch(func() {
			completion(err, resp)
		})
	}()
}

// SendAsync is Send with the result delivered on a channel that receives
// exactly one value and is then closed.
func (c *Client) SendAsync(ctx context.Context, msg Message) <-chan SendResult {
	ch := make(chan SendResult, 1)
	c.Send(ctx, msg, func(err error, resp *remote.Response) {
		ch <- SendResult{Response: resp, Err: err}
		close(ch)
	})
	return ch
}

// SendMessage validates msg and posts it on the calling goroutine. A non-2xx
// reply is reported as a *remote.TransportError together with its metadata.
func (c *Client) SendMessage(ctx context.Context, msg Message) (*remote.Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	u := c.endpoint.URL(SendPath)
	c.logger.Debug().Str("request_id", reqID).Str("url", u).Str("username", msg.Username).Msg("sending chat message")

	resp, err := c.transport.PostForm(ctx, u, EncodeForm(msg))
	if err != nil {
		c.logger.Debug().Str("request_id", reqID).Err(err).Msg("chat send failed")
		return resp, err
	}
	c.logger.Debug().Str("request_id", reqID).Int("status", resp.StatusCode).Msg("chat message sent")
	return resp, nil
}

type formField struct {
	key   string
	value string
}

// EncodeForm renders msg as the send endpoint's form body. Fields are always
// emitted as chatmessage, chatpassword, username, and every value is
// percent-encoded on its own (space becomes %20).
func EncodeForm(msg Message) string {
	fields := []formField{
		{key: FormFieldMessage, value: msg.Text},
		{key: FormFieldPassword, value: strconv.FormatBool(msg.IsPrivate)},
		{key: FormFieldUsername, value: msg.Username},
	}
	pairs := lo.Map(fields, func(f formField, _ int) string {
		return f.key + "=" + escapeFormValue(f.value)
	})
	return strings.Join(pairs, "&")
}

func escapeFormValue(v string) string {
	// QueryEscape writes a literal '+' as %2B, so any '+' left is a space.
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
