package jsonquery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var errNoResponse = errors.New("jsonquery: transport returned no response")

// Client sends documents to remote endpoints and reports the decoded
// responses through [*Call] values.
//
// Request methods never block: they prepare the request on the calling
// goroutine, hand it to a new goroutine and return. Each call completes
// exactly once with one of the outcomes of [Status].
//
// Client is goroutine-safe. Use [NewClient] or [NewClientWithTransport] to
// create instances.
type Client struct {
	// Callbacks are invoked on request lifecycle events. Assign them before
	// issuing any request.
	Callbacks Callbacks

	transport Transport
	buffers   *bufferPool
	limiter   *rate.Limiter
	logger    *zap.Logger
	headers   http.Header
	inflight  sync.WaitGroup
	pending   atomic.Int64
	mu        sync.RWMutex // Protects closed against concurrent dispatch
	closed    bool
}

// NewClient creates a [Client] sending requests with a stock [*http.Client]
// configured from config.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	config = config.withDefaults()

	return newClient(config, &http.Client{Timeout: config.Timeout})
}

// NewClientWithTransport creates a [Client] sending requests through
// transport. [ClientConfig.Timeout] does not apply; configure timeouts on the
// transport itself or through the request context.
func NewClientWithTransport(config ClientConfig, transport Transport) (*Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidArgument)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return newClient(config.withDefaults(), transport)
}

func newClient(config ClientConfig, transport Transport) (*Client, error) {
	buffers, err := newBufferPool(config.MaxInFlight)
	if err != nil {
		return nil, err
	}

	c := &Client{
		transport: transport,
		buffers:   buffers,
		logger:    zap.NewNop(),
		headers:   make(http.Header),
	}

	c.Callbacks.OnCallbackPanic = DefaultOnCallbackPanic

	c.headers.Set("User-Agent", config.UserAgent)

	for k, v := range config.Headers {
		c.headers.Set(k, v)
	}

	if config.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst)
	}

	return c, nil
}

// SetLogger sets the logger for request lifecycle events. Nil disables
// logging. Call it before issuing any request.
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c.logger = logger
}

// PostRequest posts the serialized doc to url as application/json.
//
// doc is serialized before PostRequest returns, so the caller may keep using
// it. The response is decoded into [Call.Document].
func (c *Client) PostRequest(ctx context.Context, doc *Document, url string) *Call {
	call := c.newCall(http.MethodPost, url)

	body, err := Marshal(doc)
	if err != nil {
		c.finish(call, transportFailure(0, err))
		return call
	}

	c.dispatch(ctx, call, body, contentTypeJSON)

	return call
}

// PostRequestWithFile posts doc together with the file at filePath as
// multipart/form-data: doc in the [MultipartDataField] part and the file
// content in the [MultipartFileField] part.
//
// The file is read before PostRequestWithFile returns. If it cannot be read
// the error wraps [ErrInvalidArgument] and no request is issued.
func (c *Client) PostRequestWithFile(ctx context.Context, doc *Document, filePath, url string) (*Call, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("%w: empty attachment path", ErrInvalidArgument)
	}

	body, contentType, err := newMultipartBody(doc, filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: attachment %q: %w", ErrInvalidArgument, filePath, err)
	}

	call := c.newCall(http.MethodPost, url)
	c.dispatch(ctx, call, body, contentType)

	return call, nil
}

// GetRequest requests url with GET.
//
// The returned call's [Call.Document] is empty and is filled with the
// response once the call completes successfully.
func (c *Client) GetRequest(ctx context.Context, url string) *Call {
	call := c.newCall(http.MethodGet, url)
	c.dispatch(ctx, call, nil, "")

	return call
}

// Wait blocks until every call dispatched so far has completed.
func (c *Client) Wait() {
	c.inflight.Wait()
}

// Pending returns the number of calls that have not completed yet.
func (c *Client) Pending() int64 {
	return c.pending.Load()
}

// InFlight returns the number of requests currently on the wire.
func (c *Client) InFlight() int32 {
	return c.buffers.inUse()
}

// Close stops accepting requests and waits for in-flight calls to complete.
// Requests issued after Close complete with [StatusTransportFailed] and an
// error wrapping [ErrClientClosed].
//
// It is safe to call Close multiple times.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	c.mu.Unlock()

	c.inflight.Wait()
	c.buffers.close()

	if idle, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

func (c *Client) newCall(method, url string) *Call {
	c.pending.Inc()
	return newCall(method, NormalizeURL(url), &c.Callbacks)
}

func (c *Client) dispatch(ctx context.Context, call *Call, body []byte, contentType string) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, call.url, reader)
	if err != nil {
		c.finish(call, transportFailure(0, err))
		return
	}

	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		c.finish(call, transportFailure(0, ErrClientClosed))

		return
	}

	c.inflight.Add(1)
	c.mu.RUnlock()

	c.logger.Debug("request dispatched", callFields(call)...)

	go func() {
		defer c.inflight.Done()
		c.finish(call, c.exchange(ctx, call, req))
	}()
}

// outcome is what an exchange produced, before it is turned into a [Result].
type outcome struct {
	doc    *Document
	err    error
	status Status
	code   int
}

func transportFailure(code int, err error) outcome {
	return outcome{status: StatusTransportFailed, code: code, err: err}
}

// exchange sends req and decodes the response. It runs on the call's goroutine.
func (c *Client) exchange(ctx context.Context, call *Call, req *http.Request) outcome {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportFailure(0, err)
		}
	}

	res, err := c.buffers.acquire(ctx)
	if err != nil {
		return transportFailure(0, err)
	}

	defer releaseBuffer(res)

	resp, err := c.transport.Do(req)
	if err != nil {
		return transportFailure(0, err)
	}

	if resp == nil {
		return transportFailure(0, errNoResponse)
	}

	buf := res.Value()

	if err := readBody(resp, buf); err != nil {
		return transportFailure(resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	doc, err := FromBytes(buf.Bytes())
	if err != nil {
		c.Callbacks.runOnParsingError(call, buf.Bytes(), err)
		return outcome{status: StatusParsingFailed, code: resp.StatusCode, err: err}
	}

	return outcome{doc: doc, status: StatusSuccess, code: resp.StatusCode}
}

// finish turns o into the call's result.
func (c *Client) finish(call *Call, o outcome) {
	c.pending.Dec()

	fields := append(callFields(call),
		zap.Stringer("status", o.status),
		zap.Int("status_code", o.code),
		zap.Duration("duration", call.elapsed()),
	)

	switch o.status {
	case StatusSuccess:
		c.logger.Debug("request completed", fields...)
		call.succeed(o.doc, o.code)
	case StatusTransportFailed:
		err := fmt.Errorf("%w: %w", ErrTransportFailed, o.err)
		c.logger.Warn("request failed", append(fields, zap.Error(err))...)
		c.Callbacks.runOnTransportError(call, err)
		call.fail(StatusTransportFailed, o.code, err)
	default:
		c.logger.Warn("response could not be parsed", append(fields, zap.Error(o.err))...)
		call.fail(o.status, o.code, o.err)
	}
}

func callFields(call *Call) []zap.Field {
	return []zap.Field{
		zap.String("call_id", call.ID()),
		zap.String("method", call.Method()),
		zap.String("url", call.URL()),
	}
}
