package jsonquery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Status classifies the outcome of a [Call].
type Status int

const (
	StatusPending         Status = iota // The call has not completed. Only seen in a zero Result.
	StatusSuccess                       // A response was received and decoded.
	StatusTransportFailed               // No interpretable response was received.
	StatusParsingFailed                 // A response was received but its body is not a JSON object.
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusTransportFailed:
		return "transport failed"
	case StatusParsingFailed:
		return "parsing failed"
	}

	return "unknown"
}

// Err returns the sentinel error for s, or nil for [StatusSuccess] and
// [StatusPending].
func (s Status) Err() error {
	switch s {
	case StatusTransportFailed:
		return ErrTransportFailed
	case StatusParsingFailed:
		return ErrParsingFailed
	}

	return nil
}

// Result is delivered exactly once per [Call]. The zero Result, returned by
// [Call.Result] and [Call.Wait] when no result is available, has
// [StatusPending].
type Result struct {
	// Document is the decoded response on success and an empty document
	// otherwise. It is never nil. All observers of a call share it.
	Document *Document

	// Err describes the failure and wraps [Status.Err]. Nil on success.
	Err error

	Status Status

	// StatusCode is the HTTP status of the response, or 0 if none was received.
	StatusCode int

	Success bool
}

// Call tracks a single request from dispatch to completion.
//
// A Call is created by the [Client] request methods and is never reused.
// Its result is set exactly once; every observation surface ([Call.Done],
// [Call.Wait], [Call.Result], [Call.OnComplete]) sees that same result.
type Call struct {
	start     time.Time
	callbacks *Callbacks
	doc       *Document
	done      chan struct{}
	method    string
	url       string
	handlers  []func(Result)
	result    Result
	mu        sync.Mutex
	fired     atomic.Bool
	id        uuid.UUID
}

func newCall(method, url string, callbacks *Callbacks) *Call {
	return &Call{
		id:        uuid.New(),
		method:    method,
		url:       url,
		doc:       New(),
		done:      make(chan struct{}),
		start:     time.Now(),
		callbacks: callbacks,
	}
}

// ID returns a unique identifier for the call, used in log output.
func (c *Call) ID() string {
	return c.id.String()
}

// Method returns the HTTP method of the call.
func (c *Call) Method() string {
	return c.method
}

// URL returns the normalized target URL.
func (c *Call) URL() string {
	return c.url
}

// Document returns the document the response is decoded into.
//
// It is empty until the call completes successfully and must not be read or
// modified before [Call.Done] is closed.
func (c *Call) Document() *Document {
	return c.doc
}

// Done returns a channel that is closed once the result is available.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Result returns the result if the call has completed.
func (c *Call) Result() (Result, bool) {
	select {
	case <-c.done:
		return c.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the call completes or ctx is done.
// A ctx error does not affect the call itself.
func (c *Call) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// OnComplete registers fn to receive the result.
//
// If the call has already completed fn runs immediately on the calling
// goroutine, otherwise it runs once on the goroutine that completes the call.
// Each registered function runs exactly once. Panics in fn are recovered and
// reported to [Callbacks.OnCallbackPanic].
func (c *Call) OnComplete(fn func(Result)) *Call {
	c.mu.Lock()

	select {
	case <-c.done:
		c.mu.Unlock()
		c.notify(fn)

		return c
	default:
	}

	c.handlers = append(c.handlers, fn)
	c.mu.Unlock()

	return c
}

// complete stores r and notifies every observer. A non-nil parsed document
// becomes the contents of the call's own document. Only the first call has
// any effect; later ones are reported to [Callbacks.OnDuplicateCompletion].
func (c *Call) complete(r Result, parsed *Document) bool {
	if !c.fired.CompareAndSwap(false, true) {
		c.callbacks.runOnDuplicateCompletion(c, r)
		return false
	}

	switch {
	case parsed != nil:
		c.doc.replace(parsed)
		r.Document = c.doc
	case r.Document == nil:
		r.Document = New()
	}

	c.mu.Lock()
	c.result = r
	close(c.done)
	handlers := c.handlers
	c.handlers = nil
	c.mu.Unlock()

	for _, fn := range handlers {
		c.notify(fn)
	}

	return true
}

func (c *Call) notify(fn func(Result)) {
	defer func() {
		if rec := recover(); rec != nil {
			c.callbacks.runOnCallbackPanic(c, rec)
		}
	}()

	fn(c.result)
}

func (c *Call) succeed(doc *Document, statusCode int) bool {
	return c.complete(Result{Success: true, Status: StatusSuccess, StatusCode: statusCode}, doc)
}

func (c *Call) fail(status Status, statusCode int, err error) bool {
	return c.complete(Result{Status: status, StatusCode: statusCode, Err: err}, nil)
}

func (c *Call) elapsed() time.Duration {
	return time.Since(c.start)
}
