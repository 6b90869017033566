package jsonquery

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultOnCallbackPanic logs a recovered completion callback panic through
// the global zap logger ([zap.L]). It is assigned to [Callbacks.OnCallbackPanic]
// by [NewClient], so panics are reported even if no custom callbacks are
// configured. Install a logger with [zap.ReplaceGlobals] to see the output.
var DefaultOnCallbackPanic = func(call *Call, rec any) {
	zap.L().Error("Panic recovered in completion callback",
		zap.String("call_id", call.ID()),
		zap.String("method", call.Method()),
		zap.String("url", call.URL()),
		zap.String("panic_value", fmt.Sprint(rec)),
	)
}

// Callbacks defines a set of functions a [Client] invokes on specific events
// during a request's lifecycle, for custom logging, metrics or error handling.
//
// Callbacks are assigned to [Client.Callbacks] *before* any request is issued.
// They run on request goroutines and must be safe for concurrent use.
//
// Callbacks must not block: they run before the completion of the call they
// describe is delivered.
//
// Example:
//
//	client.Callbacks.OnTransportError = func(call *jsonquery.Call, err error) {
//		failures.Inc()
//	}
type Callbacks struct {
	// OnTransportError is called when a request produced no interpretable
	// response: a send failure, an unreadable body, a closed client or a
	// cancelled context.
	OnTransportError func(call *Call, err error)

	// OnParsingError is called when a response body could not be decoded.
	// body is only valid for the duration of the call.
	OnParsingError func(call *Call, body []byte, err error)

	// OnCallbackPanic is called when a function registered with
	// [Call.OnComplete] panics. The panic is recovered and other registered
	// functions still run. Defaults to [DefaultOnCallbackPanic].
	OnCallbackPanic func(call *Call, rec any)

	// OnDuplicateCompletion is called if something attempts to complete a
	// call a second time. The second result is discarded.
	OnDuplicateCompletion func(call *Call, r Result)
}

// runOnTransportError calls the OnTransportError callback if it is set.
func (c *Callbacks) runOnTransportError(call *Call, err error) {
	if c != nil && c.OnTransportError != nil {
		c.OnTransportError(call, err)
	}
}

// runOnParsingError calls the OnParsingError callback if it is set.
func (c *Callbacks) runOnParsingError(call *Call, body []byte, err error) {
	if c != nil && c.OnParsingError != nil {
		c.OnParsingError(call, body, err)
	}
}

// runOnCallbackPanic calls the OnCallbackPanic callback if it is set.
func (c *Callbacks) runOnCallbackPanic(call *Call, rec any) {
	if c != nil && c.OnCallbackPanic != nil {
		c.OnCallbackPanic(call, rec)
	}
}

// runOnDuplicateCompletion calls the OnDuplicateCompletion callback if it is set.
func (c *Callbacks) runOnDuplicateCompletion(call *Call, r Result) {
	if c != nil && c.OnDuplicateCompletion != nil {
		c.OnDuplicateCompletion(call, r)
	}
}
