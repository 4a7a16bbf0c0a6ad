// Package browser defines the boundary consumed from the embedded
// browser control: the raw resource request it issues, the completion
// token it supplies, and the response descriptor it expects back.
//
// Nothing in this package talks to a real browser. The types mirror the
// control's callback-driven resource-handler contract so the bridge can
// be driven by any embedding (or by tests) without a UI present.
package browser

// UnknownLength is the response-length sentinel meaning "stream until
// the body is exhausted".
const UnknownLength int64 = -1

// PostElement is one element of a request's post data.
type PostElement struct {
	Bytes []byte
}

// RawRequest is a resource request as issued by the browser control.
type RawRequest struct {
	Method   string
	URL      string
	Headers  *HeaderCollection
	PostData []PostElement
}

// Callback is the completion token for one request. Exactly one of
// Continue or Cancel must be invoked, followed by a single Dispose,
// across the token's lifetime.
type Callback interface {
	// Continue signals that the response is ready to be consumed.
	Continue()
	// Cancel signals that the request failed or was abandoned.
	Cancel()
	// Dispose releases the token's resources.
	Dispose()
}

// ResponseInfo is the browser-facing response descriptor populated by
// the bridge once a request completes.
type ResponseInfo struct {
	StatusCode     int
	StatusText     string
	MimeType       string
	ResponseLength int64
	Headers        *HeaderCollection
	RedirectURL    string
}

// ResourceHandler is the contract the browser control drives for one
// resource request. Open is invoked once on the control's calling
// thread and must not block; ResponseHeaders and Read are only invoked
// after the callback passed to Open has signaled Continue.
type ResourceHandler interface {
	// Open starts processing. It returns false when the request was
	// rejected outright; in every case the callback receives exactly
	// one terminal signal.
	Open(req *RawRequest, cb Callback) bool

	// ResponseHeaders fills info from the completed response.
	ResponseHeaders(info *ResponseInfo)

	// Read copies up to len(dst) body bytes into dst and reports how
	// many were written and whether more data may follow. The per-call
	// token cb is disposed before Read returns.
	Read(dst []byte, cb Callback) (int, bool)

	// Cancel tells the handler the control abandoned the request. Any
	// in-flight pipeline work is left to finish on its own; its result
	// is discarded.
	Cancel()

	// CanGetCookie and CanSetCookie answer cookie-policy queries.
	CanGetCookie(name string) bool
	CanSetCookie(name string) bool
}
