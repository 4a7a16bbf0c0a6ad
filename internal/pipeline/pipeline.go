// Package pipeline defines the downstream boundary of the bridge: the
// canonical request/response records and the single asynchronous entry
// point of the in-process HTTP request-processing pipeline.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/embedkit/webbridge/internal/shared/header"
)

// ProtocolHTTP11 is the protocol version stamped on every request the
// bridge produces.
const ProtocolHTTP11 = "HTTP/1.1"

// IncomingRequest is the canonical internal request record. It is
// immutable once constructed and owned by the dispatching handler for
// the lifetime of one request.
type IncomingRequest struct {
	Protocol    string
	Method      string
	Path        string // percent-decoded
	QueryString string // verbatim, including leading "?"
	Scheme      string
	Headers     *header.Map
	Body        *BodyBuffer // nil when the request has no body
}

// OutgoingResponse is produced exactly once by the pipeline per
// request. ContentLength is -1 when the body length is undeclared.
type OutgoingResponse struct {
	StatusCode    int
	Reason        string
	Headers       *header.Map
	Body          io.ReadCloser // nil when the response has no body
	ContentLength int64
}

// Pipeline is the single entry point the bridge submits requests to.
// Implementations must be safe for concurrent use by independent
// requests.
type Pipeline interface {
	Process(ctx context.Context, req *IncomingRequest) (*OutgoingResponse, error)
}

// Func adapts a function to the Pipeline interface.
type Func func(ctx context.Context, req *IncomingRequest) (*OutgoingResponse, error)

// Process implements Pipeline.
func (f Func) Process(ctx context.Context, req *IncomingRequest) (*OutgoingResponse, error) {
	return f(ctx, req)
}

// BodyBuffer is a seekable in-memory byte stream used for request
// bodies and for buffered response bodies. Close releases the buffer;
// reads after Close report end of stream. Close may race a reader
// during cooperative cancellation, so access is serialized.
type BodyBuffer struct {
	mu sync.Mutex
	r  *bytes.Reader
}

// NewBodyBuffer wraps b without copying.
func NewBodyBuffer(b []byte) *BodyBuffer {
	return &BodyBuffer{r: bytes.NewReader(b)}
}

// Len returns the total length of the underlying buffer.
func (b *BodyBuffer) Len() int64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.r == nil {
		return 0
	}
	return b.r.Size()
}

// Read implements io.Reader.
func (b *BodyBuffer) Read(p []byte) (int, error) {
	if b == nil {
		return 0, io.EOF
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.r == nil {
		return 0, io.EOF
	}
	return b.r.Read(p)
}

// Seek implements io.Seeker.
func (b *BodyBuffer) Seek(offset int64, whence int) (int64, error) {
	if b == nil {
		return 0, io.EOF
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.r == nil {
		return 0, io.EOF
	}
	return b.r.Seek(offset, whence)
}

// Close drops the buffer so it can be reclaimed.
func (b *BodyBuffer) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r = nil
	return nil
}
