package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/embedkit/webbridge/internal/shared/header"
)

// HandlerPipeline adapts any net/http handler (a gin engine, a mux, a
// bare HandlerFunc) into a Pipeline. The handler runs in-process; the
// response is captured in memory, so its length is always known.
type HandlerPipeline struct {
	handler http.Handler
}

// NewHandler wraps h as a Pipeline.
func NewHandler(h http.Handler) *HandlerPipeline {
	return &HandlerPipeline{handler: h}
}

// Process implements Pipeline.
func (p *HandlerPipeline) Process(ctx context.Context, req *IncomingRequest) (*OutgoingResponse, error) {
	httpReq, err := p.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	rec := &responseCapture{header: make(http.Header)}
	p.handler.ServeHTTP(rec, httpReq)

	return rec.response(), nil
}

func (p *HandlerPipeline) buildRequest(ctx context.Context, req *IncomingRequest) (*http.Request, error) {
	scheme := req.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := req.Headers.First("Host")
	if host == "" {
		host = "localhost"
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     req.Path,
		RawQuery: strings.TrimPrefix(req.QueryString, "?"),
	}

	var body io.Reader
	if req.Body != nil {
		body = req.Body
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build pipeline request: %w", err)
	}
	httpReq.Proto = req.Protocol
	if req.Body != nil {
		httpReq.ContentLength = req.Body.Len()
	}

	req.Headers.Each(func(name, value string) {
		if strings.EqualFold(name, "Host") {
			httpReq.Host = value
			return
		}
		httpReq.Header.Add(name, value)
	})

	return httpReq, nil
}

// responseCapture is a minimal in-memory http.ResponseWriter.
type responseCapture struct {
	header      http.Header
	body        []byte
	status      int
	wroteHeader bool
}

func (r *responseCapture) Header() http.Header {
	return r.header
}

func (r *responseCapture) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = code
}

func (r *responseCapture) Write(p []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	r.body = append(r.body, p...)
	return len(p), nil
}

func (r *responseCapture) response() *OutgoingResponse {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}

	headers := header.New()
	names := make([]string, 0, len(r.header))
	for name := range r.header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range r.header[name] {
			headers.Add(name, value)
		}
	}

	resp := &OutgoingResponse{
		StatusCode:    status,
		Reason:        http.StatusText(status),
		Headers:       headers,
		ContentLength: int64(len(r.body)),
	}
	if len(r.body) > 0 {
		resp.Body = NewBodyBuffer(r.body)
	}
	return resp
}
