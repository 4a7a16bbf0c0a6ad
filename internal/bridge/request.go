package bridge

import (
	"fmt"
	"net/url"

	"github.com/embedkit/webbridge/internal/browser"
	"github.com/embedkit/webbridge/internal/pipeline"
	"github.com/embedkit/webbridge/internal/shared/header"
	"github.com/embedkit/webbridge/internal/shared/id"
)

// DefaultHostPlaceholder is the Host header value synthesized for
// requests that carry none, so logging and routing always have a host
// to report. It does not imply virtual-hosting support.
const DefaultHostPlaceholder = "localhost"

// DefaultScheme is assumed for scheme-relative request URLs.
const DefaultScheme = "http"

// Options configures request normalization.
type Options struct {
	// HostPlaceholder overrides DefaultHostPlaceholder when non-empty.
	HostPlaceholder string
	// Scheme overrides DefaultScheme when non-empty.
	Scheme string
}

func (o Options) hostPlaceholder() string {
	if o.HostPlaceholder == "" {
		return DefaultHostPlaceholder
	}
	return o.HostPlaceholder
}

func (o Options) scheme() string {
	if o.Scheme == "" {
		return DefaultScheme
	}
	return o.Scheme
}

// normalize builds the canonical request record from the raw browser
// request. It is pure and synchronous; the only failure mode is a
// malformed URL.
func normalize(raw *browser.RawRequest, opts Options) (*requestContext, error) {
	u, err := url.Parse(raw.URL)
	if err != nil {
		return nil, fmt.Errorf("parse request url %q: %w", raw.URL, err)
	}

	var headers *header.Map
	if raw.Headers != nil {
		headers = header.FromSource(raw.Headers)
	} else {
		headers = header.New()
	}
	if !headers.Has("Host") {
		headers.Add("Host", opts.hostPlaceholder())
	}

	query := ""
	if u.RawQuery != "" {
		query = "?" + u.RawQuery
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = opts.scheme()
	}

	req := &pipeline.IncomingRequest{
		Protocol:    pipeline.ProtocolHTTP11,
		Method:      raw.Method,
		Path:        u.Path,
		QueryString: query,
		Scheme:      scheme,
		Headers:     headers,
	}

	// Only the first post-data element is forwarded. Merging
	// multi-element bodies is a documented limitation, not a defect.
	if len(raw.PostData) > 0 {
		req.Body = pipeline.NewBodyBuffer(raw.PostData[0].Bytes)
	}

	return &requestContext{
		id:  id.NewRequestID(),
		uri: u,
		in:  req,
	}, nil
}
