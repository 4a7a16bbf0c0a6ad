package bridge

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/embedkit/webbridge/internal/browser"
	"github.com/embedkit/webbridge/internal/pipeline"
)

// sniffLen bounds how much of a rewindable body is inspected when the
// response declares no Content-Type.
const sniffLen = 512

// ResponseHeaders populates the browser-facing response descriptor
// from the completed response. Called before the terminal signal it
// leaves info zeroed rather than reading undefined state. It never
// touches the live body stream.
func (h *Handler) ResponseHeaders(info *browser.ResponseInfo) {
	if info.Headers == nil {
		info.Headers = &browser.HeaderCollection{}
	}

	state := h.state.Load()
	if state != stateCompleted && state != stateDrained {
		return
	}
	resp := h.req.response()
	if resp == nil {
		return
	}

	info.StatusCode = resp.StatusCode
	info.StatusText = resp.Reason
	info.MimeType = deriveMimeType(resp)

	info.ResponseLength = resp.ContentLength
	if info.ResponseLength < 0 {
		info.ResponseLength = browser.UnknownLength
	}

	// The control's header contract is single-valued per key, so the
	// last value written for a key wins.
	resp.Headers.Each(func(name, value string) {
		info.Headers.Set(name, value)
	})

	h.resolveRedirect(resp, info)
}

// deriveMimeType returns the first Content-Type value truncated at its
// parameters. Without a declared type, a rewindable body prefix is
// sniffed; a live stream is never consumed.
func deriveMimeType(resp *pipeline.OutgoingResponse) string {
	ct := resp.Headers.First("Content-Type")
	if ct == "" {
		ct = sniffMimeType(resp.Body)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// sniffMimeType inspects the leading bytes of a rewindable body and
// restores the read position it found the stream at, so draining that
// is already underway neither repeats nor skips bytes. The restoring
// seek only fails on a closed buffer, where reads report end of body
// anyway.
func sniffMimeType(body io.ReadCloser) string {
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		return ""
	}
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return ""
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	buf := make([]byte, sniffLen)
	n, _ := rs.Read(buf)
	if _, err := rs.Seek(pos, io.SeekStart); err != nil || n == 0 {
		return ""
	}
	return mimetype.Detect(buf[:n]).String()
}

// resolveRedirect absolutizes the Location header of 302/307 responses
// against the original request URI. A malformed Location degrades
// gracefully: the redirect target is omitted and the response stands.
func (h *Handler) resolveRedirect(resp *pipeline.OutgoingResponse, info *browser.ResponseInfo) {
	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusTemporaryRedirect {
		return
	}
	loc := resp.Headers.First("Location")
	if loc == "" {
		return
	}

	target, err := url.Parse(loc)
	if err != nil {
		h.logger.Warn("Bad redirect URL format",
			zap.String("request_id", h.req.id.String()),
			zap.String("location", loc),
		)
		h.metrics.RecordBadRedirect()
		return
	}
	info.RedirectURL = h.req.uri.ResolveReference(target).String()
}
