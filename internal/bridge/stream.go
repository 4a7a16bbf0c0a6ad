package bridge

import "github.com/embedkit/webbridge/internal/browser"

// Read drains up to len(dst) bytes of the response body into dst and
// reports how many were written and whether more data may follow. The
// per-call token cb is disposed before returning, independently of the
// dispatch token. No data is buffered beyond the caller's buffer, so
// memory stays bounded by len(dst) regardless of body length.
//
// Before completion, or without a body, Read reports no data.
func (h *Handler) Read(dst []byte, cb browser.Callback) (int, bool) {
	if cb != nil {
		defer cb.Dispose()
	}

	if h.state.Load() != stateCompleted {
		return 0, false
	}
	resp := h.req.response()
	if resp == nil || resp.Body == nil {
		return 0, false
	}
	if len(dst) == 0 {
		return 0, true
	}

	n, err := resp.Body.Read(dst)
	if n > 0 {
		h.metrics.RecordBodyBytes(n)
		return n, true
	}
	_ = err // read errors and EOF alike mean end of body

	h.state.CompareAndSwap(stateCompleted, stateDrained)
	return 0, false
}
