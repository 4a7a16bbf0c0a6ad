package bridge

import (
	"net/url"
	"sync"

	"github.com/embedkit/webbridge/internal/pipeline"
	"github.com/embedkit/webbridge/internal/shared/id"
)

// requestContext is the per-request holder bridging the normalized
// request, the parsed URI and the eventual response. The response slot
// transitions absent -> present on success and is cleared again on
// failure or abandonment; it is never read before the terminal signal.
type requestContext struct {
	id  id.RequestID
	uri *url.URL
	in  *pipeline.IncomingRequest

	mu   sync.Mutex
	resp *pipeline.OutgoingResponse
}

func (c *requestContext) setResponse(resp *pipeline.OutgoingResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resp = resp
}

func (c *requestContext) response() *pipeline.OutgoingResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resp
}

// clearResponse empties the slot and closes the response body, if any.
func (c *requestContext) clearResponse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp != nil && c.resp.Body != nil {
		c.resp.Body.Close()
	}
	c.resp = nil
}
