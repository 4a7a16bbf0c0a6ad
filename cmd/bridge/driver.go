package main

import (
	"go.uber.org/zap"

	"github.com/embedkit/webbridge/internal/bridge"
	"github.com/embedkit/webbridge/internal/browser"
	"github.com/embedkit/webbridge/internal/infrastructure/logging"
)

// driveCallback is the demo's completion token: it forwards the
// terminal signal to the driving goroutine.
type driveCallback struct {
	done chan bool
}

func newDriveCallback() *driveCallback {
	return &driveCallback{done: make(chan bool, 1)}
}

func (c *driveCallback) Continue() { c.done <- true }
func (c *driveCallback) Cancel()   { c.done <- false }
func (c *driveCallback) Dispose()  {}

// readCallback is the per-read token handed to Read calls.
type readCallback struct{}

func (readCallback) Continue() {}
func (readCallback) Cancel()   {}
func (readCallback) Dispose()  {}

func demoRequests() []*browser.RawRequest {
	return []*browser.RawRequest{
		{
			Method:  "GET",
			URL:     "http://app/users?id=5",
			Headers: browser.NewHeaderCollection("Accept", "application/json"),
		},
		{
			Method:  "GET",
			URL:     "http://app/page",
			Headers: browser.NewHeaderCollection(),
		},
		{
			Method:  "GET",
			URL:     "http://app/redirect/relative",
			Headers: browser.NewHeaderCollection(),
		},
		{
			Method:  "POST",
			URL:     "http://app/echo",
			Headers: browser.NewHeaderCollection("Content-Type", "text/plain"),
			PostData: []browser.PostElement{
				{Bytes: []byte("hello from the browser control")},
			},
		},
		{
			Method:  "GET",
			URL:     "http://app/missing",
			Headers: browser.NewHeaderCollection(),
		},
	}
}

// drive plays the browser control's side of the contract for each
// request: open, await the terminal signal, translate headers, drain
// the body, release the handler.
func drive(br *bridge.Bridge, logger *logging.Logger, reqs []*browser.RawRequest) {
	buf := make([]byte, 4096)

	for _, raw := range reqs {
		handler := br.NewHandler()
		cb := newDriveCallback()

		if !handler.Open(raw, cb) {
			logger.Warn("Request rejected", zap.String("url", raw.URL))
			continue
		}
		if ok := <-cb.done; !ok {
			logger.Warn("Load canceled", zap.String("url", raw.URL))
			continue
		}

		info := &browser.ResponseInfo{}
		handler.ResponseHeaders(info)

		total := 0
		for {
			n, more := handler.Read(buf, readCallback{})
			total += n
			if !more {
				break
			}
		}

		logger.Info("Page loaded",
			zap.String("url", raw.URL),
			zap.Int("status", info.StatusCode),
			zap.String("mime_type", info.MimeType),
			zap.Int64("response_length", info.ResponseLength),
			zap.String("redirect_url", info.RedirectURL),
			zap.Int("body_bytes", total),
		)

		handler.Cancel()
	}
}
