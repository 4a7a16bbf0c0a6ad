package bridge

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedkit/webbridge/internal/browser"
	"github.com/embedkit/webbridge/internal/pipeline"
)

func TestResponseHeadersBasic(t *testing.T) {
	resp := makeResponse(http.StatusCreated, "payload",
		"Content-Type", "application/json; charset=utf-8",
		"X-Request-Id", "abc",
	)
	h := completedHandler(t, "http://app/things", resp)

	info := &browser.ResponseInfo{}
	h.ResponseHeaders(info)

	assert.Equal(t, http.StatusCreated, info.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusCreated), info.StatusText)
	assert.Equal(t, "application/json", info.MimeType)
	assert.Equal(t, int64(len("payload")), info.ResponseLength)
	assert.Equal(t, "abc", info.Headers.Get("X-Request-Id"))
	assert.Equal(t, "", info.RedirectURL)
}

func TestResponseHeadersLastWriteWins(t *testing.T) {
	resp := makeResponse(http.StatusOK, "",
		"X-Version", "one",
		"X-Version", "two",
	)
	h := completedHandler(t, "http://app/", resp)

	info := &browser.ResponseInfo{}
	h.ResponseHeaders(info)

	// The browser contract is single-valued per key.
	assert.Equal(t, "two", info.Headers.Get("X-Version"))
	assert.Equal(t, 1, info.Headers.Len())
}

func TestResponseHeadersUnknownLength(t *testing.T) {
	resp := makeResponse(http.StatusOK, "streamed")
	resp.ContentLength = -1
	h := completedHandler(t, "http://app/", resp)

	info := &browser.ResponseInfo{}
	h.ResponseHeaders(info)

	assert.Equal(t, browser.UnknownLength, info.ResponseLength)
}

func TestResponseHeadersMimeSniff(t *testing.T) {
	t.Run("rewindable body without declared type is sniffed", func(t *testing.T) {
		body := "<!DOCTYPE html><html><body>hi</body></html>"
		h := completedHandler(t, "http://app/", makeResponse(http.StatusOK, body))

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)

		assert.Equal(t, "text/html", info.MimeType)

		// Sniffing must not consume the stream.
		got, err := io.ReadAll(h.req.response().Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(got))
	})

	t.Run("sniffing mid-drain preserves the read position", func(t *testing.T) {
		body := "<!DOCTYPE html><html><body>mid-stream</body></html>"
		h := completedHandler(t, "http://app/", makeResponse(http.StatusOK, body))

		// The control starts draining before it asks for headers;
		// nothing in the handler contract forbids that ordering.
		var drained bytes.Buffer
		first := make([]byte, 8)
		n, more := h.Read(first, nil)
		require.True(t, more)
		drained.Write(first[:n])

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)
		assert.Equal(t, "text/html", info.MimeType)

		buf := make([]byte, 16)
		for {
			n, more := h.Read(buf, nil)
			drained.Write(buf[:n])
			if !more {
				break
			}
		}

		assert.Equal(t, body, drained.String(), "no byte repeated or skipped")
	})

	t.Run("no body and no declared type yields empty mime", func(t *testing.T) {
		h := completedHandler(t, "http://app/", makeResponse(http.StatusNoContent, ""))

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)

		assert.Equal(t, "", info.MimeType)
	})
}

func TestResponseHeadersRedirects(t *testing.T) {
	t.Run("relative location resolves against the request uri", func(t *testing.T) {
		resp := makeResponse(http.StatusFound, "", "Location", "/c")
		h := completedHandler(t, "http://host/a/b", resp)

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)

		assert.Equal(t, "http://host/c", info.RedirectURL)
	})

	t.Run("absolute location passes through", func(t *testing.T) {
		resp := makeResponse(http.StatusTemporaryRedirect, "", "Location", "http://elsewhere/next")
		h := completedHandler(t, "http://host/a", resp)

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)

		assert.Equal(t, "http://elsewhere/next", info.RedirectURL)
	})

	t.Run("non-redirect status ignores location", func(t *testing.T) {
		resp := makeResponse(http.StatusOK, "", "Location", "/c")
		h := completedHandler(t, "http://host/a", resp)

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)

		assert.Equal(t, "", info.RedirectURL)
	})

	t.Run("malformed location degrades gracefully", func(t *testing.T) {
		resp := makeResponse(http.StatusFound, "", "Location", "://missing-scheme")
		b, logs := observedBridge(respondWith(resp))
		h := b.NewHandler()
		tok := newTokenRecorder()

		require.True(t, h.Open(&browser.RawRequest{
			Method:  "GET",
			URL:     "http://host/a",
			Headers: browser.NewHeaderCollection(),
		}, tok))
		tok.wait(t)
		tok.assertContinued(t)

		info := &browser.ResponseInfo{}
		h.ResponseHeaders(info)

		assert.Equal(t, "", info.RedirectURL)
		assert.Equal(t, http.StatusFound, info.StatusCode, "the response itself still succeeds")

		warned := logs.FilterMessage("Bad redirect URL format")
		require.Equal(t, 1, warned.Len())
		assert.Equal(t, "://missing-scheme", warned.All()[0].ContextMap()["location"])
	})
}

func TestResponseHeadersBeforeCompletion(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	h := newTestBridge(pipeline.Func(func(ctx context.Context, req *pipeline.IncomingRequest) (*pipeline.OutgoingResponse, error) {
		<-release
		return makeResponse(http.StatusOK, "late"), nil
	})).NewHandler()
	tok := newTokenRecorder()
	require.True(t, h.Open(&browser.RawRequest{
		Method:  "GET",
		URL:     "http://app/slow",
		Headers: browser.NewHeaderCollection(),
	}, tok))

	info := &browser.ResponseInfo{}
	h.ResponseHeaders(info)

	assert.Equal(t, 0, info.StatusCode)
	assert.Equal(t, int64(0), info.ResponseLength)
	assert.NotNil(t, info.Headers)
	assert.Equal(t, 0, info.Headers.Len())
}
