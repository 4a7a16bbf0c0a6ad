package bridge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/embedkit/webbridge/internal/browser"
	"github.com/embedkit/webbridge/internal/infrastructure/logging"
	"github.com/embedkit/webbridge/internal/infrastructure/monitoring"
	"github.com/embedkit/webbridge/internal/pipeline"
)

// Handler states. A handler moves Idle -> Dispatched -> one of
// {Completed, Failed, Canceled}, and Completed -> Drained once the
// body is exhausted.
const (
	stateIdle int32 = iota
	stateDispatched
	stateCompleted
	stateFailed
	stateCanceled
	stateDrained
)

// Bridge creates resource handlers bound to one pipeline instance.
type Bridge struct {
	pipe    pipeline.Pipeline
	opts    Options
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a bridge submitting requests to pipe. A nil logger is
// replaced with a no-op one; metrics may be nil.
func New(pipe pipeline.Pipeline, logger *logging.Logger, metrics *monitoring.Metrics, opts Options) *Bridge {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bridge{
		pipe:    pipe,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// NewHandler creates the resource handler for one request.
func (b *Bridge) NewHandler() *Handler {
	return &Handler{
		pipe:    b.pipe,
		opts:    b.opts,
		logger:  b.logger,
		metrics: b.metrics,
	}
}

// Handler serves a single browser-issued request. It implements
// browser.ResourceHandler.
type Handler struct {
	pipe    pipeline.Pipeline
	opts    Options
	logger  *logging.Logger
	metrics *monitoring.Metrics

	state   atomic.Int32
	settled atomic.Bool
	started time.Time
	req     *requestContext
}

var _ browser.ResourceHandler = (*Handler)(nil)

// Open normalizes the raw request and dispatches it to the pipeline on
// a separate goroutine. It returns without waiting for completion; the
// callback receives exactly one terminal signal on every path.
func (h *Handler) Open(raw *browser.RawRequest, cb browser.Callback) bool {
	if !h.state.CompareAndSwap(stateIdle, stateDispatched) {
		// A handler serves one request. A reused handler's fresh token
		// belongs to a request that never enters this state machine,
		// so it is released directly; settle already spent its
		// exactly-once guard on the first request's token.
		releaseToken(cb, stateCanceled)
		return false
	}
	h.started = time.Now()
	h.metrics.RequestStarted()

	rctx, err := normalize(raw, h.opts)
	if err != nil {
		h.logger.Error("Request error",
			zap.String("url", raw.URL),
			zap.Error(err),
		)
		h.settle(stateCanceled, cb)
		return false
	}
	h.req = rctx

	h.logger.Info("Request starting",
		zap.String("request_id", rctx.id.String()),
		zap.String("method", rctx.in.Method),
		zap.String("url", rctx.uri.String()),
	)

	go h.dispatch(cb)
	return true
}

// dispatch runs on its own goroutine; all waiting on the pipeline
// happens here, never on the caller of Open.
func (h *Handler) dispatch(cb browser.Callback) {
	defer func() {
		if r := recover(); r != nil {
			h.fail(cb, fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	resp, err := h.pipe.Process(context.Background(), h.req.in)
	if err != nil {
		h.fail(cb, err)
		return
	}

	h.req.setResponse(resp)
	if !h.settle(stateCompleted, cb) {
		// The control abandoned the request first; drop the response.
		h.req.clearResponse()
		return
	}

	h.logger.Info("Request finished",
		zap.String("request_id", h.req.id.String()),
		zap.String("method", h.req.in.Method),
		zap.String("url", h.req.uri.String()),
		zap.Int("status", resp.StatusCode),
	)
}

func (h *Handler) fail(cb browser.Callback, err error) {
	h.logger.Error("Request error",
		zap.String("request_id", h.req.id.String()),
		zap.String("url", h.req.uri.String()),
		zap.Error(err),
	)
	h.req.clearResponse()
	h.settle(stateFailed, cb)
}

// settle is the single finalization path. The compare-and-swap ensures
// the token receives exactly one of Continue/Cancel and exactly one
// Dispose, even when the pipeline goroutine races an abandoning
// caller. The request body stream is closed after the terminal signal
// regardless of outcome.
func (h *Handler) settle(terminal int32, cb browser.Callback) bool {
	if !h.settled.CompareAndSwap(false, true) {
		return false
	}
	h.state.Store(terminal)

	releaseToken(cb, terminal)

	if h.req != nil && h.req.in.Body != nil {
		h.req.in.Body.Close()
	}

	h.metrics.RequestSettled()
	h.metrics.RecordOutcome(outcomeLabel(terminal), time.Since(h.started))
	return true
}

// releaseToken delivers the terminal signal and disposes cb. Every
// token exit in this package goes through here: one Continue or Cancel
// followed by one Dispose.
func releaseToken(cb browser.Callback, terminal int32) {
	if cb == nil {
		return
	}
	if terminal == stateCompleted {
		cb.Continue()
	} else {
		cb.Cancel()
	}
	cb.Dispose()
}

// Cancel handles abandonment by the browser control. The control
// disposed its own token, so no signal is delivered here; in-flight
// pipeline work is left to finish and its result is discarded.
func (h *Handler) Cancel() {
	h.settle(stateCanceled, nil)
	if h.req != nil {
		h.req.clearResponse()
	}
}

// CanGetCookie reports whether a cookie may be sent with the request.
// The bridge performs no cookie-level filtering.
func (h *Handler) CanGetCookie(name string) bool { return true }

// CanSetCookie reports whether a response cookie may be stored. The
// bridge performs no cookie-level filtering.
func (h *Handler) CanSetCookie(name string) bool { return true }

func outcomeLabel(terminal int32) string {
	switch terminal {
	case stateCompleted:
		return monitoring.OutcomeCompleted
	case stateFailed:
		return monitoring.OutcomeFailed
	default:
		return monitoring.OutcomeCanceled
	}
}
