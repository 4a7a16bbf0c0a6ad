// Package bridge routes resource requests from an embedded browser
// control into an in-process HTTP pipeline and marshals the pipeline's
// response back into the shape the control expects.
//
// One Handler serves exactly one request and implements the control's
// resource-handler contract:
//
//	Open       -> normalize the raw request, dispatch off-thread
//	ResponseHeaders -> translate status, headers, MIME type, redirects
//	Read       -> drain the body into caller-supplied buffers
//
// The completion token handed to Open receives exactly one terminal
// signal (Continue or Cancel) and exactly one Dispose, on every path:
// success, pipeline failure, pipeline panic, malformed request URL, or
// abandonment by the control. All exits funnel through a single
// finalization step guarded by a compare-and-swap, so the guarantee is
// structural rather than by convention.
//
// Open never blocks the calling goroutine; the pipeline runs on its
// own goroutine and suspension only happens there.
package bridge
