package strata

import (
	"net/http"
)

// responseWriter is a minimal wrapper around http.ResponseWriter that
// tracks whether headers have been sent, whether the response has been
// ended, and the first write error signaled by the transport.
type responseWriter struct {
	http.ResponseWriter
	status   int
	written  bool
	ended    bool
	bytes    int64
	writeErr error
	onFinish func(err error)
}

// newResponseWriter creates a new response writer wrapper.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
	}
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	if err != nil && w.writeErr == nil {
		w.writeErr = err
	}
	return n, err
}

// Written returns true if WriteHeader has been called.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the HTTP status code sent to the transport.
func (w *responseWriter) Status() int {
	return w.status
}

// BytesWritten returns the number of body bytes written so far.
func (w *responseWriter) BytesWritten() int64 {
	return w.bytes
}

// end sends the status line if headers are still unsent, writes the final
// body bytes (possibly none), and seals the response. A sealed response is
// no longer writable.
func (w *responseWriter) end(status int, body []byte) {
	if w.ended {
		return
	}
	w.ended = true
	w.WriteHeader(status)
	if len(body) > 0 {
		w.Write(body)
	}
}

// finish fires the finalization hook exactly once with the first transport
// error observed during the response, if any. The hook is request-scoped
// and dropped afterwards.
func (w *responseWriter) finish() {
	if w.onFinish != nil {
		hook := w.onFinish
		w.onFinish = nil
		hook(w.writeErr)
	}
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
