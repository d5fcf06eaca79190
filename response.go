package strata

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Response is the response view over the raw transport pair. It accumulates
// the intended status, body, and length; nothing reaches the wire until the
// serializer (or middleware writing to the raw transport directly) does so.
//
// The body is a tagged union: absent, explicit null, []byte, string,
// io.Reader, or any other value which is serialized as JSON at response
// finalization time.
type Response struct {
	ctx *Context

	status       int
	statusSet    bool
	body         any
	explicitNull bool
	length       int64
	lengthSet    bool
}

// Raw returns the underlying http.ResponseWriter.
func (r *Response) Raw() http.ResponseWriter {
	return r.ctx.w
}

// Context returns the owning request context.
func (r *Response) Context() *Context {
	return r.ctx
}

// Header returns the response header map.
func (r *Response) Header() http.Header {
	return r.ctx.w.Header()
}

// Get returns the first value of the named response header.
func (r *Response) Get(field string) string {
	return r.ctx.w.Header().Get(field)
}

// Set sets the named response header.
func (r *Response) Set(field, value string) {
	r.ctx.w.Header().Set(field, value)
}

// Remove deletes the named response header.
func (r *Response) Remove(field string) {
	r.ctx.w.Header().Del(field)
}

// Status returns the intended response status.
func (r *Response) Status() int {
	return r.status
}

// SetStatus sets the intended response status. Codes outside 100-599 are
// programmer errors and panic with ErrInvalidStatus.
func (r *Response) SetStatus(code int) {
	if code < 100 || code > 599 {
		panic(ErrInvalidStatus)
	}
	r.status = code
	r.statusSet = true
}

// setDefaultStatus presets a status without marking it explicitly set, so
// a later body assignment can still promote it to 200.
func (r *Response) setDefaultStatus(code int) {
	r.status = code
}

// Body returns the intended response body.
func (r *Response) Body() any {
	return r.body
}

// SetBody sets the intended response body. Assigning nil records an
// explicit-null marker so the serializer ends the response bodiless instead
// of synthesizing a status-text fallback. Assigning a non-nil body promotes
// the status to 200 unless one was set explicitly, and fills in a default
// Content-Type when none is present.
func (r *Response) SetBody(body any) {
	r.body = body

	if body == nil {
		r.explicitNull = true
		return
	}
	r.explicitNull = false

	if !r.statusSet {
		r.status = http.StatusOK
	}

	if r.Get("Content-Type") != "" {
		return
	}
	switch b := body.(type) {
	case string:
		if strings.HasPrefix(strings.TrimSpace(b), "<") {
			r.Set("Content-Type", "text/html; charset=utf-8")
		} else {
			r.Set("Content-Type", "text/plain; charset=utf-8")
		}
	case []byte, io.Reader:
		r.Set("Content-Type", "application/octet-stream")
	default:
		r.Set("Content-Type", "application/json; charset=utf-8")
	}
}

// Length returns the intended Content-Length: the explicitly set value if
// any, otherwise the byte length of the current body when it is knowable.
// Stream bodies have no knowable length and report zero.
func (r *Response) Length() int64 {
	if r.lengthSet {
		return r.length
	}
	switch b := r.body.(type) {
	case nil:
		return 0
	case string:
		return int64(len(b))
	case []byte:
		return int64(len(b))
	case io.Reader:
		return 0
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return 0
		}
		return int64(len(data))
	}
}

// SetLength sets the Content-Length to send with the response.
func (r *Response) SetLength(n int64) {
	r.length = n
	r.lengthSet = true
}

// Type returns the response Content-Type without parameters.
func (r *Response) Type() string {
	ctype := r.Get("Content-Type")
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = ctype[:i]
	}
	return strings.TrimSpace(ctype)
}

// SetType sets the response Content-Type.
func (r *Response) SetType(ctype string) {
	r.Set("Content-Type", ctype)
}

// BytesWritten returns the number of body bytes already sent to the
// transport, which stays zero until the serializer or a raw write runs.
func (r *Response) BytesWritten() int64 {
	return r.ctx.w.BytesWritten()
}

// HeaderWritten reports whether the status line and headers have already
// been sent to the transport.
func (r *Response) HeaderWritten() bool {
	return r.ctx.w.Written()
}

// Writable reports whether the response can still be written to, i.e. it
// has not been ended.
func (r *Response) Writable() bool {
	return !r.ctx.w.ended
}

// Redirect performs a 302 redirect to url with a small text body, keeping
// any explicitly set 3xx status.
func (r *Response) Redirect(url string) {
	r.Set("Location", url)
	if !r.statusSet || !statusRedirect(r.status) {
		r.SetStatus(http.StatusFound)
	}
	r.SetBody("Redirecting to " + url + ".")
	r.SetType("text/plain; charset=utf-8")
}
