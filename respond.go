package strata

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// respond inspects the finished context and writes the intended response
// onto the transport. It implements the default serialization rules for the
// body union; middleware that talks to the raw transport directly disables
// it via SetRespond(false).
func respond(ctx *Context) {
	if !ctx.respond {
		return
	}

	res := &ctx.response
	w := ctx.w
	if !res.Writable() {
		return
	}

	status := res.status

	// Body-less status class: discard any body, along with the entity
	// headers an earlier body assignment installed, and end with zero bytes.
	if statusEmpty(status) {
		res.body = nil
		res.Remove("Content-Type")
		res.Remove("Content-Length")
		res.Remove("Transfer-Encoding")
		w.end(status, nil)
		return
	}

	if res.lengthSet && !w.Written() {
		res.Set("Content-Length", strconv.FormatInt(res.length, 10))
	}

	// HEAD responses carry the headers the GET would have produced, but no
	// body bytes.
	if ctx.Method() == http.MethodHead {
		if !w.Written() && res.Get("Content-Length") == "" {
			if n := res.Length(); n > 0 {
				res.Set("Content-Length", strconv.FormatInt(n, 10))
			}
		}
		w.end(status, nil)
		return
	}

	if res.body == nil {
		if res.explicitNull {
			res.Remove("Content-Type")
			res.Remove("Transfer-Encoding")
			res.Set("Content-Length", "0")
			w.end(status, nil)
			return
		}

		// Fallback body: HTTP/2+ has no reason phrase, so the stringified
		// code stands in for the status message.
		var body string
		if ctx.request.ProtoMajor() >= 2 {
			body = strconv.Itoa(status)
		} else {
			body = statusMessage(status)
		}
		if !w.Written() {
			res.SetType("text/plain; charset=utf-8")
			res.Set("Content-Length", strconv.Itoa(len(body)))
		}
		w.end(status, []byte(body))
		return
	}

	switch body := res.body.(type) {
	case []byte:
		w.end(status, body)
	case string:
		w.end(status, []byte(body))
	case io.Reader:
		w.WriteHeader(status)
		// Write errors are already captured by the writer and reported by
		// the finalization hook; only surface read-side failures here.
		if _, err := io.Copy(w, body); err != nil && err != w.writeErr {
			ctx.OnError(err)
		}
		if closer, ok := body.(io.Closer); ok {
			closer.Close()
		}
		w.ended = true
	default:
		data, err := json.Marshal(body)
		if err != nil {
			ctx.OnError(err)
			if !w.Written() {
				w.end(http.StatusInternalServerError, nil)
			}
			return
		}
		if !w.Written() {
			res.Set("Content-Length", strconv.Itoa(len(data)))
		}
		w.end(status, data)
	}
}
