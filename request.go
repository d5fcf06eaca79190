package strata

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Request is the request view over the raw transport pair. It resolves
// proxy-aware fields (client IP, host, protocol) according to the owning
// application's proxy configuration.
type Request struct {
	ctx *Context
}

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request {
	return r.ctx.req
}

// Context returns the owning request context.
func (r *Request) Context() *Context {
	return r.ctx
}

// Method returns the request method.
func (r *Request) Method() string {
	return r.ctx.req.Method
}

// URL returns the parsed request URL.
func (r *Request) URL() *url.URL {
	return r.ctx.req.URL
}

// Path returns the request path.
func (r *Request) Path() string {
	return r.ctx.req.URL.Path
}

// Query returns the first value for the named query parameter.
func (r *Request) Query(key string) string {
	return r.ctx.req.URL.Query().Get(key)
}

// Header returns the request header map.
func (r *Request) Header() http.Header {
	return r.ctx.req.Header
}

// Get returns the first value of the named request header. "Referrer" is
// accepted as an alias for "Referer".
func (r *Request) Get(field string) string {
	if strings.EqualFold(field, "referrer") {
		field = "Referer"
	}
	return r.ctx.req.Header.Get(field)
}

// Href returns the full request URL including protocol and host, built
// from the original request target before any middleware rewrites.
func (r *Request) Href() string {
	return r.Protocol() + "://" + r.Host() + r.ctx.originalURL
}

// ProtoMajor returns the major version number of the request protocol.
func (r *Request) ProtoMajor() int {
	return r.ctx.req.ProtoMajor
}

// Secure reports whether the request arrived over TLS, taking the
// X-Forwarded-Proto header into account when proxy trust is enabled.
func (r *Request) Secure() bool {
	return r.Protocol() == "https"
}

// Protocol returns "https" or "http". When proxy trust is enabled the
// first entry of X-Forwarded-Proto wins over the connection state.
func (r *Request) Protocol() string {
	if r.ctx.app.proxy {
		if proto := r.ctx.req.Header.Get("X-Forwarded-Proto"); proto != "" {
			if i := strings.IndexByte(proto, ','); i >= 0 {
				proto = proto[:i]
			}
			return strings.TrimSpace(proto)
		}
	}
	if r.ctx.req.TLS != nil {
		return "https"
	}
	return "http"
}

// Host returns the request host (hostname:port), preferring the first
// X-Forwarded-Host entry when proxy trust is enabled.
func (r *Request) Host() string {
	if r.ctx.app.proxy {
		if host := r.ctx.req.Header.Get("X-Forwarded-Host"); host != "" {
			if i := strings.IndexByte(host, ','); i >= 0 {
				host = host[:i]
			}
			return strings.TrimSpace(host)
		}
	}
	return r.ctx.req.Host
}

// Hostname returns the host with any port stripped.
func (r *Request) Hostname() string {
	host := r.Host()
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// IPs returns the client address chain from the configured proxy header,
// ordered upstream to downstream. The chain is empty unless proxy trust is
// enabled. With a positive max hop count only the rightmost entries, the
// ones closest to trusted infrastructure, are kept.
func (r *Request) IPs() []string {
	if !r.ctx.app.proxy {
		return nil
	}
	raw := r.ctx.req.Header.Get(r.ctx.app.proxyIPHeader)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ips := make([]string, 0, len(parts))
	for _, p := range parts {
		if ip := strings.TrimSpace(p); ip != "" {
			ips = append(ips, ip)
		}
	}
	if max := r.ctx.app.maxIPsCount; max > 0 && len(ips) > max {
		ips = ips[len(ips)-max:]
	}
	return ips
}

// IP returns the best guess at the client address: the first proxy chain
// entry when proxy trust is enabled, otherwise the remote address of the
// connection.
func (r *Request) IP() string {
	if ips := r.IPs(); len(ips) > 0 {
		return ips[0]
	}
	if host, _, err := net.SplitHostPort(r.ctx.req.RemoteAddr); err == nil {
		return host
	}
	return r.ctx.req.RemoteAddr
}

// Subdomains returns the subdomains of the request host as an array,
// ordered deepest first. The application's subdomain offset controls how
// many trailing labels are ignored: with the default offset of 2 and host
// "tobi.ferrets.example.com" the result is ["ferrets", "tobi"].
func (r *Request) Subdomains() []string {
	host := r.Hostname()
	if net.ParseIP(host) != nil {
		return nil
	}

	labels := strings.Split(host, ".")
	offset := r.ctx.app.subdomainOffset
	if len(labels) <= offset {
		return nil
	}

	subs := make([]string, 0, len(labels)-offset)
	for i := len(labels) - offset - 1; i >= 0; i-- {
		subs = append(subs, labels[i])
	}
	return subs
}
