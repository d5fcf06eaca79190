package strata

import (
	"net/http"
	"strconv"
)

// statusEmptyBody lists status codes that must not carry a response body
// per the HTTP status registry.
var statusEmptyBody = map[int]bool{
	http.StatusNoContent:    true,
	http.StatusResetContent: true,
	http.StatusNotModified:  true,
}

// statusRedirects lists status codes that denote a redirect.
var statusRedirects = map[int]bool{
	http.StatusMultipleChoices:   true,
	http.StatusMovedPermanently:  true,
	http.StatusFound:             true,
	http.StatusSeeOther:          true,
	http.StatusUseProxy:          true,
	http.StatusTemporaryRedirect: true,
	http.StatusPermanentRedirect: true,
}

// statusEmpty reports whether code belongs to the body-less class.
func statusEmpty(code int) bool {
	return statusEmptyBody[code]
}

// statusRedirect reports whether code denotes a redirect.
func statusRedirect(code int) bool {
	return statusRedirects[code]
}

// statusMessage returns the registry message for code, falling back to the
// stringified code for statuses the registry doesn't know.
func statusMessage(code int) string {
	if msg := http.StatusText(code); msg != "" {
		return msg
	}
	return strconv.Itoa(code)
}
