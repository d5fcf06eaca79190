package strata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
)

var (
	// ErrNoKeys is returned when signed cookie operations are attempted on
	// an application configured without signing keys.
	ErrNoKeys = errors.New("signed cookies require application keys")

	// ErrSignatureInvalid is returned when a signed cookie's signature
	// does not verify against any configured key.
	ErrSignatureInvalid = errors.New("cookie signature invalid")
)

// sigSuffix names the companion cookie carrying the signature.
const sigSuffix = ".sig"

// Cookie returns the value of the named request cookie.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.req.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// SetCookie adds a Set-Cookie header to the response.
func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.w, cookie)
}

// SignedCookie returns the value of the named cookie after verifying its
// signature against the application keys. Any configured key may verify,
// so rotated-out keys keep old cookies readable.
func (c *Context) SignedCookie(name string) (string, error) {
	if len(c.app.keys) == 0 {
		return "", ErrNoKeys
	}

	value, err := c.Cookie(name)
	if err != nil {
		return "", err
	}
	sig, err := c.Cookie(name + sigSuffix)
	if err != nil {
		return "", ErrSignatureInvalid
	}

	for _, key := range c.app.keys {
		if hmac.Equal([]byte(sig), []byte(signCookie(name, value, key))) {
			return value, nil
		}
	}
	return "", ErrSignatureInvalid
}

// SetSignedCookie sets the cookie plus a companion signature cookie signed
// with the newest application key.
func (c *Context) SetSignedCookie(cookie *http.Cookie) error {
	if len(c.app.keys) == 0 {
		return ErrNoKeys
	}

	c.SetCookie(cookie)

	sig := *cookie
	sig.Name = cookie.Name + sigSuffix
	sig.Value = signCookie(cookie.Name, cookie.Value, c.app.keys[0])
	c.SetCookie(&sig)
	return nil
}

// signCookie computes the base64 HMAC-SHA256 signature over name=value.
func signCookie(name, value, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(name + "=" + value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
