package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// CookieName is the session cookie shared by the HTTP surface and the
// websocket handshake.
const CookieName = "register_session"

// Signed cookie values look like "s:<session id>.<signature>", matching the
// format the login layer issues. The prefix marks the value as a signed
// session reference; the delimiter separates the ID from its signature.
const (
	signedPrefix    = "s:"
	signedDelimiter = "."
)

var (
	ErrMissingCookie   = errors.New("session cookie missing")
	ErrMalformedCookie = errors.New("session cookie malformed")
	ErrBadSignature    = errors.New("session cookie signature mismatch")
)

// Codec signs and verifies session cookie values. A single codec instance is
// consumed by both the request/response layer and the channel bridge so the
// cookie format is parsed in exactly one place.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode produces the signed cookie value for a session ID.
func (c *Codec) Encode(id string) string {
	return signedPrefix + id + signedDelimiter + c.sign(id)
}

// Decode validates a raw cookie value and returns the embedded session ID.
func (c *Codec) Decode(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingCookie
	}
	if !strings.HasPrefix(raw, signedPrefix) {
		return "", ErrMalformedCookie
	}
	body := strings.TrimPrefix(raw, signedPrefix)
	idx := strings.LastIndex(body, signedDelimiter)
	if idx <= 0 || idx == len(body)-1 {
		return "", ErrMalformedCookie
	}
	id, sig := body[:idx], body[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(id))) {
		return "", ErrBadSignature
	}
	return id, nil
}

func (c *Codec) sign(id string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
