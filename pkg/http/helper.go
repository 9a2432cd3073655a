package http

import (
	"net/http"
	"strings"
)

// UnknownClientIP is reported when no proxy header carries an address.
const UnknownClientIP = "unknown"

var clientIPHeaders = []string{"X-Forwarded-For", "X-Real-IP", "CF-Connecting-IP"}

// ClientIP returns the caller address as reported by the fronting proxy:
// the first X-Forwarded-For entry, then X-Real-IP, then CF-Connecting-IP.
// The socket peer address is not consulted.
func ClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		first, _, _ := strings.Cut(value, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return UnknownClientIP
}

// Referrer reads the Referer header, accepting the "Referrer" spelling too.
func Referrer(r *http.Request) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}
	return r.Header.Get("Referrer")
}
