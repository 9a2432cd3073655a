package middleware

import (
	"net/http"

	apperrors "hitcounter/pkg/errors"
	httputil "hitcounter/pkg/http"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is rejected up front; otherwise the reader fails once the cap is hit.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				_ = httputil.WriteError(w, apperrors.PayloadTooLarge(maxBytes))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
