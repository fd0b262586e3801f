package middleware

import (
	"net/http"
)

// DefaultMaxBody is the request body limit when none is configured. Matrix
// requests carry base64 payloads, so it is larger than a typical API limit.
const DefaultMaxBody = 8 << 20

// MaxBody limits request bodies of POST, PUT and PATCH requests. Handlers
// see *http.MaxBytesError once the limit is crossed.
func MaxBody(maxSize int64) Middleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBody
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.ContentLength > maxSize {
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}
