package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthConfig holds Basic Auth credentials.
type AuthConfig struct {
	Enabled  bool
	User     string
	Password string
}

// Auth creates a Basic Auth middleware.
// Paths in excludePaths skip authentication; a trailing "*" makes the entry
// a prefix.
func Auth(config AuthConfig, excludePaths ...string) Middleware {
	if !config.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	exactExcludes := make(map[string]bool)
	var prefixExcludes []string

	for _, path := range excludePaths {
		if strings.HasSuffix(path, "*") {
			prefixExcludes = append(prefixExcludes, strings.TrimSuffix(path, "*"))
		} else {
			exactExcludes[path] = true
		}
	}

	excluded := func(path string) bool {
		if exactExcludes[path] {
			return true
		}
		for _, prefix := range prefixExcludes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	wantUser := []byte(config.User)
	wantPass := []byte(config.Password)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			// Constant time comparison
			userMatch := subtle.ConstantTimeCompare([]byte(user), wantUser) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), wantPass) == 1

			if !userMatch || !passMatch {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="ncdprime"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
