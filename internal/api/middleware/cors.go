// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
)

const (
	corsMethods = "GET, POST, OPTIONS, DELETE"
	corsHeaders = "Content-Type, X-Request-ID, Authorization"
	corsMaxAge  = "600"
)

// devOrigins are used when no explicit origin list is configured, so a
// local widget or dashboard works out of the box.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
}

type originSet struct {
	exact    map[string]struct{}
	allowAll bool
}

func newOriginSet(origins []string) originSet {
	if len(origins) == 0 {
		origins = devOrigins
	}
	s := originSet{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			s.allowAll = true
			continue
		}
		s.exact[o] = struct{}{}
	}
	return s
}

func (s originSet) allows(origin string) bool {
	if s.allowAll {
		return true
	}
	_, ok := s.exact[origin]
	return ok
}

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers.
// "*" in the configured list allows every origin; an empty list falls back
// to local development origins. Requests without an Origin header (curl,
// backend-to-backend) are always allowed.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	set := newOriginSet(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			switch origin := r.Header.Get("Origin"); {
			case origin == "":
				h.Set("Access-Control-Allow-Origin", "*")
			case set.allows(origin):
				h.Set("Access-Control-Allow-Origin", origin)
			}
			// Disallowed origins get no header and the browser blocks them.

			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			h.Set("Vary", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers")

			if r.Method == http.MethodOptions {
				h.Set("Allow", corsMethods)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
