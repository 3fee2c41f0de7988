package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// corsMaxAge is how long browsers may cache a preflight answer.
const corsMaxAge = 24 * 60 * 60

// exposedHeaders are readable by browser clients.
var exposedHeaders = strings.Join([]string{"Location", RequestIDHeader}, ", ")

type corsPolicy struct {
	anyOrigin bool
	origins   map[string]bool
	methods   string
	headers   string
}

func newCORSPolicy(allowedOrigins, allowedMethods, allowedHeaders []string) corsPolicy {
	p := corsPolicy{
		origins: make(map[string]bool, len(allowedOrigins)),
		methods: strings.Join(allowedMethods, ", "),
		headers: strings.Join(allowedHeaders, ", "),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			p.anyOrigin = true
			continue
		}
		p.origins[origin] = true
	}
	return p
}

// apply writes the CORS response headers for origin.
func (p corsPolicy) apply(h http.Header, origin string) {
	h.Add("Vary", "Origin")

	switch {
	case origin == "":
	case p.origins[origin]:
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
	case p.anyOrigin:
		// Echoed without credentials; browsers reject credentials with "*".
		h.Set("Access-Control-Allow-Origin", origin)
	}

	h.Set("Access-Control-Allow-Methods", p.methods)
	h.Set("Access-Control-Allow-Headers", p.headers)
	h.Set("Access-Control-Expose-Headers", exposedHeaders)
	h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
}

// CORS answers preflight requests with 204 and adds CORS headers to all others.
func CORS(allowedOrigins, allowedMethods, allowedHeaders []string) Middleware {
	policy := newCORSPolicy(allowedOrigins, allowedMethods, allowedHeaders)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy.apply(w.Header(), r.Header.Get("Origin"))

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
