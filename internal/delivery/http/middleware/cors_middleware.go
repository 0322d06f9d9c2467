package middleware

import (
	"net/http"
	"strings"
)

type CORSMiddleware struct {
	allowAny bool
	origins  map[string]struct{}
}

// NewCORSMiddleware allows the given origins; "*" or an empty list allows any.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{})}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			m.allowAny = true
		default:
			m.origins[origin] = struct{}{}
		}
	}
	if len(m.origins) == 0 {
		m.allowAny = true
	}
	return m
}

func (m *CORSMiddleware) allowOrigin(w http.ResponseWriter, origin string) {
	if m.allowAny {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		return
	}
	w.Header().Add("Vary", "Origin")
	if _, ok := m.origins[origin]; ok {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m.allowOrigin(w, req.Header.Get("Origin"))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		// The export download name is read by the browser from this header.
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
