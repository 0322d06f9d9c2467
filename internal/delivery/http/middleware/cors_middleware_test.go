package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(m *CORSMiddleware, method, origin string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(method, "/api/v1/dashboard", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	m.Handle(next).ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	rec := serveCORS(NewCORSMiddleware(nil), http.MethodGet, "https://family.example")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSEchoesOnlyListedOrigins(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://family.example", " "})

	rec := serveCORS(m, http.MethodGet, "https://family.example")
	assert.Equal(t, "https://family.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serveCORS(m, http.MethodGet, "https://other.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAnswersPreflight(t *testing.T) {
	rec := serveCORS(NewCORSMiddleware([]string{"*"}), http.MethodOptions, "https://family.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
