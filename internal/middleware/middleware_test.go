package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}),
		mark("first"), mark("second"),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/game?dim_size=5", nil))

	out := buf.String()
	assert.Contains(t, out, `msg="POST /game"`)
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "bytes=5")
	assert.NotContains(t, out, "upgraded")
	assert.Contains(t, out, "dim_size=5")
}

func TestCorsPreflight(t *testing.T) {
	h := Cors([]string{"http://allowed.example"})(http.NotFoundHandler())

	for origin, allowed := range map[string]bool{
		"http://allowed.example": true,
		"http://other.example":   false,
	} {
		req := httptest.NewRequest(http.MethodOptions, "/game", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if allowed {
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		}
	}
}
