package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// Cors lets the listed origins call the API with credentials. An empty list
// lets everyone in, which is only sensible in development.
func Cors(origins []string) Middleware {
	allowed := func(origin string) bool {
		return len(origins) == 0 || slices.Contains(origins, origin)
	}
	c := cors.New(cors.Options{
		AllowOriginFunc:  allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
