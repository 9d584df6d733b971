package http

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS wraps h with the cross-origin policy for the feed and story routes.
// Browser clients read with GET, mutate with POST and DELETE, and send JSON
// bodies; anything else is not part of the API surface.
func CORS(h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "Origin"}),
	)(h)
}
