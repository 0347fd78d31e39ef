package router

import (
	"net/http"

	"dosadelight/internal/handler"
	"dosadelight/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	submissionHandler *handler.SubmissionHandler,
	allowedOrigins []string,
	adminAPIKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Order routes: POST submits, GET lists for the admin view
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			submissionHandler.ListOrders(w, r)
			return
		}
		submissionHandler.CreateOrder(w, r)
	}

	// Contact routes: POST submits, GET lists for the admin view
	contactRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			submissionHandler.ListContacts(w, r)
			return
		}
		submissionHandler.CreateContact(w, r)
	}

	// Register routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", exact("/api/orders/", orderRouteHandler))
	mux.HandleFunc("/api/contacts", contactRouteHandler)
	mux.HandleFunc("/api/contacts/", exact("/api/contacts/", contactRouteHandler))

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> AdminAuth
	var handler http.Handler = mux
	handler = middleware.AdminAuth(adminAPIKey, logger)(handler)
	handler = middleware.CORS(allowedOrigins, logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}

// exact restricts a subtree pattern to its own path so that
// /api/orders/anything is a 404 rather than a submission.
func exact(path string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h(w, r)
	}
}
