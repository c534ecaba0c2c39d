package server

import "net/http"

// Middleware wraps an http.Handler and returns a new http.Handler with
// additional behavior (logging, CORS, rate limiting, request IDs).
type Middleware func(http.Handler) http.Handler

// Router is a small routing layer over http.ServeMux. Patterns use the
// ServeMux method+path syntax (e.g. "GET /api/audio/{videoId}") so
// handlers can read path values from the request.
type Router struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds middleware to the router's stack, applied in the order added.
func (r *Router) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the pattern, wrapped with all
// registered middleware.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, r.apply(handler))
}

// HandleFunc registers a handler function for the pattern.
func (r *Router) HandleFunc(pattern string, fn http.HandlerFunc) {
	r.Handle(pattern, fn)
}

// ServeHTTP implements http.Handler for the entire router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// apply wraps a handler with all registered middleware.
// Middleware is applied in reverse order (last added wraps first).
func (r *Router) apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
