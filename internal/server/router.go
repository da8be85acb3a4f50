package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter dispatches requests through [http.ServeMux] after a method check and the
// registered [Middleware] stack.
//
// A path may be registered for several methods; each path owns a single mux entry.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware

	mu     sync.RWMutex
	routes map[string]map[string]http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		routes:      map[string]map[string]http.Handler{},
	}
}

// Use appends [Middleware], applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path. GET routes also answer HEAD.
//
// Other methods get a 405 JSON error listing the allowed ones.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	method = strings.ToUpper(method)

	r.mu.Lock()
	methods, exists := r.routes[path]
	if !exists {
		methods = map[string]http.Handler{}
		r.routes[path] = methods
	}
	methods[method] = r.Apply(handler)
	r.mu.Unlock()

	if !exists {
		r.mux.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.dispatch(path, w, req)
		}))
	}
}

func (r *BasicRouter) dispatch(path string, w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	methods := r.routes[path]
	h, ok := methods[req.Method]
	if !ok && req.Method == http.MethodHead {
		h, ok = methods[http.MethodGet]
	}
	allowed := make([]string, 0, len(methods))
	for m := range methods {
		allowed = append(allowed, m)
	}
	r.mu.RUnlock()

	if !ok {
		slices.Sort(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method " + req.Method + " not allowed"})
		return
	}
	h.ServeHTTP(w, req)
}

// Handler registers every route of a [Handler] behind the middleware stack.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware; the first added runs outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for _, mw := range slices.Backward(r.middlewares) {
		wrapped = mw(wrapped)
	}
	return wrapped
}
