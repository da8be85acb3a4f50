// Package server provides HTTP routing, middleware, and the read-only scheduling API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Paths may use
// ServeMux wildcards such as "/api/services/{id}/next".
//
// # API
//
// [API] implements [Handler] and serves:
//   - GET /health
//   - GET /api/transpose?from=C&to=D
//   - GET /api/transpose/capo?key=G&fret=2
//   - GET /api/services/{id}/next
//   - GET /api/notifications/active
//
// Responses are JSON. Errors are reported as {"error": "..."} with a status derived from the
// error's sentinel.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
