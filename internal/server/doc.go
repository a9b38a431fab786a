// Package server provides HTTP routing, middleware, and a local stand-in of the recommendation API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Stub API
//
// [StubAPI] answers the four endpoints the client uses:
//
//	GET  /check_user/{id}  → advances new_user → scraping → movie_data → ready
//	GET  /lb_check/{id}    → true unless the id is configured as missing
//	GET  /status/{id}      → the embedded sample batch once ready
//	POST /regenerate/{id}  → rotates the sample batch
//
// It backs the `wdiw stub` command so the CLI and TUI can be exercised offline by pointing
// api.host at it.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
