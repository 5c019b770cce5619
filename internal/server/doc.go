// Package server provides HTTP routing, middleware, and handlers for the movie list API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] runs in the order it is added, and must all be added before the first route.
//
// The [BasicRouter] implementation is backed by a chi mux. HEAD falls back to GET routes, and a
// method a path does not serve answers 405 with an Allow header and a JSON body.
//
// # Middleware Chain
//
// [New] installs, in order: request ids and panic recovery from chi's middleware package, a request
// logger, CORS for the configured origins, and a per-client token bucket rate limit.
// [RequireSession] guards the list endpoints and stores the verified session in the request context.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
//   - [MoviesHandler] : GET and POST /api/movies
//   - [GoogleAuthHandler] : Google sign-in and its OAuth2 callback
//   - [SessionHandler] : current session and sign-out
//
// # Errors
//
// List failures are logged in full and written as sanitized JSON. 500 bodies include the cause,
// driver code, and stack only when server.debug_errors is enabled.
package server
