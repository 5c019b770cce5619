package server

import (
	"net/http"
	"strings"

	"github.com/desertthunder/reelist/internal/movies"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routeMethods is every method chi routes, in the order they are listed in an Allow header.
var routeMethods = []string{
	http.MethodConnect,
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
	http.MethodTrace,
}

// BasicRouter implements the [Router] interface on a [chi.Mux].
//
// HEAD falls back to a GET route. A known path requested with an unregistered method
// answers 405 with an Allow header and a JSON body.
type BasicRouter struct {
	mux *chi.Mux
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	r := &BasicRouter{mux: chi.NewRouter()}
	r.mux.Use(middleware.GetHead)
	r.mux.MethodNotAllowed(r.methodNotAllowed)
	return r
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// All middleware must be added before the first route; chi panics otherwise.
func (r *BasicRouter) Use(mws ...Middleware) {
	for _, m := range mws {
		r.mux.Use(m)
	}
}

// Handle registers a handler for the specified HTTP method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(strings.ToUpper(method), path, handler)
}

// HandleFunc registers a handler function for method and path.
func (r *BasicRouter) HandleFunc(method, path string, fn http.HandlerFunc) {
	r.Handle(method, path, fn)
}

// Handler registers a custom Handler implementation.
//
// Every route returned by [Handler.Routes] is registered for each of its methods.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		for _, method := range route.Methods {
			r.Handle(method, route.Path, handler)
		}
	}
}

// Allowed lists the methods registered for path.
func (r *BasicRouter) Allowed(path string) []string {
	var allowed []string
	for _, method := range routeMethods {
		if r.mux.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func (r *BasicRouter) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	path := req.URL.RawPath
	if path == "" {
		path = req.URL.Path
	}

	w.Header().Set("Allow", strings.Join(r.Allowed(path), ", "))
	writeJSON(w, http.StatusMethodNotAllowed, movies.Body{Error: "Method not allowed"})
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
