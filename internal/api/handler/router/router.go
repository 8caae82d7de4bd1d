package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Route binds a handler to a method and path, optionally wrapped in
// route-scoped middlewares such as role gates.
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler
}

func (r Route) handler() http.Handler {
	handler := r.Handler
	for i := len(r.Middlewares) - 1; i >= 0; i-- {
		handler = r.Middlewares[i](handler)
	}
	return handler
}

type Router struct {
	mux *httprouter.Router
}

type ConfigRouter func(*Router)

// WithRoutes registers a route group at construction time.
func WithRoutes(routes ...Route) ConfigRouter {
	return func(r *Router) {
		r.AddRoutes(routes...)
	}
}

func New(configs ...ConfigRouter) Router {
	r := &Router{mux: httprouter.New()}
	for _, config := range configs {
		config(r)
	}
	return *r
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		r.mux.Handler(route.Method, route.Path, route.handler())
	}
}
