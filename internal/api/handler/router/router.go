// Package router adapts httprouter to plain http.Handler routes with
// per-route middlewares.
package router

import (
	"net/http"

	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
)

type Middleware = func(http.Handler) http.Handler

// Route is one endpoint. Middlewares wrap only this route, outermost first.
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []Middleware
}

type Option func(router *Router)

func WithRoutes(routes ...Route) Option {
	return func(router *Router) {
		router.AddRoutes(routes...)
	}
}

// Group returns copies of routes with mws placed outside their own middlewares.
func Group(mws []Middleware, routes ...Route) []Route {
	grouped := make([]Route, 0, len(routes))
	for _, route := range routes {
		chain := make([]Middleware, 0, len(mws)+len(route.Middlewares))
		chain = append(chain, mws...)
		chain = append(chain, route.Middlewares...)

		route.Middlewares = chain
		grouped = append(grouped, route)
	}
	return grouped
}

type Router struct {
	mux *httprouter.Router
}

// New builds a router whose unknown paths answer with the API error body.
func New(opts ...Option) Router {
	mux := httprouter.New()
	mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "route not found", nil)
	})

	router := &Router{mux: mux}
	for _, opt := range opts {
		opt(router)
	}

	return *router
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := route.Handler
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		r.mux.Handler(route.Method, route.Path, handler)
	}
}
