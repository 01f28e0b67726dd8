package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/stretchr/testify/assert"
)

func tag(name string, trace *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		validate func(t *testing.T, rec *httptest.ResponseRecorder, trace []string)
	}{
		{
			name:   "group middlewares run outside route middlewares",
			method: http.MethodPost,
			path:   "/api/cron/run",
			validate: func(t *testing.T, rec *httptest.ResponseRecorder, trace []string) {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Equal(t, []string{"group", "route", "handler"}, trace)
			},
		},
		{
			name:   "routes outside the group are untouched",
			method: http.MethodGet,
			path:   "/api/public",
			validate: func(t *testing.T, rec *httptest.ResponseRecorder, trace []string) {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Equal(t, []string{"handler"}, trace)
			},
		},
		{
			name:   "unknown path answers with the error body",
			method: http.MethodGet,
			path:   "/api/nothing-here",
			validate: func(t *testing.T, rec *httptest.ResponseRecorder, trace []string) {
				assert.Equal(t, http.StatusNotFound, rec.Code)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), apiErrors.ErrResourceNotFound)
				assert.Empty(t, trace)
			},
		},
		{
			name:   "wrong method",
			method: http.MethodDelete,
			path:   "/api/public",
			validate: func(t *testing.T, rec *httptest.ResponseRecorder, trace []string) {
				assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
				assert.True(t, strings.Contains(rec.Header().Get("Allow"), http.MethodGet))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := make([]string, 0)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, "handler")
				w.WriteHeader(http.StatusNoContent)
			})

			grouped := Group([]Middleware{tag("group", &trace)}, Route{
				Path:        "/api/cron/run",
				Method:      http.MethodPost,
				Handler:     handler,
				Middlewares: []Middleware{tag("route", &trace)},
			})

			rt := New(
				WithRoutes(grouped...),
				WithRoutes(Route{Path: "/api/public", Method: http.MethodGet, Handler: handler}),
			)

			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			tt.validate(t, rec, trace)
		})
	}
}

func TestGroup_DoesNotAliasRouteMiddlewares(t *testing.T) {
	var trace []string
	own := []Middleware{tag("own", &trace)}
	route := Route{Path: "/a", Method: http.MethodGet, Middlewares: own}

	grouped := Group([]Middleware{tag("first", &trace), tag("second", &trace)}, route)

	assert.Len(t, grouped[0].Middlewares, 3)
	assert.Len(t, route.Middlewares, 1)
}
