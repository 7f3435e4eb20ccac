package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/intake/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/healthz", Handler: ok},
			{Method: "POST", Pattern: "/convert-pdf", Handler: ok},
		},
	})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"get registered", "GET", "/healthz", http.StatusOK},
		{"post registered", "POST", "/convert-pdf", http.StatusOK},
		{"wrong method", "GET", "/convert-pdf", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/v1",
		Children: []routes.Group{
			{
				Prefix: "/documents",
				Routes: []routes.Route{{Method: "GET", Pattern: "/{id}", Handler: ok}},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/documents/42", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestRouteMiddleware(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Routes: []routes.Route{
			{
				Method:     "GET",
				Pattern:    "/wrapped",
				Handler:    func(w http.ResponseWriter, r *http.Request) { order = append(order, "handler") },
				Middleware: []func(http.Handler) http.Handler{tag("outer"), tag("inner")},
			},
			{Method: "GET", Pattern: "/plain", Handler: ok},
		},
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/wrapped", nil))

	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d]: got %s, want %s", i, order[i], want[i])
		}
	}

	order = nil
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/plain", nil))
	if len(order) != 0 {
		t.Errorf("middleware ran on unwrapped route: %v", order)
	}
}
