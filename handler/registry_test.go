package handler

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestNewRegistry(t *testing.T) {
	t.Run("creates empty registry", func(t *testing.T) {
		reg := NewRegistry()

		if reg == nil {
			t.Fatal("Expected non-nil registry")
		}

		routes := reg.GetRoutes()
		if len(routes) != 0 {
			t.Errorf("Expected empty registry, got %d routes", len(routes))
		}
	})
}

func TestMultipleRegistries(t *testing.T) {
	t.Run("independent registries don't interfere", func(t *testing.T) {
		reg1 := NewRegistry()
		reg2 := NewRegistry()

		MakeHandler(reg1,
			RouteInfo{Method: "GET", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)

		MakeHandler(reg2,
			RouteInfo{Method: "GET", Path: "/health"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)

		routes1 := reg1.GetRoutes()
		routes2 := reg2.GetRoutes()

		if len(routes1) != 1 {
			t.Errorf("Expected 1 route in reg1, got %d", len(routes1))
		}

		if len(routes2) != 1 {
			t.Errorf("Expected 1 route in reg2, got %d", len(routes2))
		}

		if routes1[0].Path == routes2[0].Path {
			t.Error("Expected different paths in different registries")
		}
	})
}

func TestMakeHandler(t *testing.T) {
	t.Run("registers handler with route info", func(t *testing.T) {
		reg := NewRegistry()

		routeInfo := RouteInfo{
			Method:      "POST",
			Path:        "/organizations",
			Summary:     "Create an organization",
			Description: "Creates a new organization",
			Tags:        []string{"Organizations"},
		}

		handler := func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
			return struct{}{}, nil
		}

		result := MakeHandler(reg, routeInfo, handler)

		if result == nil {
			t.Fatal("Expected non-nil handler")
		}

		routes := reg.GetRoutes()
		if len(routes) != 1 {
			t.Fatalf("Expected 1 route, got %d", len(routes))
		}

		route := routes[0]
		if route.Method != "POST" {
			t.Errorf("Expected POST, got %s", route.Method)
		}
		if route.Path != "/organizations" {
			t.Errorf("Expected /organizations, got %s", route.Path)
		}
		if route.RouteInfo.Summary != "Create an organization" {
			t.Errorf("Expected 'Create an organization', got %s", route.RouteInfo.Summary)
		}
	})

	t.Run("registers multiple handlers", func(t *testing.T) {
		reg := NewRegistry()

		MakeHandler(reg,
			RouteInfo{Method: "GET", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)

		MakeHandler(reg,
			RouteInfo{Method: "POST", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)

		MakeHandler(reg,
			RouteInfo{Method: "DELETE", Path: "/organizations/{id}"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)

		routes := reg.GetRoutes()
		if len(routes) != 3 {
			t.Errorf("Expected 3 routes, got %d", len(routes))
		}
	})
}

func TestMiddlewareOrder(t *testing.T) {
	t.Run("first listed middleware runs first", func(t *testing.T) {
		reg := NewRegistry()

		var order []string
		record := func(name string) Middleware[struct{}, struct{}, struct{}] {
			return func(next Handler[struct{}, struct{}, struct{}]) Handler[struct{}, struct{}, struct{}] {
				return func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
					order = append(order, name)
					return next(ctx, w, r)
				}
			}
		}

		composed := MakeHandler(reg,
			RouteInfo{Method: "GET", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				order = append(order, "handler")
				return struct{}{}, nil
			},
			record("outer"),
			record("inner"),
		)

		req := httptest.NewRequest("GET", "/organizations", nil)
		if _, err := composed(HandlerContext[struct{}, struct{}]{Context: req.Context()}, httptest.NewRecorder(), req); err != nil {
			t.Fatalf("handler error = %v", err)
		}

		want := []string{"outer", "inner", "handler"}
		if len(order) != len(want) {
			t.Fatalf("Expected %d calls, got %d", len(want), len(order))
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("call %d = %q, want %q", i, order[i], want[i])
			}
		}
	})
}

func TestConcurrentRegistration(t *testing.T) {
	t.Run("concurrent registration is thread-safe", func(t *testing.T) {
		reg := NewRegistry()

		var wg sync.WaitGroup
		numGoroutines := 100

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				MakeHandler(reg,
					RouteInfo{Method: "GET", Path: "/organizations"},
					func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
						return struct{}{}, nil
					},
				)
			}()
		}

		wg.Wait()

		routes := reg.GetRoutes()
		if len(routes) != numGoroutines {
			t.Errorf("Expected %d routes, got %d", numGoroutines, len(routes))
		}
	})
}

func TestGetRoutes(t *testing.T) {
	t.Run("returns copy of routes", func(t *testing.T) {
		reg := NewRegistry()

		MakeHandler(reg,
			RouteInfo{Method: "GET", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)

		routes1 := reg.GetRoutes()
		routes2 := reg.GetRoutes()

		if &routes1[0] == &routes2[0] {
			t.Error("Expected different slice copies, got same underlying array")
		}

		if routes1[0].Path != routes2[0].Path {
			t.Error("Expected same route content in copies")
		}
	})
}

func TestRegisterWithRouter(t *testing.T) {
	t.Run("mounts routes on a chi router", func(t *testing.T) {
		reg := NewRegistry()

		MakeHandler(reg,
			RouteInfo{Method: "GET", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("success"))
				return struct{}{}, nil
			},
		)

		r := chi.NewRouter()
		reg.Register(r, nil, noopLogger())

		req := httptest.NewRequest("GET", "/organizations", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
		if rec.Body.String() != "success" {
			t.Errorf("Expected body 'success', got %q", rec.Body.String())
		}
	})
}

func TestTypedHandler(t *testing.T) {
	t.Run("TypedHandler implements AdaptableHandler", func(t *testing.T) {
		handler := func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
			return struct{}{}, nil
		}

		th := TypedHandler[struct{}, struct{}, struct{}]{handler: handler}

		var _ AdaptableHandler = th

		adapted := th.Adapt(nil, noopLogger())
		if adapted == nil {
			t.Error("Expected non-nil adapted handler")
		}
	})
}

func BenchmarkMakeHandler(b *testing.B) {
	reg := NewRegistry()
	routeInfo := RouteInfo{Method: "GET", Path: "/organizations"}
	handler := func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
		return struct{}{}, nil
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MakeHandler(reg, routeInfo, handler)
	}
}

func BenchmarkGetRoutes(b *testing.B) {
	reg := NewRegistry()

	for i := 0; i < 100; i++ {
		MakeHandler(reg,
			RouteInfo{Method: "GET", Path: "/organizations"},
			func(ctx HandlerContext[struct{}, struct{}], w http.ResponseWriter, r *http.Request) (struct{}, error) {
				return struct{}{}, nil
			},
		)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.GetRoutes()
	}
}
