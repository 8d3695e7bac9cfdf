package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hub/internal"
)

type shopCart struct {
	c    internal.Context
	next internal.NextFunc
}

func newShopCart(c internal.Context, next internal.NextFunc) *shopCart {
	return &shopCart{c: c, next: next}
}

func shopCartController() *internal.Controller[shopCart] {
	return internal.NewController(newShopCart).
		Action("index", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
			return nil, ct.c.JSON(http.StatusOK, map[string]string{"page": "cart"})
		})).
		Action("buffered", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
			ct.c.SetStatus(http.StatusCreated)
			ct.c.SetBody(map[string]int{"items": 2})
			return nil, nil
		})).
		Action("text", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
			ct.c.SetBody("plain body")
			return nil, nil
		})).
		Action("total", internal.Plain(func(*shopCart, ...any) (any, error) {
			return 42, nil
		})).
		Action("fail", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
			return nil, ct.c.Error(http.StatusConflict, "out of stock")
		})).
		Action("crash", internal.Plain(func(*shopCart, ...any) (any, error) {
			return nil, errors.New("db down")
		})).
		Action("skip", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
			return nil, ct.next()
		})).
		Action("args", internal.Plain(func(ct *shopCart, args ...any) (any, error) {
			return nil, ct.c.JSON(http.StatusOK, args)
		})).
		Action("value", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
			return nil, ct.c.String(http.StatusOK, internal.ContextValue[string](ct.c, tenantKey{}))
		}))
}

type tenantKey struct{}

func serve(app *internal.App, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestApp_Responses(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithController("shop", "cart", shopCartController()))

	tests := []struct {
		name        string
		path        string
		code        int
		body        string
		contentType string
	}{
		{"direct json", "/shop/cart", http.StatusOK, `{"page":"cart"}` + "\n", "application/json; charset=utf-8"},
		{"buffered json", "/shop/cart/buffered", http.StatusCreated, `{"items":2}`, "application/json; charset=utf-8"},
		{"buffered text", "/shop/cart/text", http.StatusOK, "plain body", "text/plain; charset=utf-8"},
		{"result without handler", "/shop/cart/total", http.StatusNotFound, "Not Found", "text/plain; charset=utf-8"},
		{"unknown module", "/blog/posts", http.StatusNotFound, "Not Found", "text/plain; charset=utf-8"},
		{"unknown controller", "/shop/orders", http.StatusNotFound, "Not Found", "text/plain; charset=utf-8"},
		{"unknown action", "/shop/cart/checkout", http.StatusNotFound, "Not Found", "text/plain; charset=utf-8"},
		{"private action", "/shop/cart/_before", http.StatusNotFound, "Not Found", "text/plain; charset=utf-8"},
		{"next from hook", "/shop/cart/skip", http.StatusNotFound, "Not Found", "text/plain; charset=utf-8"},
		{"http error", "/shop/cart/fail", http.StatusConflict, "out of stock\n", "text/plain; charset=utf-8"},
		{"plain error", "/shop/cart/crash", http.StatusInternalServerError, "Internal Server Error\n", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(app, http.MethodGet, tt.path)
			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, tt.body, rec.Body.String())
			require.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestApp_AnyMethod(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithController("shop", "cart", shopCartController()))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := serve(app, method, "/shop/cart")
		require.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestApp_EncodedPath(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithController("shop", "cart/item", shopCartController()))

	require.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/shop/cart/item/index").Code)
	require.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/shop/cart%2Fitem/index").Code)
	require.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/shop/cart%2Fitem").Code)
}

func TestApp_Defaults(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithDefaults("shop", "cart", ""),
		internal.WithController("shop", "cart", shopCartController()),
	)

	rec := serve(app, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"page":"cart"}`, rec.Body.String())
	require.Equal(t, internal.Route{Module: "shop", Controller: "cart", Action: "index"}, app.Dispatcher().Defaults())
}

func TestApp_ResultHandler(t *testing.T) {
	t.Parallel()

	var got any
	app := internal.New(
		internal.WithController("shop", "cart", shopCartController()),
		internal.WithResultHandler(func(c internal.Context, result any) error {
			got = result
			return c.JSON(http.StatusOK, map[string]any{"result": result})
		}),
	)

	rec := serve(app, http.MethodGet, "/shop/cart/total")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"result":42}`, rec.Body.String())
	require.Equal(t, 42, got)

	rec = serve(app, http.MethodGet, "/shop/cart/checkout")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApp_Handlers(t *testing.T) {
	t.Parallel()

	t.Run("custom not found", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithController("shop", "cart", shopCartController()),
			internal.WithNotFoundHandler(func(c internal.Context) error {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "no such page", "path": c.Path()})
			}),
		)

		for _, path := range []string{"/blog", "/shop/cart/skip"} {
			rec := serve(app, http.MethodGet, path)
			require.Equal(t, http.StatusNotFound, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, path, body["path"])
		}
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithController("shop", "cart", shopCartController()),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				code := http.StatusInternalServerError
				if he := internal.AsHTTPError(err); he != nil {
					code = he.Code
				}
				return c.JSON(code, map[string]string{"error": err.Error()})
			}),
		)

		rec := serve(app, http.MethodGet, "/shop/cart/fail")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.JSONEq(t, `{"error":"out of stock"}`, rec.Body.String())

		rec = serve(app, http.MethodGet, "/shop/cart/crash")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error":"db down"}`, rec.Body.String())
	})
}

func TestApp_MiddlewareSharesContext(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				order = append(order, name+":in")
				err := next(c)
				order = append(order, name+":out:"+c.Route().Action)
				return err
			}
		}
	}
	tenant := func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.Set(tenantKey{}, "acme")
			return next(c)
		}
	}

	app := internal.New(
		internal.WithController("shop", "cart", shopCartController()),
		internal.WithMiddleware(mark("outer"), tenant, mark("inner")),
	)

	rec := serve(app, http.MethodGet, "/shop/cart/value")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "acme", rec.Body.String())
	require.Equal(t, []string{"outer:in", "inner:in", "inner:out:value", "outer:out:value"}, order)
}

func TestApp_ActionArgs(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithController("shop", "cart", shopCartController()),
		internal.WithActionArgs(func(c internal.Context) []any {
			return []any{c.Query("sku"), c.Route().Action}
		}),
	)

	rec := serve(app, http.MethodGet, "/shop/cart/args?sku=42")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `["42","args"]`, rec.Body.String())
}

func TestApp_Modules(t *testing.T) {
	t.Parallel()

	built := 0
	ctrl := internal.NewController(func(c internal.Context, next internal.NextFunc) *shopCart {
		built++
		return newShopCart(c, next)
	}).Action("index", internal.Plain(func(ct *shopCart, _ ...any) (any, error) {
		return nil, ct.c.NoContent(http.StatusNoContent)
	}))

	app := internal.New(
		internal.WithController("shop", "cart", ctrl),
		internal.WithController("admin", "users", ctrl),
		internal.WithModules("admin"),
	)

	require.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/shop/cart").Code)
	require.Zero(t, built)

	require.Equal(t, http.StatusNoContent, serve(app, http.MethodGet, "/admin/users").Code)
	require.Equal(t, 1, built)
	require.Equal(t, []string{"admin"}, app.Registry().Modules())
}

func TestApp_InvalidRegistrationPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		internal.New(
			internal.WithController("shop", "cart", shopCartController()),
			internal.WithController("shop", "cart", shopCartController()),
		)
	})
	require.Panics(t, func() {
		internal.New(internal.WithController("shop/eu", "cart", shopCartController()))
	})
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	t.Run("ready with controllers", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithController("shop", "cart", shopCartController()),
			internal.WithHealthChecks(),
		)

		rec := serve(app, http.MethodGet, "/health/live")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = serve(app, http.MethodGet, "/health/ready")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"controllers"`)
	})

	t.Run("not ready without controllers", func(t *testing.T) {
		t.Parallel()
		app := internal.New(internal.WithHealthChecks())

		rec := serve(app, http.MethodGet, "/health/ready")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "no controllers registered")
	})

	t.Run("custom paths and checks", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithController("shop", "cart", shopCartController()),
			internal.WithHealthChecks(
				internal.WithLivenessPath("/livez"),
				internal.WithReadinessPath("/readyz"),
				internal.WithReadinessCheck("stock", func(context.Context) error {
					return errors.New("stock service down")
				}),
			),
		)

		require.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/livez").Code)

		rec := serve(app, http.MethodGet, "/readyz")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "stock service down")
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()
		app := internal.New(internal.WithController("health", "live", shopCartController()))

		rec := serve(app, http.MethodGet, "/health/live")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"page":"cart"}`, rec.Body.String())
	})
}
