package hub_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dmitrymomot/hub"
	"github.com/dmitrymomot/hub/middlewares"
	"github.com/dmitrymomot/hub/pkg/coroutine"
	"github.com/dmitrymomot/hub/pkg/logger"
)

type inventory struct {
	stock map[string]int
}

func (i *inventory) Check(sku string) hub.Awaitable {
	return coroutine.Go(func() (any, error) {
		n, ok := i.stock[sku]
		if !ok {
			return nil, hub.NewHTTPError(http.StatusNotFound, "unknown sku")
		}
		return n, nil
	})
}

type Cart struct {
	c   hub.Context
	inv *inventory
}

func (ct *Cart) Stock(yield hub.Yield, _ ...any) (any, error) {
	n, err := yield(ct.inv.Check(ct.c.Query("sku")))
	if err != nil {
		return nil, err
	}
	return nil, ct.c.JSON(http.StatusOK, map[string]any{"sku": ct.c.Query("sku"), "stock": n})
}

func (ct *Cart) Panic(...any) (any, error) {
	panic("cart exploded")
}

func newApp(t *testing.T, opts ...hub.Option) *hub.App {
	t.Helper()

	inv := &inventory{stock: map[string]int{"sku-1": 3}}
	cart := hub.NewController(func(c hub.Context, _ hub.NextFunc) *Cart {
		return &Cart{c: c, inv: inv}
	}).
		Action("stock", hub.Coroutine((*Cart).Stock)).
		Action("panic", hub.Plain((*Cart).Panic))

	base := []hub.Option{
		hub.WithController("shop", "cart", cart),
		hub.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
		hub.WithErrorHandler(func(c hub.Context, err error) error {
			if middlewares.IsPanicError(err) {
				return c.String(http.StatusInternalServerError, "panic")
			}
			if he := hub.AsHTTPError(err); he != nil {
				return c.String(he.Code, he.Message)
			}
			return c.String(http.StatusInternalServerError, err.Error())
		}),
	}
	return hub.New(append(base, opts...)...)
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	tests := []struct {
		name string
		path string
		code int
		body string
	}{
		{"coroutine action", "/shop/cart/stock?sku=sku-1", http.StatusOK, `{"sku":"sku-1","stock":3}`},
		{"error from awaited future", "/shop/cart/stock?sku=nope", http.StatusNotFound, "unknown sku"},
		{"panic recovered", "/shop/cart/panic", http.StatusInternalServerError, "panic"},
		{"missing action", "/shop/cart/remove", http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.code, rec.Code)
			require.Contains(t, rec.Body.String(), tt.body)
			require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestApp_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf}, middlewares.RequestIDExtractor(), hub.RouteExtractor())

	app := newApp(t, hub.WithCustomLogger(log))

	req := httptest.NewRequest(http.MethodGet, "/shop/orders", nil)
	req.Header.Set("X-Request-ID", "req-1")
	app.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, "controller not found")
	require.Contains(t, out, `"request_id":"req-1"`)
	require.Contains(t, out, `"controller":"orders"`)
}

func TestApp_Tracing(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	app := newApp(t, hub.WithTracing(tp))

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shop/cart/stock?sku=sku-1", nil))

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"hub.hook", "hub.dispatch"}, names)
}

func TestApp_Timeout(t *testing.T) {
	t.Parallel()

	type slow struct{}
	block := make(chan struct{})
	defer close(block)

	ctrl := hub.NewController[slow](nil).
		Action("index", hub.Async(func(*slow, ...any) hub.Awaitable {
			return coroutine.Go(func() (any, error) {
				<-block
				return nil, nil
			})
		}))

	app := hub.New(
		hub.WithController("slow", "index", ctrl),
		hub.WithMiddleware(middlewares.Timeout(10*time.Millisecond)),
		hub.WithErrorHandler(func(c hub.Context, err error) error {
			if middlewares.IsTimeoutError(err) {
				return c.String(http.StatusGatewayTimeout, "timeout")
			}
			return err
		}),
	)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestRun(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var shutdownCalled bool

	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			hub.WithContext(ctx),
			hub.Logger(slog.New(slog.DiscardHandler)),
			hub.ShutdownTimeout(time.Second),
			hub.StartupHook(func(context.Context) error {
				close(started)
				return nil
			}),
			hub.ShutdownHook(func(context.Context) error {
				shutdownCalled = true
				return nil
			}),
		)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		require.True(t, shutdownCalled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_StartupHookFails(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("warmup failed")
	err := newApp(t).Run("127.0.0.1:0",
		hub.StartupHook(func(context.Context) error { return sentinel }),
	)
	require.ErrorIs(t, err, sentinel)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	defaults := hub.Route{Module: "home", Controller: "index", Action: "index"}
	require.Equal(t, hub.Route{Module: "shop", Controller: "cart/item", Action: "add"}, hub.Resolve("/shop/cart/item/add", defaults))
	require.Equal(t, "/shop/cart/item/add", hub.Resolve("/shop/cart/item/add", defaults).String())
	require.True(t, hub.IsReserved("_before"))
	require.True(t, hub.IsEmpty(""))
	require.Equal(t, "?a=1&b=2", hub.BuildQuery("", map[string]string{"b": "2", "a": "1"}))
}
