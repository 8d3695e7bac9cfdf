package internal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hub/internal"
	"github.com/dmitrymomot/hub/pkg/logger"
)

func TestQuery(t *testing.T) {
	t.Parallel()

	c := newTestContext("/shop/cart/list?page=5&id=9876543210&price=19.99&verbose=true&bad=abc&name=hello")

	require.Equal(t, "hello", internal.Query[string](c, "name"))
	require.Equal(t, 5, internal.Query[int](c, "page"))
	require.Equal(t, int64(9876543210), internal.Query[int64](c, "id"))
	require.InDelta(t, 19.99, internal.Query[float64](c, "price"), 0.001)
	require.True(t, internal.Query[bool](c, "verbose"))

	require.Equal(t, 0, internal.Query[int](c, "bad"))
	require.Equal(t, 0, internal.Query[int](c, "missing"))
	require.False(t, internal.Query[bool](c, "bad"))
	require.Empty(t, internal.Query[string](c, "missing"))
}

func TestQueryDefault(t *testing.T) {
	t.Parallel()

	c := newTestContext("/?page=5&empty=&bad=abc&flag=false")

	require.Equal(t, 5, internal.QueryDefault(c, "page", 1))
	require.Equal(t, 1, internal.QueryDefault(c, "empty", 1))
	require.Equal(t, 1, internal.QueryDefault(c, "bad", 1))
	require.Equal(t, 1, internal.QueryDefault(c, "missing", 1))
	require.False(t, internal.QueryDefault(c, "flag", true))
	require.Equal(t, "def", internal.QueryDefault(c, "missing", "def"))
	require.InDelta(t, 9.99, internal.QueryDefault(c, "missing", 9.99), 0.001)
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	type user struct{ Name string }

	t.Run("typed value", func(t *testing.T) {
		t.Parallel()
		c := newTestContext("/")
		c.Set(key{}, &user{Name: "ann"})

		got := internal.ContextValue[*user](c, key{})
		require.NotNil(t, got)
		require.Equal(t, "ann", got.Name)
	})

	t.Run("wrong type gives zero", func(t *testing.T) {
		t.Parallel()
		c := newTestContext("/")
		c.Set(key{}, 42)

		require.Empty(t, internal.ContextValue[string](c, key{}))
	})

	t.Run("missing gives zero", func(t *testing.T) {
		t.Parallel()
		c := newTestContext("/")

		require.Zero(t, internal.ContextValue[int](c, key{}))
		require.Nil(t, internal.ContextValue[*user](c, key{}))
	})
}

func TestArg(t *testing.T) {
	t.Parallel()

	args := []any{"sku-1", 3, nil}

	s, ok := internal.Arg[string](args, 0)
	require.True(t, ok)
	require.Equal(t, "sku-1", s)

	n, ok := internal.Arg[int](args, 1)
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok = internal.Arg[string](args, 1)
	require.False(t, ok)

	_, ok = internal.Arg[string](args, 2)
	require.False(t, ok)

	_, ok = internal.Arg[string](args, 3)
	require.False(t, ok)

	_, ok = internal.Arg[string](args, -1)
	require.False(t, ok)
}

func TestRouteFromContext(t *testing.T) {
	t.Parallel()

	_, ok := internal.RouteFromContext(context.Background())
	require.False(t, ok)

	c := newTestContext("/shop/cart/add")
	r := internal.Route{Module: "shop", Controller: "cart", Action: "add"}
	c.SetRoute(r)

	got, ok := internal.RouteFromContext(c)
	require.True(t, ok)
	require.Equal(t, r, got)
}

func TestRouteExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf}, internal.RouteExtractor())

	c := newTestContext("/shop/cart/add")
	c.SetRoute(internal.Route{Module: "shop", Controller: "cart", Action: "add"})
	log.InfoContext(c, "dispatched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	route, ok := entry["route"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "shop", route["module"])
	require.Equal(t, "cart", route["controller"])
	require.Equal(t, "add", route["action"])

	buf.Reset()
	log.InfoContext(context.Background(), "no route")
	require.NotContains(t, buf.String(), `"route"`)
}
