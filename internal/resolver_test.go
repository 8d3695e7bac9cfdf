package internal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hub/internal"
)

var testDefaults = internal.Route{Module: "home", Controller: "index", Action: "index"}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want internal.Route
	}{
		{"empty path", "", testDefaults},
		{"root", "/", testDefaults},
		{"module only", "/shop", internal.Route{Module: "shop", Controller: "index", Action: "index"}},
		{"module and controller", "/shop/cart", internal.Route{Module: "shop", Controller: "cart", Action: "index"}},
		{"full triple", "/shop/cart/add", internal.Route{Module: "shop", Controller: "cart", Action: "add"}},
		{"nested controller", "/shop/cart/sub/item/add", internal.Route{Module: "shop", Controller: "cart/sub/item", Action: "add"}},
		{"four segments", "/a/b/c/d", internal.Route{Module: "a", Controller: "b/c", Action: "d"}},
		{"digits and symbols", "/v1/2024/x-y/@me/9", internal.Route{Module: "v1", Controller: "2024/x-y/@me", Action: "9"}},
		{"trailing slash is literal", "/shop/cart/", internal.Route{Module: "shop", Controller: "cart", Action: ""}},
		{"encoded slash stays in segment", "/shop/a%2Fb", internal.Route{Module: "shop", Controller: "a%2Fb", Action: "index"}},
		{"encoded slash in controller", "/shop/cart%2Fitem/add", internal.Route{Module: "shop", Controller: "cart%2Fitem", Action: "add"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, internal.Resolve(tt.path, testDefaults))
		})
	}
}

func TestResolve_DefaultsAreNotShared(t *testing.T) {
	t.Parallel()

	d := internal.Route{Module: "m", Controller: "c", Action: "a"}
	got := internal.Resolve("/x/y/z", d)

	require.Equal(t, internal.Route{Module: "m", Controller: "c", Action: "a"}, d)
	require.Equal(t, internal.Route{Module: "x", Controller: "y", Action: "z"}, got)
}

func TestRoute_Helpers(t *testing.T) {
	t.Parallel()

	r := internal.Route{Module: "shop", Controller: "cart/sub", Action: "add"}
	require.Equal(t, "shop/cart/sub", r.Key())
	require.Equal(t, "/shop/cart/sub/add", r.String())
}
