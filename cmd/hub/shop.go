package main

import (
	"net/http"
	"sort"
	"sync"

	"github.com/dmitrymomot/hub"
	"github.com/dmitrymomot/hub/pkg/coroutine"
)

// store is the in-memory backing for the demo shop module.
type store struct {
	mu     sync.Mutex
	prices map[string]int
	carts  map[string]map[string]int
}

func newStore() *store {
	return &store{
		prices: map[string]int{"apple": 120, "pear": 90, "plum": 45},
		carts:  make(map[string]map[string]int),
	}
}

// price looks up a SKU asynchronously, the way a remote catalog would.
func (s *store) price(sku string) hub.Awaitable {
	return coroutine.Go(func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		p, ok := s.prices[sku]
		if !ok {
			return nil, hub.NewHTTPError(http.StatusNotFound, "unknown product", hub.WithErrorCode("unknown_sku"))
		}
		return p, nil
	})
}

func (s *store) add(cartID, sku string, qty int) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.carts[cartID]
	if !ok {
		items = make(map[string]int)
		s.carts[cartID] = items
	}
	items[sku] += qty
	return copyItems(items)
}

func (s *store) items(cartID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.carts[cartID])
}

func (s *store) clear(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
}

func copyItems(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Home serves the default route.
type Home struct {
	c hub.Context
}

func (h *Home) Index(...any) (any, error) {
	return map[string]string{"service": "hub", "status": "ok"}, nil
}

// Catalog lists products.
type Catalog struct {
	c     hub.Context
	store *store
}

func (ct *Catalog) Index(...any) (any, error) {
	ct.store.mu.Lock()
	defer ct.store.mu.Unlock()
	skus := make([]string, 0, len(ct.store.prices))
	for sku := range ct.store.prices {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus, nil
}

func (ct *Catalog) Price(yield hub.Yield, _ ...any) (any, error) {
	sku := ct.c.Query("sku")
	p, err := yield(ct.store.price(sku))
	if err != nil {
		return nil, err
	}
	return map[string]any{"sku": sku, "price": p}, nil
}

// Cart keeps a per-visitor basket keyed by the X-Cart-ID header.
type Cart struct {
	c     hub.Context
	store *store
	id    string
}

func (ct *Cart) load(...any) (any, error) {
	ct.id = ct.c.Header("X-Cart-ID")
	if ct.id == "" {
		return nil, ct.c.JSON(http.StatusBadRequest, map[string]string{"error": "missing X-Cart-ID header"})
	}
	return nil, nil
}

func (ct *Cart) Index(...any) (any, error) {
	return map[string]any{"cart": ct.id, "items": ct.store.items(ct.id)}, nil
}

// Add validates the SKU against the catalog before adding it.
func (ct *Cart) Add(...any) hub.Awaitable {
	sku := ct.c.Query("sku")
	qty := hub.QueryDefault(ct.c, "qty", 1)
	return coroutine.Go(func() (any, error) {
		if _, err := ct.store.price(sku).Await(ct.c.Context()); err != nil {
			return nil, err
		}
		return map[string]any{"cart": ct.id, "items": ct.store.add(ct.id, sku, qty)}, nil
	})
}

func (ct *Cart) Checkout(yield hub.Yield, _ ...any) (any, error) {
	items := ct.store.items(ct.id)
	if len(items) == 0 {
		return nil, hub.NewHTTPError(http.StatusConflict, "cart is empty")
	}
	total := 0
	for sku, qty := range items {
		p, err := yield(ct.store.price(sku))
		if err != nil {
			return nil, err
		}
		total += p.(int) * qty
	}
	ct.store.clear(ct.id)
	return nil, ct.c.JSON(http.StatusOK, map[string]any{"cart": ct.id, "total": total})
}

func (ct *Cart) empty(...any) (any, error) {
	return nil, ct.c.JSON(http.StatusNotFound, map[string]string{
		"error": "cart has no action " + ct.c.Route().Action,
	})
}

// shopControllers returns the demo controllers as app options.
func shopControllers(s *store) []hub.Option {
	home := hub.NewController(func(c hub.Context, _ hub.NextFunc) *Home {
		return &Home{c: c}
	}).
		Action("index", hub.Plain((*Home).Index))

	catalog := hub.NewController(func(c hub.Context, _ hub.NextFunc) *Catalog {
		return &Catalog{c: c, store: s}
	}).
		Action("index", hub.Plain((*Catalog).Index)).
		Action("price", hub.Coroutine((*Catalog).Price))

	cart := hub.NewController(func(c hub.Context, _ hub.NextFunc) *Cart {
		return &Cart{c: c, store: s}
	}).
		Before(hub.Plain((*Cart).load)).
		Action("index", hub.Plain((*Cart).Index)).
		Action("add", hub.Async((*Cart).Add)).
		Action("checkout", hub.Coroutine((*Cart).Checkout)).
		Empty(hub.Plain((*Cart).empty))

	return []hub.Option{
		hub.WithController("home", "index", home),
		hub.WithController("shop", "catalog", catalog),
		hub.WithController("shop", "cart", cart),
	}
}
