// Package hub dispatches HTTP requests to controller actions by convention.
//
// There is no routing table. A request path is split into a module, a
// controller and an action, and the action's lifecycle hooks run on a fresh
// controller instance:
//
//	/                      -> home/index/index   (defaults)
//	/shop                  -> shop/index/index
//	/shop/cart             -> shop/cart/index
//	/shop/cart/add         -> shop/cart/add
//	/shop/cart/item/add    -> shop/cart/item/add (controller "cart/item")
//
// # Quick Start
//
//	type Cart struct {
//	    c hub.Context
//	}
//
//	func (ct *Cart) Add(args ...any) (any, error) {
//	    return nil, ct.c.JSON(http.StatusOK, map[string]string{"status": "added"})
//	}
//
//	cart := hub.NewController(func(c hub.Context, _ hub.NextFunc) *Cart {
//	    return &Cart{c: c}
//	}).Action("add", hub.Plain((*Cart).Add))
//
//	app := hub.New(
//	    hub.WithController("shop", "cart", cart),
//	)
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// For action "add" the hooks run in this order, each optional:
//
//	_initialize, _before, _before_add, add, _after_add, _after
//
// Every request starts with status 404. Once the controller is constructed,
// and again after each hook, the pipeline stops if the status has moved away
// from 404 (see Context.Responded). Otherwise the last non-empty value a hook
// returned is the dispatch result, handed to the ResultHandler if one is set.
//
// Names starting with "_" and the lifecycle names themselves can never be
// dispatched as actions. Such requests, and requests for unknown actions, go to
// the controller's Empty hook if it has one.
//
// # Hook shapes
//
// A hook is Plain (returns a value), Async (returns an Awaitable) or
// Coroutine (suspends on Awaitables through yield). All three are awaited the
// same way:
//
//	hub.Coroutine(func(ct *Cart, yield hub.Yield, args ...any) (any, error) {
//	    stock, err := yield(ct.inventory.Check(ct.c, sku))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return stock, nil
//	})
//
// # Modules
//
// Dispatch is limited to modules with registered controllers, or to the list
// given with WithModules. Requests for other modules, unknown controllers and
// unknown actions are logged and answered by the not-found handler.
package hub
