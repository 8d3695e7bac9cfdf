package middlewares_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/dmitrymomot/hub/internal"
)

func newTestContext(path string) (internal.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return internal.NewContext(rec, req, nil), rec
}
