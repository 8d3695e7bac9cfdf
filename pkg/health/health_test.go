package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hub/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), nil)
		require.True(t, resp.Healthy())
		require.Empty(t, resp.Checks)
	})

	t.Run("one failure marks unhealthy and keeps others", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{
			"ok":   func(context.Context) error { return nil },
			"fail": func(context.Context) error { return errors.New("down") },
		})
		require.False(t, resp.Healthy())
		require.Equal(t, health.StatusHealthy, resp.Checks["ok"].Status)
		require.Equal(t, health.StatusUnhealthy, resp.Checks["fail"].Status)
		require.Equal(t, "down", resp.Checks["fail"].Error)
	})

	t.Run("timeout is reported", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))
		require.False(t, resp.Healthy())
		require.Contains(t, resp.Checks["slow"].Error, health.ErrCheckTimeout.Error())
	})
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("readiness unhealthy", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h := health.ReadinessHandler(health.Checks{
			"db": func(context.Context) error { return errors.New("unreachable") },
		})
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, "unreachable", resp.Checks["db"].Error)
	})
}
