package middlewares_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hub/middlewares"
)

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	pe := &middlewares.PanicError{Value: "boom"}
	te := &middlewares.TimeoutError{Duration: 5 * time.Second}

	tests := []struct {
		name      string
		err       error
		isPanic   bool
		isTimeout bool
	}{
		{"nil", nil, false, false},
		{"plain error", errors.New("x"), false, false},
		{"panic error", pe, true, false},
		{"wrapped panic error", fmt.Errorf("outer: %w", pe), true, false},
		{"timeout error", te, false, true},
		{"wrapped timeout error", fmt.Errorf("outer: %w", te), false, true},
		{"bare deadline", context.DeadlineExceeded, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.isPanic, middlewares.IsPanicError(tt.err))
			require.Equal(t, tt.isTimeout, middlewares.IsTimeoutError(tt.err))
		})
	}
}

func TestAsErrors(t *testing.T) {
	t.Parallel()

	pe := &middlewares.PanicError{Value: 1}
	got, ok := middlewares.AsPanicError(fmt.Errorf("w: %w", pe))
	require.True(t, ok)
	require.Same(t, pe, got)

	te := &middlewares.TimeoutError{Duration: time.Second}
	gotTE, ok := middlewares.AsTimeoutError(fmt.Errorf("w: %w", te))
	require.True(t, ok)
	require.Same(t, te, gotTE)
	require.Equal(t, "request timeout after 1s", te.Error())
	require.ErrorIs(t, te, context.DeadlineExceeded)

	_, ok = middlewares.AsPanicError(te)
	require.False(t, ok)
	_, ok = middlewares.AsTimeoutError(pe)
	require.False(t, ok)
}
