package sywclient

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()

	ok := MustNew(MockDoer(200, `{}`), WithMetrics(m))
	_, _, _ = ok.Get(ctx, "/x", nil)
	_, _, _ = ok.Get(ctx, "/x", nil)
	_, _, _ = ok.Post(ctx, "/x", nil)
	_ = ok.Do(ctx, "PUT", "/x", nil)

	failing := MustNew(ErrorDoer(errors.New("down")), WithMetrics(m))
	_, _, _ = failing.Get(ctx, "/x", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues("GET", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("POST", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("OTHER", "request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("GET", "transport")))

	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := NewMetrics(reg)
		require.Error(t, err)
	})

	t.Run("unregistered", func(t *testing.T) {
		m, err := NewMetrics(nil)
		require.NoError(t, err)
		c := MustNew(MockDoer(200, `{}`), WithMetrics(m))
		_, _, _ = c.Get(ctx, "/x", nil)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("GET", "none")))
	})
}
