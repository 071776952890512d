package trackwrestling

import (
	"testing"
	"time"
	"trackwrestling-backend/internal/components/chrono"
	"trackwrestling-backend/internal/components/telemetry"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"
	"trackwrestling-backend/lib/scrapers/trackwrestling/core"

	"github.com/stretchr/testify/require"
)

func TestClientPool(t *testing.T) {
	pool, err := NewClientPool(PoolOptions{
		Client:     core.ClientOptions{BaseUrl: "http://127.0.0.1:1"},
		SessionTTL: time.Minute,
	}, chrono.NewStandardTime(nil), telemetry.NewRecordingAPI())
	require.NoError(t, err)

	first, err := pool.Get(tw.EventPredefined, 1)
	require.NoError(t, err)
	again, err := pool.Get(tw.EventPredefined, 1)
	require.NoError(t, err)
	require.Same(t, first, again)

	other, err := pool.Get(tw.EventOpen, 1)
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, 2, pool.Len())
}

func TestClientPoolEviction(t *testing.T) {
	pool, err := NewClientPool(PoolOptions{
		Client:           core.ClientOptions{BaseUrl: "http://127.0.0.1:1"},
		SessionCacheSize: 1,
	}, chrono.NewStandardTime(nil), telemetry.NewRecordingAPI())
	require.NoError(t, err)

	first, err := pool.Get(tw.EventPredefined, 1)
	require.NoError(t, err)
	_, err = pool.Get(tw.EventPredefined, 2)
	require.NoError(t, err)
	require.Equal(t, 1, pool.Len())

	recreated, err := pool.Get(tw.EventPredefined, 1)
	require.NoError(t, err)
	require.NotSame(t, first, recreated)
}
