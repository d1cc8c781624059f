package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediasphere/internal/models"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSON(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, "missing", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "p", payload{Name: "a", Count: 3}, VideoTTL))

	var got payload
	found, err = GetJSON(ctx, "p", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 3}, got)
}

func TestAside(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "fresh", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "k", &first, VideoTTL, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fresh", first.Name)

	// second read is served from the cache, not the fetcher
	var second payload
	require.NoError(t, Aside(ctx, "k", &second, VideoTTL, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	Invalidate(ctx, "k")
	var third payload
	require.NoError(t, Aside(ctx, "k", &third, VideoTTL, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestNilClientNoOps(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, SetJSON(ctx, "k", payload{}, VideoTTL))

	calls := 0
	var out payload
	require.NoError(t, Aside(ctx, "k", &out, VideoTTL, func() error {
		calls++
		return nil
	}))
	require.NoError(t, Aside(ctx, "k", &out, VideoTTL, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 2, calls)

	// invalidation must also tolerate a missing client
	InvalidateTarget(ctx, models.TargetVideo, 1)
	InvalidateTarget(ctx, models.TargetChannel, 1)
}

func TestInvalidateTarget(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, VideoKey(7), payload{Name: "v"}, VideoTTL))
	require.NoError(t, SetJSON(ctx, ChannelStatsKey(9), payload{Name: "s"}, ChannelStatsTTL))

	InvalidateTarget(ctx, models.TargetVideo, 7)
	assert.False(t, mr.Exists(VideoKey(7)))
	assert.True(t, mr.Exists(ChannelStatsKey(9)))

	InvalidateTarget(ctx, models.TargetChannel, 9)
	assert.False(t, mr.Exists(ChannelStatsKey(9)))

	// comment likes have no cached view to drop
	InvalidateTarget(ctx, models.TargetComment, 1)
}
