package placecache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/placecache"
	"github.com/joyroute/backend/testutil"
)

func floatp(f float64) *float64 { return &f }

func suggestions() []domain.PlaceSuggestion {
	return []domain.PlaceSuggestion{{
		ExternalID: "dXJuOm1ieHBvaTox",
		Name:       "Torre de Belém",
		Address:    "Av. Brasília, Lisboa, Portugal",
		Latitude:   floatp(38.6916),
		Longitude:  floatp(-9.2160),
	}}
}

func TestCache_SetThenGet(t *testing.T) {
	_, client := testutil.NewRedis(t)
	cache := placecache.New(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "belem", true, 5, suggestions()))

	got, hit, err := cache.Get(ctx, "belem", true, 5)

	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, suggestions(), got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	_, client := testutil.NewRedis(t)
	cache := placecache.New(client, time.Minute)

	_, hit, err := cache.Get(context.Background(), "never-stored", true, 5)

	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_KeyIncludesAllParameters(t *testing.T) {
	// The same query with different autocomplete or limit must not collide.
	_, client := testutil.NewRedis(t)
	cache := placecache.New(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "belem", true, 5, suggestions()))

	_, hit, err := cache.Get(ctx, "belem", false, 5)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = cache.Get(ctx, "belem", true, 3)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_EntryExpires(t *testing.T) {
	srv, client := testutil.NewRedis(t)
	cache := placecache.New(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "belem", true, 5, suggestions()))

	// miniredis advances TTLs manually instead of with wall-clock time.
	srv.FastForward(2 * time.Minute)

	_, hit, err := cache.Get(ctx, "belem", true, 5)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	srv, client := testutil.NewRedis(t)
	cache := placecache.New(client, time.Minute)

	// Write garbage directly under the cache's key format.
	require.NoError(t, srv.Set("place-search:true:5:belem", "{not json"))

	_, hit, err := cache.Get(context.Background(), "belem", true, 5)

	require.NoError(t, err, "corrupt entries must degrade to a miss, not an error")
	assert.False(t, hit)
}
