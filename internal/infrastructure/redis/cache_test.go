package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/infrastructure/redis"
)

func cacheTest(t *testing.T) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewCache(client), mr
}

func TestSetPuisGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := cacheTest(t)

	type valeur struct {
		Jour  string `json:"jour"`
		Total int    `json:"total"`
	}

	require.NoError(t, cache.Set(ctx, "reconciliation:rapport:j1", valeur{Jour: "2025-03-01", Total: 4}, time.Minute))

	var lu valeur
	require.NoError(t, cache.Get(ctx, "reconciliation:rapport:j1", &lu))
	assert.Equal(t, "2025-03-01", lu.Jour)
	assert.Equal(t, 4, lu.Total)
}

func TestGetCleAbsente(t *testing.T) {
	ctx := context.Background()
	cache, _ := cacheTest(t)

	var dest map[string]any
	err := cache.Get(ctx, "reconciliation:inconnue", &dest)
	assert.ErrorIs(t, err, reconciliation.ErrCacheMiss)
}

func TestGetCleExpiree(t *testing.T) {
	ctx := context.Background()
	cache, mr := cacheTest(t)

	require.NoError(t, cache.Set(ctx, "reconciliation:rapport:j1", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var dest string
	err := cache.Get(ctx, "reconciliation:rapport:j1", &dest)
	assert.ErrorIs(t, err, reconciliation.ErrCacheMiss)
}

func TestInvaliderParMotif(t *testing.T) {
	ctx := context.Background()
	cache, mr := cacheTest(t)

	require.NoError(t, cache.Set(ctx, "reconciliation:comparaison:a", 1, time.Minute))
	require.NoError(t, cache.Set(ctx, "reconciliation:rapport:b", 2, time.Minute))
	require.NoError(t, cache.Set(ctx, "autre:cle", 3, time.Minute))

	require.NoError(t, cache.Invalider(ctx, "reconciliation:*"))

	var dest int
	assert.ErrorIs(t, cache.Get(ctx, "reconciliation:comparaison:a", &dest), reconciliation.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "reconciliation:rapport:b", &dest), reconciliation.ErrCacheMiss)
	assert.True(t, mr.Exists("autre:cle"))
}

func TestInvaliderSansCorrespondance(t *testing.T) {
	ctx := context.Background()
	cache, _ := cacheTest(t)

	assert.NoError(t, cache.Invalider(ctx, "reconciliation:*"))
}
