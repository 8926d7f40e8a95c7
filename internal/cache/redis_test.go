package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/estate-aggregator/internal/config"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGetSummary(t *testing.T) {
	cache := setupTestCache(t)

	summary := models.DashboardSummary{
		Email:          "buyer@example.com",
		TotalDeposited: 1000000,
		PaymentTerms:   "12 Months",
	}
	key := SummaryKey(summary.Email)

	require.NoError(t, cache.Set(key, summary, 30*time.Second))

	var got models.DashboardSummary
	found, err := cache.Get(key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, summary.TotalDeposited, got.TotalDeposited)
	assert.Equal(t, summary.PaymentTerms, got.PaymentTerms)
}

func TestGet_Miss(t *testing.T) {
	cache := setupTestCache(t)

	var got models.DashboardSummary
	found, err := cache.Get(SummaryKey("nobody@example.com"), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)
	key := SummaryKey("buyer@example.com")

	require.NoError(t, cache.Set(key, models.DashboardSummary{Email: "buyer@example.com"}, time.Minute))
	require.NoError(t, cache.Invalidate(key))

	var got models.DashboardSummary
	found, err := cache.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
