package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/redisstore"
	"github.com/jhoicas/inventario-distribucion/pkg/config"
)

// testClient devuelve un cliente Redis (DB 15); se omite si Redis no responde.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := redisstore.Connect(context.Background(), config.RedisConfig{Addr: addr, DB: 15})
	if err != nil {
		t.Skipf("omitiendo test de integración: Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDraftStore_GuardarLeerBorrar(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	store := redisstore.NewDraftStore(client, time.Minute)

	d := stock.NewDraft(uuid.NewString(), "u1", time.Now().UTC())
	d.SelectVendor("v1")
	d.UnitCost = decimal.RequireFromString("12.50")
	require.NoError(t, store.Save(ctx, d))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v1", got.VendorID)
	assert.True(t, got.UnitCost.Equal(d.UnitCost))

	ttl, err := client.TTL(ctx, "stock:draft:"+d.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, d.ID))
	got, err = store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
