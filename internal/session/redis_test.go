package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func sampleSession(id string) *domain.Session {
	s := &domain.Session{
		ID:   id,
		User: &domain.SessionUser{ID: 7, Name: "Ana", Email: "ana@example.com"},
	}
	s.EnsureCart()[1] = domain.CartLine{
		ProductID: 1,
		Name:      "Classic T-Shirt",
		UnitPrice: decimal.RequireFromString("9.99"),
		Quantity:  2,
		Image:     "tshirt.jpg",
	}
	return s
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	id := NewID()

	require.NoError(t, store.Save(ctx, sampleSession(id)))
	assert.True(t, mr.Exists(sessionKey(id)))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	require.NotNil(t, got.User)
	assert.Equal(t, int64(7), got.User.ID)
	require.Contains(t, got.Cart, int64(1))
	assert.Equal(t, 2, got.Cart[1].Quantity)
	assert.True(t, got.Cart[1].UnitPrice.Equal(decimal.RequireFromString("9.99")))
}

func TestRedisStore_LoadMissingReturnsFreshSession(t *testing.T) {
	store, _ := setupTestRedis(t)

	got, err := store.Load(context.Background(), NewID())
	require.NoError(t, err)
	assert.Nil(t, got.User)
	assert.Nil(t, got.Cart)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	id := NewID()

	require.NoError(t, store.Save(ctx, sampleSession(id)))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey(id)))

	mr.FastForward(2 * time.Hour)

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.User)
}

func TestRedisStore_InvalidJSON(t *testing.T) {
	store, mr := setupTestRedis(t)
	id := NewID()
	require.NoError(t, mr.Set(sessionKey(id), "{not json"))

	got, err := store.Load(context.Background(), id)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Destroy(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	id := NewID()

	require.NoError(t, store.Save(ctx, sampleSession(id)))
	require.NoError(t, store.Destroy(ctx, id))
	assert.False(t, mr.Exists(sessionKey(id)))
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.Load(context.Background(), NewID())
	assert.Error(t, err)

	err = store.Save(context.Background(), sampleSession(NewID()))
	assert.Error(t, err)
}

func TestRedisStore_EmptyID(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.Session{}), ErrInvalidID)
}
