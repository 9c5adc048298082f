package cache

import (
	"context"
	"testing"
	"time"

	"bookmise/internal/http-api/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgressCache(t *testing.T) (*ProgressCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProgressCache(client, time.Hour), mr
}

func TestProgressCache_SaveAndGet(t *testing.T) {
	c, _ := newTestProgressCache(t)
	ctx := context.Background()

	saved := &models.ReadingProgress{
		UserID:    "user-1",
		BookID:    7,
		PageNo:    42,
		Percent:   21.0,
		UpdatedAt: time.Now(),
	}
	require.NoError(t, c.Save(ctx, saved))

	got, err := c.Get(ctx, "user-1", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 42, got.PageNo)
	assert.InDelta(t, 21.0, got.Percent, 0.001)
}

func TestProgressCache_MissReturnsNil(t *testing.T) {
	c, _ := newTestProgressCache(t)

	got, err := c.Get(context.Background(), "user-1", 999)

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestProgressCache_SaveOverwrites(t *testing.T) {
	c, _ := newTestProgressCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, &models.ReadingProgress{UserID: "user-1", BookID: 7, PageNo: 10, UpdatedAt: time.Now()}))
	require.NoError(t, c.Save(ctx, &models.ReadingProgress{UserID: "user-1", BookID: 7, PageNo: 11, UpdatedAt: time.Now()}))

	got, err := c.Get(ctx, "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 11, got.PageNo)
}

func TestProgressCache_EntriesExpire(t *testing.T) {
	c, mr := newTestProgressCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, &models.ReadingProgress{UserID: "user-1", BookID: 7, PageNo: 42, UpdatedAt: time.Now()}))

	mr.FastForward(2 * time.Hour)

	got, err := c.Get(ctx, "user-1", 7)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestProgressCache_Delete(t *testing.T) {
	c, _ := newTestProgressCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, &models.ReadingProgress{UserID: "user-1", BookID: 7, PageNo: 42, UpdatedAt: time.Now()}))
	require.NoError(t, c.Delete(ctx, "user-1", 7))

	got, err := c.Get(ctx, "user-1", 7)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestProgressCache_NilClientIsNoOp(t *testing.T) {
	c := NewProgressCache(nil, time.Hour)
	ctx := context.Background()

	assert.NoError(t, c.Save(ctx, &models.ReadingProgress{UserID: "user-1", BookID: 7}))
	got, err := c.Get(ctx, "user-1", 7)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "user-1", 7))
}
