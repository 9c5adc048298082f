package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"bookmise/internal/http-api/models"
)

// ProgressCache keeps the hot copy of reading positions in Redis so the
// reader can resume without touching Postgres. Postgres stays the
// source of truth; every cached record carries a TTL.
type ProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressCache(client *redis.Client, ttl time.Duration) *ProgressCache {
	return &ProgressCache{client: client, ttl: ttl}
}

func progressKey(userID string, bookID int64) string {
	return fmt.Sprintf("progress:user:%s:book:%d", userID, bookID)
}

// Save upserts a progress record into the cache.
func (c *ProgressCache) Save(ctx context.Context, progress *models.ReadingProgress) error {
	if c == nil || c.client == nil {
		// Cache not configured - treat as a no-op
		return nil
	}
	key := progressKey(progress.UserID, progress.BookID)

	fields := map[string]any{
		"user_id":    progress.UserID,
		"book_id":    progress.BookID,
		"page_no":    progress.PageNo,
		"percent":    progress.Percent,
		"updated_at": progress.UpdatedAt.Format(time.RFC3339Nano),
	}

	if err := c.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}

	return c.client.Expire(ctx, key, c.ttl).Err()
}

// Get returns the cached record, or nil on a miss.
func (c *ProgressCache) Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	key := progressKey(userID, bookID)

	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil // miss
	}

	progress := &models.ReadingProgress{
		UserID: userID,
		BookID: bookID,
	}
	if v, err := strconv.Atoi(fields["page_no"]); err == nil {
		progress.PageNo = v
	}
	if v, err := strconv.ParseFloat(fields["percent"], 64); err == nil {
		progress.Percent = v
	}
	if v, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		progress.UpdatedAt = v
	}

	return progress, nil
}

// Delete evicts a record; used when a book is removed.
func (c *ProgressCache) Delete(ctx context.Context, userID string, bookID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, progressKey(userID, bookID)).Err()
}
