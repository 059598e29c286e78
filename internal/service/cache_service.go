package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

// ScheduleSnapshotCache caches GetSchedule results per teacher. The schedule
// is read-mostly, so a short TTL plus invalidation on replacement keeps the
// cache coherent enough; readers may briefly observe the pre-replacement set.
type ScheduleSnapshotCache struct {
	store  cacheStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewScheduleSnapshotCache builds the snapshot cache.
func NewScheduleSnapshotCache(store cacheStore, ttl time.Duration, logger *zap.Logger) *ScheduleSnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleSnapshotCache{store: store, ttl: ttl, logger: logger}
}

// Get returns the cached snapshot or nil on miss.
func (c *ScheduleSnapshotCache) Get(ctx context.Context, teacherID string) *ScheduleResult {
	if c.store == nil {
		return nil
	}
	var result ScheduleResult
	if err := c.store.Get(ctx, c.key(teacherID), &result); err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("schedule cache read failed", zap.String("teacher_id", teacherID), zap.Error(err))
		}
		return nil
	}
	return &result
}

// Set stores a snapshot. Failures are logged, never surfaced.
func (c *ScheduleSnapshotCache) Set(ctx context.Context, teacherID string, result *ScheduleResult) {
	if c.store == nil || result == nil {
		return
	}
	if err := c.store.Set(ctx, c.key(teacherID), result, c.ttl); err != nil {
		c.logger.Warn("schedule cache write failed", zap.String("teacher_id", teacherID), zap.Error(err))
	}
}

// Invalidate drops the cached snapshot after a replacement commits.
func (c *ScheduleSnapshotCache) Invalidate(ctx context.Context, teacherID string) {
	if c.store == nil {
		return
	}
	c.store.Delete(ctx, c.key(teacherID))
}

func (c *ScheduleSnapshotCache) key(teacherID string) string {
	return fmt.Sprintf("schedule:teacher:%s", teacherID)
}
