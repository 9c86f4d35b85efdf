package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

const reviewKeyPrefix = "reed:review:bill-run:"

// KV is the subset of Client the cache needs
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ReviewCache caches bill run review summaries
type ReviewCache struct {
	kv     KV
	ttl    time.Duration
	logger ectologger.Logger
}

func NewReviewCache(kv KV, ttl time.Duration, logger ectologger.Logger) *ReviewCache {
	return &ReviewCache{
		kv:     kv,
		ttl:    ttl,
		logger: logger,
	}
}

func ReviewKey(billRunID string) string {
	return reviewKeyPrefix + billRunID
}

// GetReview returns the cached summary. found is false on a miss.
func (c *ReviewCache) GetReview(ctx context.Context, billRunID string) (summary *models.ReviewBillRun, found bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "redis.ReviewCache.GetReview")
	defer span.End()

	data, err := c.kv.Get(ctx, ReviewKey(billRunID))
	if errors.Is(err, redis.Nil) {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		return nil, false, fmt.Errorf("failed to read review cache: %w", err)
	}

	summary = &models.ReviewBillRun{}
	if err := json.Unmarshal(data, summary); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("failed to decode cached review: %w", err)
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	return summary, true, nil
}

func (c *ReviewCache) SetReview(ctx context.Context, summary *models.ReviewBillRun) error {
	ctx, span := tracing.StartSpan(ctx, "redis.ReviewCache.SetReview")
	defer span.End()

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}

	if err := c.kv.Set(ctx, ReviewKey(summary.BillRun.ID), data, c.ttl); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to write review cache: %w", err)
	}
	return nil
}

func (c *ReviewCache) InvalidateReview(ctx context.Context, billRunID string) error {
	ctx, span := tracing.StartSpan(ctx, "redis.ReviewCache.InvalidateReview")
	defer span.End()

	if err := c.kv.Del(ctx, ReviewKey(billRunID)); err != nil {
		tracing.RecordError(span, err)
		c.logger.WithContext(ctx).WithError(err).WithField("bill_run_id", billRunID).Error("Failed to invalidate review cache")
		return fmt.Errorf("failed to invalidate review cache: %w", err)
	}
	return nil
}
