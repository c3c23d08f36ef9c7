package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

// noticeTypeCache caches per-organization active notice type listings. The
// catalog changes rarely and is read on every case view; the short TTL
// bounds staleness after out-of-band catalog edits.
type noticeTypeCache struct {
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

var _ scheduling.NoticeTypeCache = (*noticeTypeCache)(nil)

// NewNoticeTypeCache adapts the object cache to the scheduling engine's
// catalog cache port.
func NewNoticeTypeCache(cache Cache, ttl time.Duration, log logging.Logger) scheduling.NoticeTypeCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &noticeTypeCache{cache: cache, ttl: ttl, logger: log.Named("notice_type_cache")}
}

func noticeTypeKey(orgID int64) string {
	return fmt.Sprintf("notice_types:org:%d", orgID)
}

// GetOrLoad returns the cached listing, falling back to load. Cache failures
// degrade to a direct load; a redis outage must never fail a catalog read.
func (c *noticeTypeCache) GetOrLoad(ctx context.Context, orgID int64, load func(context.Context) ([]*notice.NoticeType, error)) ([]*notice.NoticeType, error) {
	key := noticeTypeKey(orgID)

	var cached []*notice.NoticeType
	err := c.cache.GetOrSet(ctx, key, &cached, c.ttl, func(ctx context.Context) (interface{}, error) {
		return load(ctx)
	})
	if err == nil {
		return cached, nil
	}
	if err == ErrCacheMiss {
		// Negatively cached empty catalog.
		return []*notice.NoticeType{}, nil
	}

	c.logger.Warn("notice type cache unavailable, loading directly",
		logging.Int64("org_id", orgID), logging.Err(err))
	return load(ctx)
}

//Personal.AI order the ending
