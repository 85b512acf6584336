package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: ticketbooker:{module}:{operation}:{identifier}:{params?}

const (
	CACHE_PREFIX = "ticketbooker"
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 30 * time.Second // 30 seconds - for live seat counts
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENT_STATS = CACHE_PREFIX + ":events:stats:uuid:" // + event-id
)

const (
	TTL_EVENT_STATS = TTL_REALTIME_SHORT // 30 seconds, overridden by REDIS_STATS_TTL
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + tier:client
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Flushed at startup: a reloaded store makes every cached event view suspect

const (
	PATTERN_INVALIDATE_EVENT_ALL = CACHE_PREFIX + ":events:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildEventStatsKey -> "ticketbooker:events:stats:uuid:<event-id>"
func BuildEventStatsKey(eventID string) string {
	return CACHE_KEY_EVENT_STATS + eventID
}

// BuildRateLimitKey -> "ticketbooker:ratelimit:<tier>:<client>"
func BuildRateLimitKey(tier, client string) string {
	return fmt.Sprintf("%s%s:%s", CACHE_KEY_RATE_LIMIT, tier, client)
}
