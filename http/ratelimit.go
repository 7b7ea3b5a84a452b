package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultClientTTL is how long an idle client's bucket is kept.
const DefaultClientTTL = 10 * time.Minute

type rateLimiterClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket limiter keyed by client identifier.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rateLimiterClient
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst. Clients idle for longer than ttl are
// forgotten.
func NewRateLimiter(rps float64, burst int, ttl time.Duration) *RateLimiter {
	if ttl <= 0 {
		ttl = DefaultClientTTL
	}
	return &RateLimiter{
		clients: make(map[string]*rateLimiterClient),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow consumes a token for key if one is available.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > rl.ttl {
		rl.pruneStale(now)
	}

	client, ok := rl.clients[key]
	if !ok {
		client = &rateLimiterClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// pruneStale removes idle clients. The caller must hold mu.
func (rl *RateLimiter) pruneStale(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.ttl {
			delete(rl.clients, key)
		}
	}
	rl.lastPrune = now
}
