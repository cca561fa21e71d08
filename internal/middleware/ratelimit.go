package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
)

// RateLimitConfig mirrors bolt's RateLimitConfig, but backs each per-key
// bucket with golang.org/x/time/rate instead of a hand-rolled token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	KeyFunc           func(*request.Request) string
	CleanupInterval   time.Duration
	MaxAge            time.Duration
}

// DefaultRateLimitConfig allows 100 req/s with a burst of 20, keyed by the
// X-Forwarded-For header when present and otherwise by the connection's
// remote address, sweeping idle limiters every minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             20,
		KeyFunc:           defaultKeyFunc,
		CleanupInterval:   time.Minute,
		MaxAge:            5 * time.Minute,
	}
}

func defaultKeyFunc(req *request.Request) string {
	if ip := req.Headers.Get("x-forwarded-for"); ip != "" {
		return ip
	}
	if req.RemoteAddr != "" {
		return req.RemoteAddr
	}
	return "unknown"
}

// limiterEntry pairs a rate.Limiter with its last-seen time, for the
// cleanup sweep to evict idle keys.
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterStore is a per-key registry of rate.Limiters, protected by a
// mutex (the pack's sync.Map-based version doesn't need a per-entry lock
// here since lastAccess updates are the only mutation after creation).
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      float64
	burst    int
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*limiterEntry),
		rps:      rps,
		burst:    burst,
	}
}

func (ls *limiterStore) get(key string) *rate.Limiter {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if e, ok := ls.limiters[key]; ok {
		e.lastAccess = time.Now()
		return e.limiter
	}
	e := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(ls.rps), ls.burst),
		lastAccess: time.Now(),
	}
	ls.limiters[key] = e
	return e.limiter
}

func (ls *limiterStore) sweep(maxAge time.Duration) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	now := time.Now()
	for key, e := range ls.limiters {
		if now.Sub(e.lastAccess) > maxAge {
			delete(ls.limiters, key)
		}
	}
}

// RateLimit returns rate-limiting middleware with DefaultRateLimitConfig.
func RateLimit() pipeline.NormalFunc {
	return RateLimitWithConfig(DefaultRateLimitConfig())
}

// RateLimitWithConfig returns per-key rate-limiting middleware: each key
// (by default, X-Forwarded-For if set, else the client's remote address) is allowed RequestsPerSecond
// sustained with a Burst ceiling; over-limit requests get 429 instead of
// reaching the handler. A background goroutine evicts limiters untouched
// for longer than MaxAge.
func RateLimitWithConfig(config RateLimitConfig) pipeline.NormalFunc {
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 100
	}
	if config.Burst == 0 {
		config.Burst = 20
	}
	if config.KeyFunc == nil {
		config.KeyFunc = defaultKeyFunc
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.MaxAge == 0 {
		config.MaxAge = 5 * time.Minute
	}

	store := newLimiterStore(config.RequestsPerSecond, config.Burst)

	go func() {
		ticker := time.NewTicker(config.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			store.sweep(config.MaxAge)
		}
	}()

	return func(req *request.Request, res *response.Response, next pipeline.Next) {
		key := config.KeyFunc(req)
		limiter := store.get(key)

		now := time.Now()
		allowed := limiter.AllowN(now, 1)
		tokens := limiter.TokensAt(now)

		remaining := int(math.Floor(tokens))
		if remaining < 0 {
			remaining = 0
		}
		if remaining > config.Burst {
			remaining = config.Burst
		}

		resetIn := 0.0
		if tokens < float64(config.Burst) {
			resetIn = (float64(config.Burst) - tokens) / config.RequestsPerSecond
		}

		res.SetHeader("x-ratelimit-limit", strconv.Itoa(config.Burst))
		res.SetHeader("x-ratelimit-remaining", strconv.Itoa(remaining))
		res.SetHeader("x-ratelimit-reset", strconv.FormatInt(now.Add(durationFromSeconds(resetIn)).Unix(), 10))

		if !allowed {
			retryAfter := (1 - tokens) / config.RequestsPerSecond
			if retryAfter < 0 {
				retryAfter = 0
			}
			res.SetHeader("retry-after", strconv.Itoa(int(math.Ceil(retryAfter))))
			res.ErrorJSON(429, "rate limit exceeded")
			return
		}
		next(nil)
	}
}

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
