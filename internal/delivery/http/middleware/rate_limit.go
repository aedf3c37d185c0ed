package middleware

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// WindowCounter counts hits in a fixed window. It is satisfied by the Redis
// cache.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RateLimitConfig struct {
	Name   string
	Limit  int
	Window time.Duration
}

// RateLimiter applies a fixed-window budget per caller. Redis is the source
// of truth; when it errors the limiter degrades to a per-process token
// bucket with the same average rate.
type RateLimiter struct {
	counter WindowCounter
	cfg     RateLimitConfig
	logger  *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	buckets  map[string]*localBucket
	lastGC   time.Time
	warnOnce sync.Once
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(counter WindowCounter, cfg RateLimitConfig, logger *log.Logger) *RateLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RateLimiter{
		counter: counter,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		buckets: make(map[string]*localBucket),
	}
}

func (l *RateLimiter) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if l == nil || l.cfg.Limit <= 0 {
			return c.Next()
		}

		key := l.callerKey(c)
		allowed, remaining, reset := l.allow(c.Context(), key)

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(l.now().Add(reset).Unix(), 10))

		if !allowed {
			c.Set("Retry-After", strconv.Itoa(int(reset.Round(time.Second)/time.Second)))
			return NewRateLimitError()
		}
		return c.Next()
	}
}

func (l *RateLimiter) callerKey(c fiber.Ctx) string {
	if id, ok := UserIDFromCtx(c); ok {
		return "user:" + id.String()
	}
	return "ip:" + c.IP()
}

func (l *RateLimiter) allow(ctx context.Context, caller string) (bool, int, time.Duration) {
	if l.counter != nil {
		windowStart := l.now().Truncate(l.cfg.Window).Unix()
		key := "ratelimit:" + l.cfg.Name + ":" + caller + ":" + strconv.FormatInt(windowStart, 10)

		count, ttl, err := l.counter.IncrWindow(ctx, key, l.cfg.Window)
		if err == nil {
			remaining := l.cfg.Limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			return count <= int64(l.cfg.Limit), remaining, ttl
		}
		l.warnOnce.Do(func() {
			l.logger.Printf("RateLimit fallback | limiter=%s reason=%v", l.cfg.Name, err)
		})
	}
	return l.allowLocal(caller)
}

func (l *RateLimiter) allowLocal(caller string) (bool, int, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.cfg.Window*5 {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.cfg.Window*2 {
				delete(l.buckets, k)
			}
		}
		l.lastGC = now
	}

	b, ok := l.buckets[caller]
	if !ok {
		every := rate.Every(l.cfg.Window / time.Duration(l.cfg.Limit))
		b = &localBucket{limiter: rate.NewLimiter(every, l.cfg.Limit)}
		l.buckets[caller] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	reset := l.cfg.Window / time.Duration(l.cfg.Limit)
	if remaining >= l.cfg.Limit {
		reset = 0
	}
	return allowed, remaining, reset
}
