package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/internal/domain/dto"
	"github.com/guttosm/image-proxy/internal/i18n"
	"github.com/guttosm/image-proxy/internal/metrics"
)

const (
	defaultQuotaBuckets = 16
	quotaSweepInterval  = time.Minute
)

// quota is what one client has left in its current window.
type quota struct {
	left        int
	windowStart time.Time
}

type quotaBucket struct {
	mu      sync.Mutex
	clients map[string]*quota
}

// RateLimiter throttles proxy requests per client over fixed windows.
// Client keys are spread over buckets by xxhash so that busy clients do not
// serialize unrelated ones.
type RateLimiter struct {
	buckets  []*quotaBucket
	limit    int
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows limit requests per client in every window.
// A non-positive limit lets everything through.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return newRateLimiter(limit, window, defaultQuotaBuckets, time.Now)
}

func newRateLimiter(limit int, window time.Duration, buckets int, now func() time.Time) *RateLimiter {
	if buckets <= 0 {
		buckets = defaultQuotaBuckets
	}
	if window <= 0 {
		window = time.Minute
	}

	rl := &RateLimiter{
		buckets: make([]*quotaBucket, buckets),
		limit:   limit,
		window:  window,
		now:     now,
		done:    make(chan struct{}),
	}
	for i := range rl.buckets {
		rl.buckets[i] = &quotaBucket{clients: make(map[string]*quota)}
	}

	go rl.sweepLoop()
	return rl
}

func (rl *RateLimiter) bucketFor(client string) *quotaBucket {
	return rl.buckets[xxhash.Sum64String(client)%uint64(len(rl.buckets))]
}

// take spends one request from client's quota. It reports whether the
// request may proceed, what is left, and when the window rolls over.
func (rl *RateLimiter) take(client string) (ok bool, left int, reset time.Time) {
	now := rl.now()
	b := rl.bucketFor(client)

	b.mu.Lock()
	defer b.mu.Unlock()

	q, found := b.clients[client]
	if !found || now.Sub(q.windowStart) >= rl.window {
		q = &quota{left: rl.limit, windowStart: now}
		b.clients[client] = q
	}
	reset = q.windowStart.Add(rl.window)

	if q.left <= 0 {
		return false, 0, reset
	}
	q.left--
	return true, q.left, reset
}

// Middleware rejects a client's requests with 429 once its quota for the
// current window is spent. Admins authenticated by JWTAuth get their own
// quota; everyone else is keyed by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		kind, client := clientKey(c)
		ok, left, reset := rl.take(client)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(left))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !ok {
			metrics.RecordThrottled(kind)
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(reset.Sub(rl.now()))))
			resp := dto.NewError(dto.ErrCodeRateLimit,
				i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, resp)
			return
		}

		c.Next()
	}
}

// clientKey returns the metric label and the quota key for the caller.
func clientKey(c *gin.Context) (kind, key string) {
	if admin := c.GetString(string(AdminKey)); admin != "" {
		return "admin", "admin:" + admin
	}
	return "ip", "ip:" + c.ClientIP()
}

// retryAfterSeconds rounds up and never advertises less than one second.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(quotaSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep forgets clients whose window closed at least one window ago.
func (rl *RateLimiter) sweep() {
	now := rl.now()
	for _, b := range rl.buckets {
		b.mu.Lock()
		for client, q := range b.clients {
			if now.Sub(q.windowStart) >= 2*rl.window {
				delete(b.clients, client)
			}
		}
		b.mu.Unlock()
	}
}

// Clients returns how many clients currently hold a quota.
func (rl *RateLimiter) Clients() int {
	n := 0
	for _, b := range rl.buckets {
		b.mu.Lock()
		n += len(b.clients)
		b.mu.Unlock()
	}
	return n
}

// Stop ends the sweep goroutine. Calling it more than once is safe.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}
