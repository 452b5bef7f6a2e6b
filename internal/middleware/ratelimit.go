package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/notevault/notevault-go/internal/ratelimit"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware that enforces rule per client IP. It runs
// before authentication so rejected calls cost no token or hash work.
func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := limiter.Consume(clientIP(r), rule)
			reset := d.RetryAfter(limiter.Now())

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(reset)))

			if !d.Allowed {
				h.Set("Retry-After", strconv.Itoa(ceilSeconds(reset)))
				writeJSONError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipThrottle struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func newIPThrottle(rps float64, burst int) *ipThrottle {
	return &ipThrottle{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (t *ipThrottle) getLimiter(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, exists := t.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(t.rps, t.burst)
		t.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (t *ipThrottle) cleanup(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			for ip, v := range t.visitors {
				if time.Since(v.lastSeen) > idle {
					delete(t.visitors, ip)
				}
			}
			t.mu.Unlock()
		}
	}
}

// Throttle returns middleware that smooths traffic per IP with a token bucket
// of rps requests per second and the given burst. Idle buckets are dropped
// until ctx is done.
func Throttle(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	throttle := newIPThrottle(rps, burst)
	go throttle.cleanup(ctx, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !throttle.getLimiter(clientIP(r)).Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
