package rest

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	limiterIdleTTL    = 10 * time.Minute
	// Idle limiters are swept at most this often
	sweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. Once maxTrackedClients are
// tracked, further clients share a single overflow limiter until a sweep
// frees room.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	overflow  *rate.Limiter
	perSec    rate.Limit
	burst     int
	lastSweep time.Time
	nowFunc   func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		overflow: rate.NewLimiter(rate.Limit(perSecond), burst),
		perSec:   rate.Limit(perSecond),
		burst:    burst,
		nowFunc:  time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFunc()
	if now.Sub(rl.lastSweep) >= sweepInterval {
		rl.sweep(now)
	}

	c, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			return rl.overflow.AllowN(now, 1)
		}
		c = &clientLimiter{limiter: rate.NewLimiter(rl.perSec, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep forgets limiters idle for longer than limiterIdleTTL. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, c := range rl.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(rl.clients, k)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"Too many requests"}` + "\n"))
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
