package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ClientLimiter hands out one token bucket per client address. Buckets of
// clients idle for longer than the idle TTL are dropped.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
}

// NewClientLimiter allows perMinute requests per client, all of which may
// arrive at once
func NewClientLimiter(perMinute int, idleTTL time.Duration) *ClientLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &ClientLimiter{
		limiters: gocache.New(idleTTL, idleTTL),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

// Allow reports whether client may make a request now
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	var limiter *rate.Limiter
	if cached, found := l.limiters.Get(client); found {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// Re-set to push the idle expiry forward
	l.limiters.SetDefault(client, limiter)
	l.mu.Unlock()

	return limiter.Allow()
}

// Clients is the number of clients currently tracked
func (l *ClientLimiter) Clients() int {
	return l.limiters.ItemCount()
}

// clientAddress is the remote host of r without the port. Forwarding
// headers are not trusted.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
