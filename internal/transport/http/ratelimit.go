package http

import (
	"net"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// ipLimiter is a per-IP token bucket guarding the HTTP surface against
// request spam. Buckets are created lazily and refill continuously.
type ipLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// newIPLimiter allows ratePerMinute requests per client IP, with a burst of
// the same size.
func newIPLimiter(ratePerMinute int) *ipLimiter {
	return &ipLimiter{
		limit:   rate.Limit(float64(ratePerMinute) / 60.0),
		burst:   ratePerMinute,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *ipLimiter) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	l.mu.Lock()
	bucket, ok := l.buckets[host]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[host] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow()
}

// wrap applies the limit to a route.
func (l *ipLimiter) wrap(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if !l.allow(r.RemoteAddr) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r, p)
	}
}
