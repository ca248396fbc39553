// ABOUTME: Sliding-window rate limiting for pipeline admission control
// ABOUTME: Composes independent per-IP and per-domain windows into one backstop check

package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow admits at most limit events per key within a trailing
// window. Entries older than the window are evicted on each check. Safe for
// concurrent use.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	events map[string][]time.Time
	now    func() time.Time
}

// NewSlidingWindow creates a limiter admitting limit events per window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow evicts expired timestamps for key, then admits and records the event
// only if the remaining count is below the limit. Rejected events are not
// recorded.
func (l *SlidingWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	bucket := l.events[key]
	kept := bucket[:0]
	for _, ts := range bucket {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return false
	}

	l.events[key] = append(kept, now)
	return true
}

// Backstop combines the per-client-IP and per-target-domain limiters. Both
// sub-limiters are always evaluated and both record their side effects, even
// when the first one already rejects; a rejected caller still consumes a
// slot in the other window.
type Backstop struct {
	perIP     *SlidingWindow
	perDomain *SlidingWindow
}

// NewBackstop creates the dual limiter with one-minute windows.
func NewBackstop(ipPerMinute, domainPerMinute int) *Backstop {
	return &Backstop{
		perIP:     NewSlidingWindow(ipPerMinute, time.Minute),
		perDomain: NewSlidingWindow(domainPerMinute, time.Minute),
	}
}

// Check admits a request only when both the IP and domain windows admit it.
func (b *Backstop) Check(ip, domain string) bool {
	ipOK := b.perIP.Allow(ip)
	domainOK := b.perDomain.Allow(domain)
	return ipOK && domainOK
}
