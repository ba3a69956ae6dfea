package handlers

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const contactSweepInterval = time.Minute

// contactGuard is the in-process fallback for contact throttling when no
// cache is configured. Each client gets a token bucket holding
// contactRateLimit messages that refills over contactRateWindow.
type contactGuard struct {
	mu        sync.Mutex
	now       func() time.Time
	clients   map[string]*clientBucket
	messages  map[string]time.Time
	nextSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newContactGuard(now func() time.Time) *contactGuard {
	return &contactGuard{
		now:      now,
		clients:  make(map[string]*clientBucket),
		messages: make(map[string]time.Time),
	}
}

// allow takes a token for client, or reports how long until one is free
func (g *contactGuard) allow(client string) (bool, time.Duration) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweep(now)

	bucket, ok := g.clients[client]
	if !ok {
		every := contactRateWindow / contactRateLimit
		bucket = &clientBucket{limiter: rate.NewLimiter(rate.Every(every), contactRateLimit)}
		g.clients[client] = bucket
	}
	bucket.lastSeen = now

	reservation := bucket.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// duplicate records fingerprint and reports whether it was already seen
// within contactDedupWindow
func (g *contactGuard) duplicate(fingerprint string) bool {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweep(now)

	if expiresAt, ok := g.messages[fingerprint]; ok && now.Before(expiresAt) {
		return true
	}
	g.messages[fingerprint] = now.Add(contactDedupWindow)
	return false
}

// sweep drops buckets that have refilled completely and expired
// fingerprints. Callers hold mu.
func (g *contactGuard) sweep(now time.Time) {
	if now.Before(g.nextSweep) {
		return
	}
	g.nextSweep = now.Add(contactSweepInterval)

	for client, bucket := range g.clients {
		if now.Sub(bucket.lastSeen) >= contactRateWindow {
			delete(g.clients, client)
		}
	}
	for fingerprint, expiresAt := range g.messages {
		if !now.Before(expiresAt) {
			delete(g.messages, fingerprint)
		}
	}
}

func (g *contactGuard) size() (clients, messages int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients), len(g.messages)
}
