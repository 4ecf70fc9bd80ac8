package services

import (
	"sync"
	"time"

	"receipt-api/pkg/logging"
)

// DeliveryGuard remembers which receipts were already announced so a
// resubmitted receipt does not fire the webhook again within the TTL.
type DeliveryGuard struct {
	mutex       sync.Mutex
	delivered   map[string]time.Time
	ttl         time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

// NewDeliveryGuard creates a guard keeping entries for ttl
func NewDeliveryGuard(ttl time.Duration) *DeliveryGuard {
	return &DeliveryGuard{
		delivered:   make(map[string]time.Time),
		ttl:         ttl,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// FirstDelivery records key and reports whether it was not seen before
func (g *DeliveryGuard) FirstDelivery(key string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	now := g.now()
	if now.Sub(g.lastCleanup) > g.ttl {
		g.cleanup(now)
	}

	if at, exists := g.delivered[key]; exists && now.Sub(at) <= g.ttl {
		logging.Debugf("Duplicate delivery skipped - key: %s, first delivered at: %v", key, at)
		return false
	}
	g.delivered[key] = now
	return true
}

// Len returns the number of remembered deliveries
func (g *DeliveryGuard) Len() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return len(g.delivered)
}

// cleanup drops expired entries, the caller holds the mutex
func (g *DeliveryGuard) cleanup(now time.Time) {
	initialCount := len(g.delivered)
	for key, at := range g.delivered {
		if now.Sub(at) > g.ttl {
			delete(g.delivered, key)
		}
	}
	g.lastCleanup = now

	if cleaned := initialCount - len(g.delivered); cleaned > 0 {
		logging.Infof("Delivery guard cleanup: removed %d expired entries, remaining: %d", cleaned, len(g.delivered))
	}
}
