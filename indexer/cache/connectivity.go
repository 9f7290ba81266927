package cache

import (
	"sync"
	"time"
)

// ConnectivityTester tracks which site URLs recently failed so link
// selection can route around dead mirrors.
type ConnectivityTester interface {
	IsOk(url string) bool
	Invalidate(url string)
	ClearFailures()
}

type failure struct {
	added time.Time
}

// OptimisticConnectivityCache treats every URL as reachable until a fetch
// against it fails. Failures age out with the underlying TTL cache so a
// mirror that recovers gets retried.
type OptimisticConnectivityCache struct {
	failures LRUCache
	lock     sync.RWMutex
}

func NewOptimisticConnectivityCache() (*OptimisticConnectivityCache, error) {
	failures, err := NewTTL(10000, time.Minute*60)
	if err != nil {
		return nil, err
	}
	return &OptimisticConnectivityCache{failures: failures}, nil
}

func (c *OptimisticConnectivityCache) IsOk(url string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return !c.failures.Contains(url)
}

func (c *OptimisticConnectivityCache) Invalidate(url string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.failures.Add(url, failure{added: time.Now()})
}

func (c *OptimisticConnectivityCache) ClearFailures() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.failures.Clear()
}
