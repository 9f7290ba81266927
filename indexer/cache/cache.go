package cache

import (
	"sync"
	"time"
)

// LRUCache is the read/write surface shared by the cache flavours here.
type LRUCache interface {
	Add(key, value interface{}) bool
	Get(key interface{}) (interface{}, bool)
	Contains(key interface{}) bool
	Peek(key interface{}) (interface{}, bool)
	Remove(key interface{}) bool
	Len() int
	Clear()
}

// threadSafeCache wraps an LRU with a lock.
type threadSafeCache struct {
	lru  *LRU
	lock sync.RWMutex
}

func NewThreadSafeWithEvict(size int, onEviction EvictionCallback) (LRUCache, error) {
	lru, err := NewLRU(size, onEviction)
	if err != nil {
		return nil, err
	}
	return &threadSafeCache{lru: lru}, nil
}

func (c *threadSafeCache) Add(key, value interface{}) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Add(key, value)
}

func (c *threadSafeCache) Get(key interface{}) (interface{}, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Get(key)
}

func (c *threadSafeCache) Contains(key interface{}) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Contains(key)
}

func (c *threadSafeCache) Peek(key interface{}) (interface{}, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Peek(key)
}

func (c *threadSafeCache) Remove(key interface{}) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Remove(key)
}

func (c *threadSafeCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Len()
}

func (c *threadSafeCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lru.Clear()
}

type ttlEntry struct {
	value   interface{}
	expires time.Time
}

// ttlCache is a thread safe LRU where entries expire after a fixed TTL.
type ttlCache struct {
	lru  *LRU
	lock sync.Mutex
	ttl  time.Duration
	now  func() time.Time
}

func NewTTL(size int, ttl time.Duration) (LRUCache, error) {
	lru, err := NewLRU(size, nil)
	if err != nil {
		return nil, err
	}
	return &ttlCache{lru: lru, ttl: ttl, now: time.Now}, nil
}

func (c *ttlCache) Add(key, value interface{}) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Add(key, ttlEntry{value: value, expires: c.now().Add(c.ttl)})
}

func (c *ttlCache) Get(key interface{}) (interface{}, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	ent := v.(ttlEntry)
	if c.now().After(ent.expires) {
		c.lru.Remove(key)
		return nil, false
	}
	return ent.value, true
}

func (c *ttlCache) Contains(key interface{}) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	v, ok := c.lru.Peek(key)
	if !ok {
		return false
	}
	if c.now().After(v.(ttlEntry).expires) {
		c.lru.Remove(key)
		return false
	}
	return true
}

func (c *ttlCache) Peek(key interface{}) (interface{}, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	v, ok := c.lru.Peek(key)
	if !ok {
		return nil, false
	}
	ent := v.(ttlEntry)
	if c.now().After(ent.expires) {
		c.lru.Remove(key)
		return nil, false
	}
	return ent.value, true
}

func (c *ttlCache) Remove(key interface{}) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Remove(key)
}

func (c *ttlCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Len()
}

func (c *ttlCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lru.Clear()
}
