package cache

import (
	"container/list"
	"errors"
)

type EvictionCallback func(key interface{}, value interface{})

// LRU is a non-thread safe fixed size LRU cache.
type LRU struct {
	size         int
	evictionList *list.List
	items        map[interface{}]*list.Element
	onEviction   EvictionCallback
}

type entry struct {
	key   interface{}
	value interface{}
}

// NewLRU creates a new LRU of the given size.
func NewLRU(size int, onEviction EvictionCallback) (*LRU, error) {
	if size <= 0 {
		return nil, errors.New("size must be > 0")
	}
	return &LRU{
		size:         size,
		evictionList: list.New(),
		items:        make(map[interface{}]*list.Element),
		onEviction:   onEviction,
	}, nil
}

func (c *LRU) Clear() {
	for k, v := range c.items {
		if c.onEviction != nil {
			c.onEviction(k, v.Value.(*entry).value)
		}
		delete(c.items, k)
	}
	c.evictionList.Init()
}

// Add stores a key with a given value.
// It returns true if an element was evicted to make room.
func (c *LRU) Add(key, value interface{}) bool {
	if ent, ok := c.items[key]; ok {
		c.evictionList.MoveToFront(ent)
		ent.Value.(*entry).value = value
		return false
	}
	c.items[key] = c.evictionList.PushFront(&entry{key, value})
	shouldEvict := c.evictionList.Len() > c.size
	if shouldEvict {
		c.evictOldest()
	}
	return shouldEvict
}

// Get looks up a key's value, updating its recent-ness.
func (c *LRU) Get(key interface{}) (value interface{}, ok bool) {
	if ent, ok := c.items[key]; ok {
		c.evictionList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	return
}

// Contains checks for a key without updating recent-ness.
func (c *LRU) Contains(key interface{}) (ok bool) {
	_, ok = c.items[key]
	return ok
}

// Peek returns the value without updating recent-ness.
func (c *LRU) Peek(key interface{}) (value interface{}, ok bool) {
	var ent *list.Element
	if ent, ok = c.items[key]; ok {
		return ent.Value.(*entry).value, true
	}
	return nil, ok
}

func (c *LRU) Remove(key interface{}) (present bool) {
	if ent, ok := c.items[key]; ok {
		c.remove(ent)
		return true
	}
	return false
}

func (c *LRU) Len() int {
	return c.evictionList.Len()
}

func (c *LRU) evictOldest() {
	if ent := c.evictionList.Back(); ent != nil {
		c.remove(ent)
	}
}

func (c *LRU) remove(e *list.Element) {
	c.evictionList.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	if c.onEviction != nil {
		c.onEviction(ent.key, ent.value)
	}
}
