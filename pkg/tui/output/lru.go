// ABOUTME: Small bounded LRU cache keyed by render keys.
// ABOUTME: GetOrCompute invokes the loader at most once per resident key.

package output

import "container/list"

// lruCache is a bounded key/value store with least-recently-used eviction.
// It is not goroutine-safe: render caches live on the UI thread.
type lruCache[V any] struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type lruItem[V any] struct {
	key   string
	value V
}

func newLRU[V any](capacity int) *lruCache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &lruCache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// GetOrCompute returns the cached value for key, calling load on a miss.
// A load error is returned without caching, so the next call retries.
func (c *lruCache[V]) GetOrCompute(key string, load func() (V, error)) (V, error) {
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(lruItem[V]).value, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}

	if c.order.Len() >= c.capacity {
		back := c.order.Back()
		if back != nil {
			c.order.Remove(back)
			delete(c.items, back.Value.(lruItem[V]).key)
		}
	}
	c.items[key] = c.order.PushFront(lruItem[V]{key: key, value: v})
	return v, nil
}

// Len returns the number of resident entries.
func (c *lruCache[V]) Len() int {
	return c.order.Len()
}
