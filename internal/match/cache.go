package match

import (
	"container/list"
	"regexp"
	"sync"
)

// sourceKind tells what a cached regular expression was compiled from.
type sourceKind string

const (
	// kindPattern is a regular expression written by the user.
	kindPattern sourceKind = "pattern"
	// kindPath is a path literal with ":token" placeholders.
	kindPath sourceKind = "path"
)

// compileCacheCapacity bounds the entries kept across both kinds.
const compileCacheCapacity = 1000

type cacheKey struct {
	kind   sourceKind
	source string
}

type cacheEntry struct {
	key cacheKey
	re  *regexp.Regexp
}

// compileCache is a bounded LRU of compiled regular expressions. Path
// literals are keyed by the literal, so a hit skips building the pattern.
type compileCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[cacheKey]*list.Element
	sizes    map[sourceKind]int
}

func newCompileCache(capacity int) *compileCache {
	return &compileCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[cacheKey]*list.Element),
		sizes:    make(map[sourceKind]int),
	}
}

var expressions = newCompileCache(compileCacheCapacity)

// compile returns the cached regex for source, building it with build on a
// miss. Build errors are not cached.
func (c *compileCache) compile(
	kind sourceKind,
	source string,
	build func(string) (*regexp.Regexp, error),
) (*regexp.Regexp, error) {
	m := getCompileMetrics()
	key := cacheKey{kind: kind, source: source}

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.mu.Unlock()
		m.lookups.WithLabelValues(string(kind), "hit").Inc()
		return el.Value.(*cacheEntry).re, nil
	}
	c.mu.Unlock()

	m.lookups.WithLabelValues(string(kind), "miss").Inc()
	re, err := build(source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).re, nil
	}
	if c.order.Len() >= c.capacity {
		c.evictOldest(m)
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, re: re})
	c.sizes[kind]++
	m.entries.WithLabelValues(string(kind)).Set(float64(c.sizes[kind]))
	return re, nil
}

// evictOldest drops the least recently used entry. c.mu must be held.
func (c *compileCache) evictOldest(m *compileMetrics) {
	el := c.order.Back()
	if el == nil {
		return
	}
	e := c.order.Remove(el).(*cacheEntry)
	delete(c.entries, e.key)
	c.sizes[e.key.kind]--
	m.evictions.WithLabelValues(string(e.key.kind)).Inc()
	m.entries.WithLabelValues(string(e.key.kind)).Set(float64(c.sizes[e.key.kind]))
}

func (c *compileCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// compilePattern compiles a user regular expression through the cache.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return expressions.compile(kindPattern, pattern, regexp.Compile)
}
