package fetcher

import (
	"container/list"
	"sync"
	"time"
)

// ResponseCache is a short-lived URL -> body cache. Entries expire after ttl;
// when full, the oldest inserted entry is evicted.
type ResponseCache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = oldest insertion
}

type cachedResponse struct {
	url       string
	data      string
	expiresAt time.Time
}

func NewResponseCache(ttl time.Duration, maxEntries int, now func() time.Time) *ResponseCache {
	if now == nil {
		now = time.Now
	}
	return &ResponseCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get returns the cached body. Expired entries are evicted and reported as a miss.
func (rc *ResponseCache) Get(url string) (string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	el, ok := rc.entries[url]
	if !ok {
		return "", false
	}
	entry := el.Value.(*cachedResponse)
	if rc.now().After(entry.expiresAt) {
		rc.order.Remove(el)
		delete(rc.entries, url)
		return "", false
	}
	return entry.data, true
}

// Set stores data for url. Overwriting keeps the entry's insertion position.
func (rc *ResponseCache) Set(url, data string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	expiresAt := rc.now().Add(rc.ttl)
	if el, ok := rc.entries[url]; ok {
		entry := el.Value.(*cachedResponse)
		entry.data = data
		entry.expiresAt = expiresAt
		return
	}

	if rc.order.Len() >= rc.maxEntries {
		if oldest := rc.order.Front(); oldest != nil {
			rc.order.Remove(oldest)
			delete(rc.entries, oldest.Value.(*cachedResponse).url)
		}
	}

	rc.entries[url] = rc.order.PushBack(&cachedResponse{url: url, data: data, expiresAt: expiresAt})
}

func (rc *ResponseCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.order.Len()
}
