// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

type cacheKey struct {
	Provider string
	Query    string
}

type cacheEntry struct {
	Suggestions []Suggestion
	Expiry      time.Time
}

// CachedSearcher wraps a Searcher and keeps successful results for a limited time. Empty result
// sets are kept for ttlMiss, all others for ttlHit. Errors are never cached.
type CachedSearcher struct {
	searcher Searcher
	ttlHit   time.Duration
	ttlMiss  time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedSearcher(searcher Searcher, ttlHit, ttlMiss time.Duration) *CachedSearcher {
	return &CachedSearcher{
		searcher: searcher,
		ttlHit:   ttlHit,
		ttlMiss:  ttlMiss,
		cache:    make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedSearcher) Name() string {
	return "search cache using " + c.searcher.Name()
}

func (c *CachedSearcher) Search(ctx context.Context, query string) ([]Suggestion, error) {
	key := newKey(c.searcher.Name(), query)
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.Expiry) {
		hits := slices.Clone(entry.Suggestions)
		for i := range hits {
			hits[i].CacheHit = true
		}
		return hits, nil
	}

	suggestions, err := c.searcher.Search(ctx, query)
	if err != nil {
		return suggestions, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if len(suggestions) == 0 {
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Suggestions: slices.Clone(suggestions),
		Expiry:      time.Now().Add(ttl),
	}
	c.evictExpired(time.Now())

	return suggestions, nil
}

// evictExpired drops all expired entries. The caller must hold the write lock.
func (c *CachedSearcher) evictExpired(now time.Time) {
	for key, entry := range c.cache {
		if !now.Before(entry.Expiry) {
			delete(c.cache, key)
		}
	}
}

// NormalizeQuery trims the query, lower-cases it and collapses inner whitespace.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func newKey(provider, query string) cacheKey {
	return cacheKey{
		Provider: provider,
		Query:    NormalizeQuery(query),
	}
}
