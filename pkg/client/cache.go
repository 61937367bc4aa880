// Package client holds the client-side result cache used by feed
// consumers: a normalized answer store keyed by operation and arguments,
// a merge strategy that folds successive feed pages into one stream, and
// a patcher that rewrites the cached identity after auth mutations.
//
// A Cache is built by its constructor and passed by reference to every
// query-issuing component; there is no package-level instance. Callers are
// expected to issue queries for one stream sequentially: the cache itself
// takes no locks.
package client

import (
	"fmt"
	"sort"
	"strings"

	"github.com/threadmind/threadmind/internal/models"
)

// State reports how complete a cached answer is.
type State int

const (
	// Miss means nothing cached for the operation.
	Miss State = iota
	// Partial means cached data exists but the exact requested page has
	// not been fetched yet; the caller should fetch once more.
	Partial
	// Hit means the cached answer fully satisfies the request.
	Hit
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case Hit:
		return "hit"
	case Partial:
		return "partial"
	default:
		return "miss"
	}
}

const keySeparator = "::"

// cacheKey canonicalizes an operation and its arguments into a stable
// key: arguments join in sorted order so map iteration can't produce two
// keys for one logical request.
func cacheKey(op string, args map[string]any) string {
	if len(args) == 0 {
		return op
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, args[name]))
	}
	return strings.Join(parts, keySeparator)
}

// feedPage is one fetched page retained in fetch order.
type feedPage struct {
	posts []models.Post
}

// feedStream accumulates every page fetched for one logical feed query
// (same non-cursor arguments, any cursor).
type feedStream struct {
	pages   []feedPage
	keys    map[string]bool // full-argument keys already stored
	hasMore bool
}

// Cache is the client result cache. Generic answers live in records;
// feed answers live in per-stream page lists with their own resolution
// rules.
type Cache struct {
	records map[string]any
	streams map[string]*feedStream
}

// NewCache creates an empty result cache
func NewCache() *Cache {
	return &Cache{
		records: make(map[string]any),
		streams: make(map[string]*feedStream),
	}
}

// Resolve looks up a generic (non-feed) cached answer by exact key.
func (c *Cache) Resolve(op string, args map[string]any) (any, State) {
	val, ok := c.records[cacheKey(op, args)]
	if !ok {
		return nil, Miss
	}
	return val, Hit
}

// Store records a generic answer under its exact key.
func (c *Cache) Store(op string, args map[string]any, value any) {
	c.records[cacheKey(op, args)] = value
}

// Invalidate drops a generic answer.
func (c *Cache) Invalidate(op string, args map[string]any) {
	delete(c.records, cacheKey(op, args))
}
