package client

import (
	"context"

	"github.com/threadmind/threadmind/internal/feed"
	"github.com/threadmind/threadmind/internal/models"
)

// FeedOperation is the operation name feed answers are cached under.
const FeedOperation = "forum_api.get_feed"

// FeedAnswer is the combined cached answer for a feed stream: every page
// observed so far in fetch order, plus the latest hasMore.
type FeedAnswer struct {
	Posts   []models.Post
	HasMore bool
}

// streamKey groups all pages of one logical query: the cursor argument is
// deliberately excluded so every page of the stream collapses onto one
// growing record.
func streamKey(limit int) string {
	return cacheKey(FeedOperation, map[string]any{"limit": limit})
}

// pageKey identifies one exact page fetch within a stream.
func pageKey(limit int, cursor string) string {
	return cacheKey(FeedOperation, map[string]any{"limit": limit, "cursor": cursor})
}

// ResolveFeed reports the combined answer for a feed request. Pages
// concatenate in the order they were fetched; each page is strictly older
// than everything before it as long as the caller pages sequentially, so
// the append preserves descending creation-time order. The answer is
// Partial until the exact requested page has been stored, which tells the
// caller one more fetch is needed.
func (c *Cache) ResolveFeed(limit int, cursor string) (*FeedAnswer, State) {
	stream, ok := c.streams[streamKey(limit)]
	if !ok || len(stream.pages) == 0 {
		return nil, Miss
	}

	var posts []models.Post
	for _, page := range stream.pages {
		posts = append(posts, page.posts...)
	}
	answer := &FeedAnswer{Posts: posts, HasMore: stream.hasMore}

	if !stream.keys[pageKey(limit, cursor)] {
		return answer, Partial
	}
	return answer, Hit
}

// StoreFeedPage appends a freshly fetched page to its stream and adopts
// the page's hasMore as the stream's current flag. Refetching a page the
// stream already holds replaces nothing and appends nothing.
func (c *Cache) StoreFeedPage(limit int, cursor string, page *feed.PageResult) {
	key := streamKey(limit)
	stream, ok := c.streams[key]
	if !ok {
		stream = &feedStream{keys: make(map[string]bool)}
		c.streams[key] = stream
	}

	pk := pageKey(limit, cursor)
	if stream.keys[pk] {
		stream.hasMore = page.HasMore
		return
	}

	stream.pages = append(stream.pages, feedPage{posts: page.Posts})
	stream.keys[pk] = true
	stream.hasMore = page.HasMore
}

// DiscardFeed drops a stream, e.g. when the consumer navigates away.
func (c *Cache) DiscardFeed(limit int) {
	delete(c.streams, streamKey(limit))
}

// PageFetcher is the network side of the feed client; the server's feed
// service satisfies it directly.
type PageFetcher interface {
	FetchPage(ctx context.Context, limit int, cursor string) (*feed.PageResult, error)
}

// FeedClient is a read-through view over the cache: cached answers are
// served without a round trip, anything else fetches exactly one page and
// extends the stream.
type FeedClient struct {
	cache   *Cache
	fetcher PageFetcher
}

// NewFeedClient creates a feed client over the given cache and fetcher
func NewFeedClient(cache *Cache, fetcher PageFetcher) *FeedClient {
	return &FeedClient{cache: cache, fetcher: fetcher}
}

// Posts answers a feed request, fetching from the network only when the
// cache reports the answer incomplete.
func (f *FeedClient) Posts(ctx context.Context, limit int, cursor string) (*FeedAnswer, error) {
	answer, state := f.cache.ResolveFeed(limit, cursor)
	if state == Hit {
		return answer, nil
	}

	page, err := f.fetcher.FetchPage(ctx, limit, cursor)
	if err != nil {
		return nil, err
	}
	f.cache.StoreFeedPage(limit, cursor, page)

	combined, _ := f.cache.ResolveFeed(limit, cursor)
	return combined, nil
}
