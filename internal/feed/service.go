package feed

import (
	"context"
	"time"

	"github.com/threadmind/threadmind/internal/faults"
	"github.com/threadmind/threadmind/internal/models"
)

// PostReader is the persistence view the feed service reads through.
type PostReader interface {
	ListPage(ctx context.Context, limit int, before time.Time) ([]models.Post, error)
}

// PageResult is one page of the feed, newest first.
type PageResult struct {
	Posts   []models.Post `json:"posts"`
	HasMore bool          `json:"hasMore"`
}

// Service answers "up to N posts older than cursor C" queries. It is
// stateless; every call is an independent read, safe to retry.
type Service struct {
	posts       PostReader
	maxPageSize int
}

// NewService creates a new feed service
func NewService(posts PostReader, maxPageSize int) *Service {
	return &Service{posts: posts, maxPageSize: maxPageSize}
}

// FetchPage returns up to limit posts created strictly before the cursor,
// plus whether more exist past the page. Limits above the maximum clamp
// silently. One extra row is requested so that HasMore needs no second
// round trip.
func (s *Service) FetchPage(ctx context.Context, limit int, cursor string) (*PageResult, error) {
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if limit < 1 {
		limit = 1
	}

	before, _ := DecodeCursor(cursor)

	rows, err := s.posts.ListPage(ctx, limit+1, before)
	if err != nil {
		return nil, faults.Infrastructure("feed read failed", err)
	}

	hasMore := len(rows) == limit+1
	if hasMore {
		rows = rows[:limit]
	}

	return &PageResult{Posts: rows, HasMore: hasMore}, nil
}
