package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/threadmind/threadmind/internal/feed"
	"github.com/threadmind/threadmind/pkg/telemetry"
)

// FeedAPI provides the feed query methods
type FeedAPI struct {
	svc *feed.Service
}

// NewFeedAPI creates a new feed API
func NewFeedAPI(svc *feed.Service) *FeedAPI {
	return &FeedAPI{svc: svc}
}

type getFeedParams struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

// GetFeed handles forum_api.get_feed
func (f *FeedAPI) GetFeed(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "feed.get_feed")
	defer span.End()

	var p getFeedParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.Limit <= 0 {
		return nil, fmt.Errorf("missing required parameter: limit")
	}

	return f.svc.FetchPage(ctx, p.Limit, p.Cursor)
}
