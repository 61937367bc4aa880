package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/threadmind/threadmind/internal/db"
	"github.com/threadmind/threadmind/internal/faults"
	"github.com/threadmind/threadmind/internal/models"
	"github.com/threadmind/threadmind/pkg/telemetry"
)

// PostAPI provides post CRUD methods
type PostAPI struct {
	posts *db.PostRepository
}

// NewPostAPI creates a new post API
func NewPostAPI(posts *db.PostRepository) *PostAPI {
	return &PostAPI{posts: posts}
}

type getPostParams struct {
	ID int64 `json:"id"`
}

// GetPost handles forum_api.get_post
func (p *PostAPI) GetPost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.get_post")
	defer span.End()

	var req getPostParams
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	return p.posts.GetByID(ctx, req.ID)
}

type createPostParams struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// CreatePost handles forum_api.create_post. Requires a bound session.
func (p *PostAPI) CreatePost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.create_post")
	defer span.End()

	userID := CurrentUserID(c)
	if userID == 0 {
		return nil, faults.Authentication("not authenticated")
	}

	var req createPostParams
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	post := &models.Post{
		Title:     req.Title,
		Text:      req.Text,
		CreatorID: userID,
	}
	if err := p.posts.Create(ctx, post); err != nil {
		return nil, faults.Infrastructure("post create failed", err)
	}
	return post, nil
}

type updatePostParams struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// UpdatePost handles forum_api.update_post. Returns null for a missing
// post rather than an error.
func (p *PostAPI) UpdatePost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.update_post")
	defer span.End()

	if CurrentUserID(c) == 0 {
		return nil, faults.Authentication("not authenticated")
	}

	var req updatePostParams
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	post, err := p.posts.UpdateTitle(ctx, req.ID, req.Title)
	if err != nil {
		return nil, faults.Infrastructure("post update failed", err)
	}
	return post, nil
}

type deletePostParams struct {
	ID int64 `json:"id"`
}

// DeletePost handles forum_api.delete_post
func (p *PostAPI) DeletePost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.delete_post")
	defer span.End()

	if CurrentUserID(c) == 0 {
		return nil, faults.Authentication("not authenticated")
	}

	var req deletePostParams
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	if err := p.posts.Delete(ctx, req.ID); err != nil {
		return false, nil
	}
	return true, nil
}
