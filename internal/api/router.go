package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/threadmind/threadmind/internal/auth"
	"github.com/threadmind/threadmind/internal/db"
	"github.com/threadmind/threadmind/internal/feed"
	"github.com/threadmind/threadmind/internal/kv"
	"github.com/threadmind/threadmind/internal/session"
	"github.com/threadmind/threadmind/internal/tokens"
	"github.com/threadmind/threadmind/pkg/config"
	"github.com/threadmind/threadmind/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler  *JSONRPCHandler
	db       *db.DB
	store    *kv.Store
	sessions *session.Store
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, store *kv.Store, cfg *config.Config) *Router {
	handler := NewJSONRPCHandler()
	router := &Router{
		handler:  handler,
		db:       database,
		store:    store,
		sessions: session.New(store, cfg.Session.TTL),
		cfg:      cfg,
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}

	// Register all API methods
	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint behind session resolution
	engine.POST("/", SessionMiddleware(r.sessions, &r.cfg.Session), r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	repo := db.NewRepository(r.db.DB)
	users := db.NewUserRepository(repo)
	posts := db.NewPostRepository(repo)

	// Feed API
	feedAPI := NewFeedAPI(feed.NewService(posts, r.cfg.Auth.MaxPageSize))
	r.handler.RegisterMethod("forum_api.get_feed", feedAPI.GetFeed)

	// Post API
	postAPI := NewPostAPI(posts)
	r.handler.RegisterMethod("forum_api.get_post", postAPI.GetPost)
	r.handler.RegisterMethod("forum_api.create_post", postAPI.CreatePost)
	r.handler.RegisterMethod("forum_api.update_post", postAPI.UpdatePost)
	r.handler.RegisterMethod("forum_api.delete_post", postAPI.DeletePost)

	// Account API
	resetTokens := tokens.New(r.store, r.cfg.Auth.ResetTokenTTL)
	authSvc := auth.NewService(users, r.sessions, resetTokens, auth.NewHasher(nil))
	accountAPI := NewAccountAPI(authSvc, &r.cfg.Session)

	r.handler.RegisterMethod("auth_api.me", accountAPI.Me)
	r.handler.RegisterMethod("auth_api.register", accountAPI.Register)
	r.handler.RegisterMethod("auth_api.login", accountAPI.Login)
	r.handler.RegisterMethod("auth_api.logout", accountAPI.Logout)
	r.handler.RegisterMethod("auth_api.forgot_password", accountAPI.ForgotPassword)
	r.handler.RegisterMethod("auth_api.change_password", accountAPI.ChangePassword)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "threadmind-api",
	})
}
