package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/delivery/http/middleware"
	"github.com/developerskull/codePVG-sub000/internal/repository"
	"github.com/developerskull/codePVG-sub000/internal/usecase"
)

// RouterDeps bundles everything the router needs to wire its handlers.
type RouterDeps struct {
	SubmitUC        *usecase.SubmitSubmissionUsecase
	GetSubmissionUC *usecase.GetSubmissionUsecase
	ProblemRepo     repository.ProblemRepository
	LeaderboardRepo repository.LeaderboardRepository
	Pool            *pgxpool.Pool
	Redis           *goredis.Client
	Logger          *zap.Logger
	RateLimitPerMin int
	MaxBodyBytes    int64
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(deps.Logger))

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check (no rate limiting)
		healthHandler := NewHealthHandler(deps.Pool, deps.Redis, deps.Logger)
		v1.GET("/health", healthHandler.Health)

		// Languages
		langHandler := NewLanguageHandler()
		v1.GET("/languages", langHandler.List)

		// Problems (read-only catalog)
		problemHandler := NewProblemHandler(deps.ProblemRepo, deps.Logger)
		v1.GET("/problems", problemHandler.List)
		v1.GET("/problems/:id", problemHandler.GetByID)

		// Submissions (rate limited, capped body size)
		subHandler := NewSubmissionHandler(deps.SubmitUC, deps.GetSubmissionUC, deps.Logger)
		v1.POST("/submissions",
			middleware.RateLimiter(deps.RateLimitPerMin),
			middleware.BodySizeLimit(deps.MaxBodyBytes),
			subHandler.Submit,
		)
		v1.GET("/submissions/:id", subHandler.GetByID)

		// WebSocket for real-time updates
		wsHandler := NewWebSocketHandler(deps.GetSubmissionUC, deps.Logger)
		v1.GET("/submissions/:id/stream", wsHandler.Stream)

		// Leaderboard
		lbHandler := NewLeaderboardHandler(deps.LeaderboardRepo, deps.Logger)
		v1.GET("/leaderboard", lbHandler.List)
		v1.GET("/leaderboard/:user_id", lbHandler.GetByUser)
	}

	return router
}
