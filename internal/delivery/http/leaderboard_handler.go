package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/repository"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 200
)

// LeaderboardHandler serves the global standings. It is strictly read-only;
// all writes go through the leaderboard engine in the judging pipeline.
type LeaderboardHandler struct {
	repo   repository.LeaderboardRepository
	logger *zap.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(repo repository.LeaderboardRepository, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{repo: repo, logger: logger}
}

// List handles GET /api/v1/leaderboard?limit=&offset=
func (h *LeaderboardHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLeaderboardLimit)))
	if err != nil || limit <= 0 || limit > maxLeaderboardLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
		return
	}

	entries, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("List leaderboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if entries == nil {
		entries = []*domain.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetByUser handles GET /api/v1/leaderboard/:user_id
func (h *LeaderboardHandler) GetByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	entry, err := h.repo.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No leaderboard entry for user"})
			return
		}
		h.logger.Error("Get leaderboard entry failed", zap.Error(err), zap.String("user_id", userID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
