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

// ProblemHandler serves the read-only problem catalog. Test cases are never
// exposed here; they belong to the judging pipeline only.
type ProblemHandler struct {
	repo   repository.ProblemRepository
	logger *zap.Logger
}

// NewProblemHandler creates a new ProblemHandler.
func NewProblemHandler(repo repository.ProblemRepository, logger *zap.Logger) *ProblemHandler {
	return &ProblemHandler{repo: repo, logger: logger}
}

// List handles GET /api/v1/problems?limit=&offset=
func (h *ProblemHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
		return
	}

	problems, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("List problems failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if problems == nil {
		problems = []*domain.Problem{}
	}
	c.JSON(http.StatusOK, gin.H{"problems": problems})
}

// GetByID handles GET /api/v1/problems/:id
func (h *ProblemHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID format"})
		return
	}

	problem, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		h.logger.Error("Get problem failed", zap.Error(err), zap.String("problem_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, problem)
}
