package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/developerskull/codePVG-sub000/internal/domain"
)

// LanguageHandler serves the static list of supported languages.
type LanguageHandler struct{}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// List handles GET /api/v1/languages
func (h *LanguageHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": domain.SupportedLanguages()})
}
