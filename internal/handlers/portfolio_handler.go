package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Net-Advantage/ai-showcase/rental/internal/middleware"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

// PortfolioHandler serves the cross-property totals.
type PortfolioHandler struct {
	service services.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler instance.
func NewPortfolioHandler(service services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// Register mounts the portfolio routes on rg.
func (h *PortfolioHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/portfolio/summary", h.Summary)
	rg.POST("/portfolio/recalculate", h.Recalculate)
}

// Summary handles GET /api/v1/portfolio/summary.
func (h *PortfolioHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to summarize portfolio")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RecalculateResponse reports how many workpapers were recalculated.
type RecalculateResponse struct {
	Recalculated int `json:"recalculated"`
}

// Recalculate handles POST /api/v1/portfolio/recalculate.
func (h *PortfolioHandler) Recalculate(c *gin.Context) {
	count, err := h.service.Recalculate(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err, "Failed to recalculate portfolio")
		return
	}

	c.JSON(http.StatusOK, RecalculateResponse{Recalculated: count})
}
