package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Net-Advantage/ai-showcase/rental/internal/errors"
	"github.com/Net-Advantage/ai-showcase/rental/internal/middleware"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

// SettingsHandler handles the calculation settings endpoints.
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// SettingsResponse reports the settings in effect next to the configured defaults.
type SettingsResponse struct {
	Settings models.Settings `json:"settings"`
	Defaults models.Settings `json:"defaults"`
}

// Register mounts the settings routes on rg.
func (h *SettingsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, SettingsResponse{
		Settings: h.service.Resolve(c.Request.Context()),
		Defaults: h.service.Defaults(),
	})
}

// Update handles PUT /api/v1/settings.
// Omitted fields keep their stored override.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req services.SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid settings")
		return
	}

	settings, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Settings updated", map[string]interface{}{
			"tax_year": settings.TaxYear,
			"user_id":  middleware.GetActor(c).UserID,
		})
	}

	c.JSON(http.StatusOK, SettingsResponse{
		Settings: settings,
		Defaults: h.service.Defaults(),
	})
}
