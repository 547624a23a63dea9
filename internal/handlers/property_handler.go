package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Net-Advantage/ai-showcase/rental/internal/errors"
	"github.com/Net-Advantage/ai-showcase/rental/internal/middleware"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

// PropertyHandler handles property-related HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// ListPropertiesRequest represents the query parameters for the list endpoint.
type ListPropertiesRequest struct {
	Active bool `form:"active"`
}

// PropertyResponse represents the response for single-property endpoints.
type PropertyResponse struct {
	Property *models.Property `json:"property"`
}

// PropertyListResponse represents the response for the list endpoint.
type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

// Register mounts the property routes on rg.
func (h *PropertyHandler) Register(rg *gin.RouterGroup) {
	properties := rg.Group("/properties")
	{
		properties.GET("", h.List)
		properties.POST("", h.Create)
		properties.GET("/:id", h.Get)
		properties.PATCH("/:id", h.Update)
		properties.DELETE("/:id", h.Delete)
		properties.GET("/:id/summary", h.Summary)
	}
}

// List handles GET /api/v1/properties.
// With ?active=true only active properties are returned.
func (h *PropertyHandler) List(c *gin.Context) {
	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return
	}

	properties, err := h.service.List(c.Request.Context(), req.Active)
	if err != nil {
		respondError(c, err, "Failed to list properties")
		return
	}

	c.JSON(http.StatusOK, PropertyListResponse{
		Properties: properties,
		Count:      len(properties),
	})
}

// Create handles POST /api/v1/properties.
// The property's current-year workpaper is created alongside it.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req services.PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid property")
		return
	}

	property, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, PropertyResponse{Property: property})
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get property")
		return
	}

	c.JSON(http.StatusOK, PropertyResponse{Property: property})
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	var req services.PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid property")
		return
	}

	property, err := h.service.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, PropertyResponse{Property: property})
}

// Delete handles DELETE /api/v1/properties/:id.
// The property stays readable with isActive false; its workpapers are removed.
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}

	c.Status(http.StatusNoContent)
}

// Summary handles GET /api/v1/properties/:id/summary.
func (h *PropertyHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to summarize property")
		return
	}

	c.JSON(http.StatusOK, summary)
}
