package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Net-Advantage/ai-showcase/rental/internal/diagnostics"
	apierrors "github.com/Net-Advantage/ai-showcase/rental/internal/errors"
	"github.com/Net-Advantage/ai-showcase/rental/internal/lifecycle"
	"github.com/Net-Advantage/ai-showcase/rental/internal/middleware"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

// WorkpaperHandler handles workpaper, expense line, evidence and audit requests.
type WorkpaperHandler struct {
	service services.WorkpaperService
}

// NewWorkpaperHandler creates a new WorkpaperHandler instance.
func NewWorkpaperHandler(service services.WorkpaperService) *WorkpaperHandler {
	return &WorkpaperHandler{service: service}
}

// WorkpaperQuery represents the query parameters for the property workpaper endpoint.
type WorkpaperQuery struct {
	TaxYear string `form:"taxYear" binding:"max=16"`
}

// StatusRequest is the body of a lifecycle transition.
type StatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// WorkpaperResponse represents the response for single-workpaper endpoints.
type WorkpaperResponse struct {
	Workpaper *models.Workpaper `json:"workpaper"`
}

// DiagnosticsResponse lists the findings for a workpaper.
type DiagnosticsResponse struct {
	WorkpaperID string                `json:"workpaperId"`
	Findings    []diagnostics.Finding `json:"findings"`
	HasBlocking bool                  `json:"hasBlocking"`
}

// ExpenseLineResponse represents the response for expense line endpoints.
type ExpenseLineResponse struct {
	ExpenseLine *models.ExpenseLine `json:"expenseLine"`
}

// EvidenceResponse represents the response for a single evidence record.
type EvidenceResponse struct {
	Evidence *models.Evidence `json:"evidence"`
}

// EvidenceListResponse represents the response for the evidence list endpoint.
type EvidenceListResponse struct {
	Evidence []models.Evidence `json:"evidence"`
	Count    int               `json:"count"`
}

// ActivityListResponse represents the audit trail of a workpaper.
type ActivityListResponse struct {
	Activities []models.Activity `json:"activities"`
	Count      int               `json:"count"`
}

// Register mounts the workpaper routes on rg.
func (h *WorkpaperHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/properties/:id/workpaper", h.GetForProperty)
	rg.POST("/properties/:id/workpaper", h.CreateForProperty)

	workpapers := rg.Group("/workpapers/:id")
	{
		workpapers.GET("", h.Get)
		workpapers.PATCH("", h.Update)
		workpapers.POST("/calculate", h.Calculate)
		workpapers.GET("/diagnostics", h.Diagnostics)
		workpapers.POST("/status", h.TransitionStatus)
		workpapers.GET("/activities", h.Activities)
		workpapers.POST("/expenses", h.AddExpenseLine)
		workpapers.PATCH("/expenses/:lineId", h.UpdateExpenseLine)
		workpapers.DELETE("/expenses/:lineId", h.RemoveExpenseLine)
		workpapers.GET("/evidence", h.ListEvidence)
		workpapers.POST("/evidence", h.AddEvidence)
	}

	rg.DELETE("/evidence/:id", h.RemoveEvidence)
}

// GetForProperty handles GET /api/v1/properties/:id/workpaper.
// Without ?taxYear the current tax year is used.
func (h *WorkpaperHandler) GetForProperty(c *gin.Context) {
	var req WorkpaperQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return
	}

	wp, err := h.service.GetForProperty(c.Request.Context(), c.Param("id"), req.TaxYear)
	if err != nil {
		respondError(c, err, "Failed to get workpaper")
		return
	}

	c.JSON(http.StatusOK, WorkpaperResponse{Workpaper: wp})
}

// CreateForProperty handles POST /api/v1/properties/:id/workpaper.
// It responds 201 when the workpaper was created and 200 when it already existed.
func (h *WorkpaperHandler) CreateForProperty(c *gin.Context) {
	wp, created, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to create workpaper")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, WorkpaperResponse{Workpaper: wp})
}

// Get handles GET /api/v1/workpapers/:id.
func (h *WorkpaperHandler) Get(c *gin.Context) {
	wp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get workpaper")
		return
	}

	c.JSON(http.StatusOK, WorkpaperResponse{Workpaper: wp})
}

// Update handles PATCH /api/v1/workpapers/:id.
func (h *WorkpaperHandler) Update(c *gin.Context) {
	var req services.WorkpaperInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid workpaper inputs")
		return
	}

	wp, err := h.service.UpdateInputs(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update workpaper")
		return
	}

	c.JSON(http.StatusOK, WorkpaperResponse{Workpaper: wp})
}

// Calculate handles POST /api/v1/workpapers/:id/calculate.
func (h *WorkpaperHandler) Calculate(c *gin.Context) {
	wp, err := h.service.Calculate(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to calculate workpaper")
		return
	}

	c.JSON(http.StatusOK, WorkpaperResponse{Workpaper: wp})
}

// Diagnostics handles GET /api/v1/workpapers/:id/diagnostics.
func (h *WorkpaperHandler) Diagnostics(c *gin.Context) {
	id := c.Param("id")
	findings, err := h.service.Diagnose(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to diagnose workpaper")
		return
	}

	c.JSON(http.StatusOK, DiagnosticsResponse{
		WorkpaperID: id,
		Findings:    findings,
		HasBlocking: diagnostics.HasSeverity(findings, diagnostics.SeverityBlocking),
	})
}

// TransitionStatus handles POST /api/v1/workpapers/:id/status.
// Moving into a review state is refused with 422 while blocking findings remain.
func (h *WorkpaperHandler) TransitionStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid status change")
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()

	if lifecycle.RequiresCleanDiagnostics(req.Status) {
		findings, err := h.service.Diagnose(ctx, id)
		if err != nil {
			respondError(c, err, "Failed to diagnose workpaper")
			return
		}
		if blocking := diagnostics.Blocking(findings); len(blocking) > 0 {
			apierrors.Unprocessable(c, "Workpaper has blocking findings", map[string]interface{}{
				"status":   req.Status,
				"findings": blocking,
			})
			return
		}
	}

	wp, err := h.service.TransitionStatus(ctx, middleware.GetActor(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Failed to change workpaper status")
		return
	}

	c.JSON(http.StatusOK, WorkpaperResponse{Workpaper: wp})
}

// Activities handles GET /api/v1/workpapers/:id/activities.
// Activities are returned newest first.
func (h *WorkpaperHandler) Activities(c *gin.Context) {
	activities, err := h.service.ListActivities(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list activities")
		return
	}

	c.JSON(http.StatusOK, ActivityListResponse{
		Activities: activities,
		Count:      len(activities),
	})
}

// AddExpenseLine handles POST /api/v1/workpapers/:id/expenses.
func (h *WorkpaperHandler) AddExpenseLine(c *gin.Context) {
	var req services.ExpenseLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid expense line")
		return
	}

	line, err := h.service.AddExpenseLine(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to add expense line")
		return
	}

	c.JSON(http.StatusCreated, ExpenseLineResponse{ExpenseLine: line})
}

// UpdateExpenseLine handles PATCH /api/v1/workpapers/:id/expenses/:lineId.
func (h *WorkpaperHandler) UpdateExpenseLine(c *gin.Context) {
	var req services.ExpenseLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid expense line")
		return
	}

	line, err := h.service.UpdateExpenseLine(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("lineId"), req)
	if err != nil {
		respondError(c, err, "Failed to update expense line")
		return
	}

	c.JSON(http.StatusOK, ExpenseLineResponse{ExpenseLine: line})
}

// RemoveExpenseLine handles DELETE /api/v1/workpapers/:id/expenses/:lineId.
// An unknown line answers 404.
func (h *WorkpaperHandler) RemoveExpenseLine(c *gin.Context) {
	if err := h.service.RemoveExpenseLine(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("lineId")); err != nil {
		respondError(c, err, "Failed to remove expense line")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListEvidence handles GET /api/v1/workpapers/:id/evidence.
func (h *WorkpaperHandler) ListEvidence(c *gin.Context) {
	evidence, err := h.service.ListEvidence(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list evidence")
		return
	}

	c.JSON(http.StatusOK, EvidenceListResponse{
		Evidence: evidence,
		Count:    len(evidence),
	})
}

// AddEvidence handles POST /api/v1/workpapers/:id/evidence.
func (h *WorkpaperHandler) AddEvidence(c *gin.Context) {
	var req services.EvidenceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid evidence")
		return
	}

	evidence, err := h.service.AddEvidence(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to add evidence")
		return
	}

	c.JSON(http.StatusCreated, EvidenceResponse{Evidence: evidence})
}

// RemoveEvidence handles DELETE /api/v1/evidence/:id.
func (h *WorkpaperHandler) RemoveEvidence(c *gin.Context) {
	if err := h.service.RemoveEvidence(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to remove evidence")
		return
	}

	c.Status(http.StatusNoContent)
}
