package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Net-Advantage/ai-showcase/rental/internal/errors"
	"github.com/Net-Advantage/ai-showcase/rental/internal/lifecycle"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

// respondError maps a service error onto the API error envelope.
// message is used for the 500 response when the error is not a domain error.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrPropertyNotFound):
		apierrors.NotFound(c, "Property not found")
	case errors.Is(err, services.ErrWorkpaperNotFound):
		apierrors.NotFound(c, "Workpaper not found")
	case errors.Is(err, services.ErrExpenseLineNotFound):
		apierrors.NotFound(c, "Expense line not found")
	case errors.Is(err, services.ErrEvidenceNotFound):
		apierrors.NotFound(c, "Evidence not found")
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, lifecycle.ErrUnknownStatus):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, lifecycle.ErrTransitionNotAllowed):
		apierrors.Conflict(c, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}
