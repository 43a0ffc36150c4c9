package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compass/internal/service"
)

// writeServiceError traduce errores de servicio a codigos HTTP.
// Lo que no se reconoce se loguea y responde 500 con un mensaje generico.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMaxActivities),
		errors.Is(err, service.ErrInvalidChild),
		errors.Is(err, service.ErrInvalidBudget),
		errors.Is(err, service.ErrInvalidTimezone),
		errors.Is(err, service.ErrInvalidActivity),
		errors.Is(err, service.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrChildNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
	case errors.Is(err, service.ErrFamilyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "family not found"})
	case errors.Is(err, service.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
	case errors.Is(err, service.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "recommendations are already being generated for this child"})
	case errors.Is(err, service.ErrFamilyExists),
		errors.Is(err, service.ErrDuplicateActivity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn(op+" timed out", zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireClaims corta la request si no hay claims JWT en el contexto.
func requireClaims(c *gin.Context) (service.Claims, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok || claims.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return service.Claims{}, false
	}
	return claims, true
}
