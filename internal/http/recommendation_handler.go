package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compass/internal/domain"
	"compass/internal/service"
)

type recommendationService interface {
	Generate(ctx context.Context, req service.GenerateRequest) ([]domain.Recommendation, error)
	List(ctx context.Context, userID, childID string) ([]domain.Recommendation, error)
}

type RecommendationHandler struct {
	logger  *zap.Logger
	recs    recommendationService
	timeout time.Duration
}

// NewRecommendationHandler crea el handler; timeout acota cada corrida de generacion.
func NewRecommendationHandler(logger *zap.Logger, recs recommendationService, timeout time.Duration) *RecommendationHandler {
	return &RecommendationHandler{logger: logger, recs: recs, timeout: timeout}
}

// Generate maneja POST /recommendations.
func (h *RecommendationHandler) Generate(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req struct {
		ChildProfileID string `json:"child_profile_id" binding:"required"`
		MaxActivities  int    `json:"max_activities"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid generate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	recs, err := h.recs.Generate(ctx, service.GenerateRequest{
		UserID:         claims.UserID,
		ChildProfileID: req.ChildProfileID,
		MaxActivities:  req.MaxActivities,
	})
	if err != nil {
		writeServiceError(c, h.logger, "generate recommendations", err)
		return
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	c.JSON(http.StatusCreated, gin.H{"recommendations": recs})
}

// List maneja GET /recommendations/:child_id.
func (h *RecommendationHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	recs, err := h.recs.List(c.Request.Context(), claims.UserID, c.Param("child_id"))
	if err != nil {
		writeServiceError(c, h.logger, "list recommendations", err)
		return
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
