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

type catalogService interface {
	Create(ctx context.Context, input service.CreateActivityInput) (domain.Activity, error)
	List(ctx context.Context, input service.ListActivitiesInput) ([]domain.Activity, error)
	Get(ctx context.Context, id string) (domain.Activity, error)
}

type ActivityHandler struct {
	logger  *zap.Logger
	catalog catalogService
}

func NewActivityHandler(logger *zap.Logger, catalog catalogService) *ActivityHandler {
	return &ActivityHandler{logger: logger, catalog: catalog}
}

// CreateActivity maneja POST /activities.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req struct {
		ProviderID      string                     `json:"provider_id" binding:"required"`
		OrgName         string                     `json:"org_name" binding:"required"`
		VenueID         string                     `json:"venue_id"`
		Geohash         string                     `json:"geohash"`
		Name            string                     `json:"name" binding:"required"`
		Description     string                     `json:"description"`
		ActivityType    string                     `json:"activity_type"`
		StartDate       *time.Time                 `json:"start_date"`
		EndDate         *time.Time                 `json:"end_date"`
		RRule           string                     `json:"rrule"`
		DaysOfWeek      []string                   `json:"days_of_week"`
		MinAge          *int                       `json:"min_age"`
		MaxAge          *int                       `json:"max_age"`
		PriceCents      *int                       `json:"price_cents"`
		HasScholarship  bool                       `json:"has_scholarship"`
		MaxParticipants *int                       `json:"max_participants"`
		Attributes      *domain.ActivityAttributes `json:"attributes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create activity request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	activity, err := h.catalog.Create(c.Request.Context(), service.CreateActivityInput{
		ProviderID:      req.ProviderID,
		OrgName:         req.OrgName,
		VenueID:         req.VenueID,
		Geohash:         req.Geohash,
		Name:            req.Name,
		Description:     req.Description,
		ActivityType:    req.ActivityType,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		RRule:           req.RRule,
		DaysOfWeek:      req.DaysOfWeek,
		MinAge:          req.MinAge,
		MaxAge:          req.MaxAge,
		PriceCents:      req.PriceCents,
		HasScholarship:  req.HasScholarship,
		MaxParticipants: req.MaxParticipants,
		Attributes:      req.Attributes,
	})
	if err != nil {
		writeServiceError(c, h.logger, "create activity", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"activity": activity})
}

// ListActivities maneja GET /activities con filtros y paginado por query string.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var q struct {
		ActivityType string `form:"activity_type"`
		MinAge       *int   `form:"min_age"`
		MaxAge       *int   `form:"max_age"`
		IsActive     *bool  `form:"is_active"`
		Skip         int    `form:"skip"`
		Limit        int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	activities, err := h.catalog.List(c.Request.Context(), service.ListActivitiesInput{
		ActivityType: q.ActivityType,
		MinAge:       q.MinAge,
		MaxAge:       q.MaxAge,
		IsActive:     q.IsActive,
		Skip:         q.Skip,
		Limit:        q.Limit,
	})
	if err != nil {
		writeServiceError(c, h.logger, "list activities", err)
		return
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// GetActivity maneja GET /activities/:id.
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activity, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get activity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}
