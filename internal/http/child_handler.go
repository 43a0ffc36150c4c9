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

const birthDateLayout = "2006-01-02"

type childService interface {
	Create(ctx context.Context, ownerID string, input service.CreateChildInput) (domain.ChildProfile, error)
	Get(ctx context.Context, ownerID, childID string) (domain.ChildProfile, error)
	ListForOwner(ctx context.Context, ownerID string) ([]domain.ChildProfile, error)
	Update(ctx context.Context, ownerID, childID string, input service.UpdateChildInput) (domain.ChildProfile, error)
	Delete(ctx context.Context, ownerID, childID string) error
}

type ChildHandler struct {
	logger   *zap.Logger
	children childService
}

func NewChildHandler(logger *zap.Logger, children childService) *ChildHandler {
	return &ChildHandler{logger: logger, children: children}
}

// CreateChild maneja POST /children. birth_date va como YYYY-MM-DD.
func (h *ChildHandler) CreateChild(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req struct {
		Name                   string              `json:"name" binding:"required"`
		BirthDate              string              `json:"birth_date" binding:"required"`
		Temperament            *domain.Temperament `json:"temperament"`
		PrimaryGoal            string              `json:"primary_goal"`
		SecondaryGoal          string              `json:"secondary_goal"`
		TertiaryGoal           string              `json:"tertiary_goal"`
		CustomGoals            []string            `json:"custom_goals"`
		Constraints            *domain.Constraints `json:"constraints"`
		PreferredActivityTypes []string            `json:"preferred_activity_types"`
		Notes                  string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create child request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be YYYY-MM-DD"})
		return
	}

	child, err := h.children.Create(c.Request.Context(), claims.UserID, service.CreateChildInput{
		Name:                   req.Name,
		BirthDate:              birthDate,
		Temperament:            req.Temperament,
		PrimaryGoal:            req.PrimaryGoal,
		SecondaryGoal:          req.SecondaryGoal,
		TertiaryGoal:           req.TertiaryGoal,
		CustomGoals:            req.CustomGoals,
		Constraints:            req.Constraints,
		PreferredActivityTypes: req.PreferredActivityTypes,
		Notes:                  req.Notes,
	})
	if err != nil {
		writeServiceError(c, h.logger, "create child", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"child": child})
}

// GetChild maneja GET /children/:id.
func (h *ChildHandler) GetChild(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	child, err := h.children.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get child", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"child": child})
}

// ListChildren maneja GET /children.
func (h *ChildHandler) ListChildren(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	children, err := h.children.ListForOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		writeServiceError(c, h.logger, "list children", err)
		return
	}
	if children == nil {
		children = []domain.ChildProfile{}
	}
	c.JSON(http.StatusOK, gin.H{"children": children})
}

// ListGoals maneja GET /children/goals. No requiere sesion.
func (h *ChildHandler) ListGoals(c *gin.Context) {
	goals := append([]string(nil), domain.PredefinedGoals...)
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// UpdateChild maneja PATCH /children/:id. Solo se tocan los campos enviados.
func (h *ChildHandler) UpdateChild(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req struct {
		Name                   *string             `json:"name"`
		BirthDate              *string             `json:"birth_date"`
		Temperament            *domain.Temperament `json:"temperament"`
		PrimaryGoal            *string             `json:"primary_goal"`
		SecondaryGoal          *string             `json:"secondary_goal"`
		TertiaryGoal           *string             `json:"tertiary_goal"`
		CustomGoals            []string            `json:"custom_goals"`
		Constraints            *domain.Constraints `json:"constraints"`
		PreferredActivityTypes []string            `json:"preferred_activity_types"`
		Notes                  *string             `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update child request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	input := service.UpdateChildInput{
		Name:                   req.Name,
		Temperament:            req.Temperament,
		PrimaryGoal:            req.PrimaryGoal,
		SecondaryGoal:          req.SecondaryGoal,
		TertiaryGoal:           req.TertiaryGoal,
		CustomGoals:            req.CustomGoals,
		Constraints:            req.Constraints,
		PreferredActivityTypes: req.PreferredActivityTypes,
		Notes:                  req.Notes,
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be YYYY-MM-DD"})
			return
		}
		input.BirthDate = &birthDate
	}

	child, err := h.children.Update(c.Request.Context(), claims.UserID, c.Param("id"), input)
	if err != nil {
		writeServiceError(c, h.logger, "update child", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"child": child})
}

// DeleteChild maneja DELETE /children/:id.
func (h *ChildHandler) DeleteChild(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	if err := h.children.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		writeServiceError(c, h.logger, "delete child", err)
		return
	}
	c.Status(http.StatusNoContent)
}
