package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compass/internal/domain"
	"compass/internal/service"
)

type familyService interface {
	Create(ctx context.Context, ownerID string, input service.CreateFamilyInput) (domain.Family, error)
	GetForOwner(ctx context.Context, ownerID string) (domain.Family, error)
	Update(ctx context.Context, ownerID string, input service.UpdateFamilyInput) (domain.Family, error)
	Delete(ctx context.Context, ownerID string) error
}

type FamilyHandler struct {
	logger   *zap.Logger
	families familyService
}

func NewFamilyHandler(logger *zap.Logger, families familyService) *FamilyHandler {
	return &FamilyHandler{logger: logger, families: families}
}

// CreateFamily maneja POST /families.
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req struct {
		BudgetMonthly *int   `json:"budget_monthly" binding:"omitempty,min=0"`
		Address       string `json:"address" binding:"max=300"`
		City          string `json:"city" binding:"max=100"`
		State         string `json:"state" binding:"max=50"`
		ZipCode       string `json:"zip_code" binding:"max=20"`
		Timezone      string `json:"timezone" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create family request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	family, err := h.families.Create(c.Request.Context(), claims.UserID, service.CreateFamilyInput{
		BudgetMonthly: req.BudgetMonthly,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Timezone:      req.Timezone,
	})
	if err != nil {
		writeServiceError(c, h.logger, "create family", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"family": family})
}

// GetMyFamily maneja GET /families/me.
func (h *FamilyHandler) GetMyFamily(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	family, err := h.families.GetForOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		writeServiceError(c, h.logger, "get family", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"family": family})
}

// UpdateMyFamily maneja PATCH /families/me.
func (h *FamilyHandler) UpdateMyFamily(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req struct {
		BudgetMonthly *int    `json:"budget_monthly" binding:"omitempty,min=0"`
		Address       *string `json:"address" binding:"omitempty,max=300"`
		City          *string `json:"city" binding:"omitempty,max=100"`
		State         *string `json:"state" binding:"omitempty,max=50"`
		ZipCode       *string `json:"zip_code" binding:"omitempty,max=20"`
		Timezone      *string `json:"timezone" binding:"omitempty,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update family request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	family, err := h.families.Update(c.Request.Context(), claims.UserID, service.UpdateFamilyInput{
		BudgetMonthly: req.BudgetMonthly,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Timezone:      req.Timezone,
	})
	if err != nil {
		writeServiceError(c, h.logger, "update family", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"family": family})
}

// DeleteMyFamily maneja DELETE /families/me.
func (h *FamilyHandler) DeleteMyFamily(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	if err := h.families.Delete(c.Request.Context(), claims.UserID); err != nil {
		writeServiceError(c, h.logger, "delete family", err)
		return
	}
	c.Status(http.StatusNoContent)
}
