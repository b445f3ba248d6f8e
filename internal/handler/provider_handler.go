package handler

import (
	"errors"
	"net/http"

	"rabet/internal/middleware"
	"rabet/internal/models"
	"rabet/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProviderHandler struct {
	providerRepo *repository.ProviderRepository
}

func NewProviderHandler(providerRepo *repository.ProviderRepository) *ProviderHandler {
	return &ProviderHandler{providerRepo: providerRepo}
}

// Apply handles POST /providers/apply: creates a pending provider profile for
// the caller. The wallet is created later, at admin approval.
func (h *ProviderHandler) Apply(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		CompanyName string `json:"company_name" binding:"required"`
		Bio         string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if _, err := h.providerRepo.GetByUserID(userID); err == nil {
		respondError(c, http.StatusBadRequest, "bad_request", "provider profile already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, "internal", "failed to check profile")
		return
	}
	p := &models.ProviderProfile{
		UserID:      userID,
		CompanyName: req.CompanyName,
		Bio:         req.Bio,
	}
	if err := h.providerRepo.Create(p); err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to create profile")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Me handles GET /providers/me.
func (h *ProviderHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	p, err := h.providerRepo.GetByUserID(userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "provider profile not found")
		return
	}
	c.JSON(http.StatusOK, p)
}
