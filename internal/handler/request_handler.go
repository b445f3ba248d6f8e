package handler

import (
	"errors"
	"net/http"

	"rabet/internal/middleware"
	"rabet/internal/models"
	"rabet/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestHandler covers the client side of requests: posting, listing own,
// and closing. The provider-facing lead views live in LeadHandler.
type RequestHandler struct {
	requestRepo *repository.RequestRepository
}

func NewRequestHandler(requestRepo *repository.RequestRepository) *RequestHandler {
	return &RequestHandler{requestRepo: requestRepo}
}

func (h *RequestHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		City        string          `json:"city"`
		UnlockFee   decimal.Decimal `json:"unlock_fee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if !req.UnlockFee.IsPositive() {
		respondError(c, http.StatusBadRequest, "bad_request", "unlock_fee must be positive")
		return
	}
	r := &models.Request{
		ClientID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		UnlockFee:   req.UnlockFee,
	}
	if err := h.requestRepo.Create(r); err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to create request")
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *RequestHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	list, total, err := h.requestRepo.ListByClient(userID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

func (h *RequestHandler) Close(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.requestRepo.Close(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "request not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "internal", "failed to close request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
