package handler

import (
	"net/http"

	"rabet/internal/middleware"
	"rabet/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	repo *repository.NotificationRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// List handles GET /me/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	list, err := h.repo.ListByUserID(userID, limit, (page-1)*limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "page": page, "limit": limit})
}

// MarkRead handles PUT /me/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.repo.MarkRead(id, middleware.GetUserID(c)); err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to mark notification read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}
