package handler

import (
	"errors"
	"net/http"
	"strconv"

	"rabet/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError writes the structured error envelope used by every endpoint:
// {"error":{"code":"...","message":"..."}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// respondDomainError maps service-layer sentinels onto HTTP statuses:
// precondition violations are 400s, missing records 404s, integrity faults
// 500s. Unknown errors never leak their message.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRequestNotPublished),
		errors.Is(err, domain.ErrAlreadyUnlocked),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAlreadyRefunded),
		errors.Is(err, domain.ErrZeroAmount),
		errors.Is(err, domain.ErrSessionMismatch):
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrProviderNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrUnlockNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrProviderNotApproved):
		respondError(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrWalletIntegrity):
		respondError(c, http.StatusInternalServerError, "internal", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}

func formatUint(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
