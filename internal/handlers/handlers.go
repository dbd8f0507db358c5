package handlers

import (
	"errors"
	"net/http"

	"github.com/campora/campus-portal/internal/repo"
	"github.com/campora/campus-portal/internal/services"
	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) (string, string, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		return "", "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		return "", "", false
	}
	email, _ := c.Get("userEmail")
	emailStr, _ := email.(string)
	return userID, emailStr, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, services.ErrPollClosed), errors.Is(err, services.ErrPollPublished):
		return http.StatusConflict
	case errors.Is(err, repo.ErrPollNotFound),
		errors.Is(err, repo.ErrOptionNotFound),
		errors.Is(err, repo.ErrStudentNotFound),
		errors.Is(err, repo.ErrFacultyNotFound),
		errors.Is(err, repo.ErrEntryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
