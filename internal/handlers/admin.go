package handlers

import (
	"net/http"

	"github.com/campora/campus-portal/internal/services"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *services.Admin
}

type AssignAdvisorRequest struct {
	FacultyID string `json:"faculty_id" binding:"required"`
	ClassID   string `json:"class_id" binding:"required"`
}

func NewAdminHandler(adminService *services.Admin) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (a *AdminHandler) ListFaculty(c *gin.Context) {
	_, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	faculty, err := a.adminService.ListFaculty(c.Request.Context(), email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"faculty": faculty})
}

func (a *AdminHandler) AssignAdvisor(c *gin.Context) {
	var req AssignAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	_, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	if err := a.adminService.AssignAdvisor(c.Request.Context(), email, req.FacultyID, req.ClassID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assigned": true})
}
