package handlers

import (
	"net/http"

	"github.com/campora/campus-portal/internal/services"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	identity *services.Identity
}

type SetPhotoRequest struct {
	ProfileURL string `json:"profile_url" binding:"required"`
}

func NewProfileHandler(identity *services.Identity) *ProfileHandler {
	return &ProfileHandler{identity: identity}
}

func (p *ProfileHandler) MyProfile(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	student, err := p.identity.RefreshStudent(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"student": student})
}

// SetPhoto records the URL handed back by the object store after the browser
// uploaded the image there directly.
func (p *ProfileHandler) SetPhoto(c *gin.Context) {
	var req SetPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	if err := p.identity.SetStudentPhoto(c.Request.Context(), userID, email, req.ProfileURL); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_url": req.ProfileURL})
}
