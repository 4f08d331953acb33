package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventura-api/middleware"
	"eventura-api/models"
	"eventura-api/store"
	"eventura-api/utils"
)

type AuthHandler struct {
	Users store.UserStore
}

// Session is the first-sign-in hook: the OAuth callback posts the verified
// identity here, the user record is created or refreshed, and a session
// token is issued.
func (h *AuthHandler) Session(c *gin.Context) {
	var req models.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Upsert(c.Request.Context(), req.Email, req.Name, req.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := utils.GenerateAccessToken(user.Email, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Token: token, User: *user})
}

// Me echoes the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"email": middleware.GetUserEmail(c),
		"name":  middleware.GetUserName(c),
	})
}
