package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventura-api/store"
)

type UserHandler struct {
	Users store.UserStore
}

// ListUsers returns the user directory (used by the UI to pick invitees).
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
