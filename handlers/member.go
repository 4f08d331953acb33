package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventura-api/middleware"
	"eventura-api/models"
	"eventura-api/services"
)

type MemberHandler struct {
	Membership *services.MembershipService
	WS         *WSHandler
}

// AssignMember adds a member directly, bypassing the invitation flow.
func (h *MemberHandler) AssignMember(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	projectID := c.Param("id")

	var req models.AssignMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User email is required"})
		return
	}

	member, err := h.Membership.Assign(c.Request.Context(), userEmail, projectID, req.UserEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.WS != nil {
		h.WS.BroadcastUpdate(projectID, "member_assigned", userEmail)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User assigned to project successfully",
		"member": gin.H{
			"userId": member.UserID,
			"role":   member.Role,
		},
	})
}

// RemoveMember removes a member; removing a non-member is not an error.
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	projectID := c.Param("id")

	targetEmail := c.Query("userEmail")
	if targetEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User email is required"})
		return
	}

	if err := h.Membership.Remove(c.Request.Context(), userEmail, projectID, targetEmail); err != nil {
		respondError(c, err)
		return
	}

	if h.WS != nil {
		h.WS.BroadcastUpdate(projectID, "member_removed", userEmail)
	}

	c.JSON(http.StatusOK, gin.H{"message": "User removed from project successfully"})
}
