package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventura-api/middleware"
	"eventura-api/models"
	"eventura-api/services"
)

type InvitationHandler struct {
	Invitations *services.InvitationService
	WS          *WSHandler
}

// GetInvitations returns all invitations addressed to the caller, newest
// first; expired pending ones come back rejected.
func (h *InvitationHandler) GetInvitations(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)

	invitations, err := h.Invitations.ListForUser(c.Request.Context(), userEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// SendInvitation invites a non-member to join a project by email.
func (h *InvitationHandler) SendInvitation(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	userName := middleware.GetUserName(c)

	var req models.SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID and user email are required"})
		return
	}

	result, err := h.Invitations.Send(c.Request.Context(), userEmail, userName, req.ProjectID, req.UserEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation sent successfully",
		"invitation": result,
	})
}

// RespondInvitation accepts or rejects an invitation by token.
func (h *InvitationHandler) RespondInvitation(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)

	var req models.RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and action are required"})
		return
	}

	result, err := h.Invitations.Respond(c.Request.Context(), userEmail, req.Token, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.WS != nil && result.Project != nil {
		h.WS.BroadcastUpdate(result.Project.ID, "member_joined", userEmail)
	}

	response := gin.H{"message": result.Message}
	if result.Project != nil {
		response["project"] = result.Project
	}
	c.JSON(http.StatusOK, response)
}
