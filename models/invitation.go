package models

import "time"

// Invitation status values. Pending is the only non-terminal state;
// expired invitations are stored as rejected.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation is a token-addressed offer to join a project. ProjectName and
// InviterName are snapshots taken at creation time so the record stays
// displayable even if the project is later renamed or deleted.
type Invitation struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	ProjectName  string    `json:"projectName"`
	InviterEmail string    `json:"inviterEmail"`
	InviterName  string    `json:"inviterName,omitempty"`
	InviteeEmail string    `json:"inviteeEmail"`
	Status       string    `json:"status"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type SendInvitationRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	UserEmail string `json:"userEmail" binding:"required,email"`
}

type RespondInvitationRequest struct {
	Token  string `json:"token" binding:"required"`
	Action string `json:"action" binding:"required"`
}
