package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"eventura-api/models"
	"eventura-api/store"
	"eventura-api/utils"
)

const invitationTTL = 7 * 24 * time.Hour

// InvitationService is the lifecycle engine for invitations: it owns the
// pending→accepted / pending→rejected state machine and the membership side
// effects of acceptance.
type InvitationService struct {
	invitations store.InvitationStore
	projects    store.ProjectStore
	users       store.UserStore
	email       EmailSender
	now         func() time.Time
}

func NewInvitationService(invitations store.InvitationStore, projects store.ProjectStore, users store.UserStore, email EmailSender) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		projects:    projects,
		users:       users,
		email:       email,
		now:         time.Now,
	}
}

// SendResult echoes the created invitation back to the caller.
type SendResult struct {
	ID           string    `json:"id"`
	InviteeEmail string    `json:"inviteeEmail"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// RespondResult reports the outcome of accepting or rejecting.
type RespondResult struct {
	Message string      `json:"message"`
	Project *ProjectRef `json:"project,omitempty"`
}

type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Send creates a pending invitation and delivers the notification email.
// The invitation never outlives a failed delivery: on email failure it is
// deleted and the caller gets a delivery error.
func (s *InvitationService) Send(ctx context.Context, requesterEmail, requesterName, projectID, inviteeEmail string) (*SendResult, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch project", err)
	}

	if project.OwnerEmail != requesterEmail {
		return nil, errf(CodeForbidden, "Only the project owner can send invitations")
	}

	if project.IsMember(inviteeEmail) {
		return nil, errf(CodeConflict, "User is already a member of this project")
	}

	pending, err := s.invitations.HasPending(ctx, projectID, inviteeEmail)
	if err != nil {
		return nil, internal("Failed to check existing invitations", err)
	}
	if pending {
		return nil, errf(CodeConflict, "An invitation has already been sent to this user")
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return nil, internal("Failed to generate invitation token", err)
	}

	inviterName := requesterName
	if inviterName == "" {
		inviterName = requesterEmail
	}

	now := s.now()
	invitation := &models.Invitation{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		ProjectName:  project.Name,
		InviterEmail: requesterEmail,
		InviterName:  inviterName,
		InviteeEmail: inviteeEmail,
		Status:       models.InvitationPending,
		Token:        token,
		ExpiresAt:    now.Add(invitationTTL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.invitations.Create(ctx, invitation); err != nil {
		if errors.Is(err, store.ErrDuplicatePending) {
			return nil, errf(CodeConflict, "An invitation has already been sent to this user")
		}
		return nil, internal("Failed to create invitation", err)
	}

	expiresInDays := int(invitationTTL.Hours() / 24)
	if err := s.email.SendInvitation(inviteeEmail, inviterName, project.Name, token, expiresInDays); err != nil {
		// Roll back: the invitation must not exist without its notification.
		if delErr := s.invitations.Delete(ctx, invitation.ID); delErr != nil {
			log.Printf("❌ Failed to roll back invitation %s after email failure: %v", invitation.ID, delErr)
		}
		return nil, &Error{Code: CodeDeliveryFailed, Message: "Failed to send invitation email. Please check SMTP configuration.", Err: err}
	}

	return &SendResult{
		ID:           invitation.ID,
		InviteeEmail: inviteeEmail,
		ExpiresAt:    invitation.ExpiresAt,
	}, nil
}

// ListForUser returns the caller's invitations, newest first. Pending
// invitations past their expiry are flipped to rejected on the way out, so
// no caller ever observes an expired invitation as pending.
func (s *InvitationService) ListForUser(ctx context.Context, email string) ([]models.Invitation, error) {
	invitations, err := s.invitations.ListForInvitee(ctx, email)
	if err != nil {
		return nil, internal("Failed to fetch invitations", err)
	}

	now := s.now()
	for i := range invitations {
		inv := &invitations[i]
		if inv.Status != models.InvitationPending || !inv.ExpiresAt.Before(now) {
			continue
		}
		err := s.invitations.MarkStatus(ctx, inv.Token, models.InvitationRejected)
		if errors.Is(err, store.ErrNotPending) {
			// A concurrent respond resolved it between the read and the
			// expiry write; report the winner's status, not rejected.
			if current, gerr := s.invitations.GetByToken(ctx, inv.Token); gerr == nil {
				inv.Status = current.Status
			}
			continue
		}
		if err != nil {
			return nil, internal("Failed to expire invitation", err)
		}
		inv.Status = models.InvitationRejected
	}

	return invitations, nil
}

// Respond resolves a pending invitation. Expiry is checked before the
// action, so an accept of an expired invitation still turns it rejected.
func (s *InvitationService) Respond(ctx context.Context, userEmail, token, action string) (*RespondResult, error) {
	if action != "accept" && action != "reject" {
		return nil, errf(CodeBadRequest, "Action must be 'accept' or 'reject'")
	}

	invitation, err := s.invitations.GetByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Invitation not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch invitation", err)
	}

	if invitation.InviteeEmail != userEmail {
		return nil, errf(CodeForbidden, "This invitation is not for you")
	}

	if invitation.Status != models.InvitationPending {
		return nil, errf(CodeAlreadyResolved, "This invitation has already been %s", invitation.Status)
	}

	if s.now().After(invitation.ExpiresAt) {
		if err := s.invitations.MarkStatus(ctx, token, models.InvitationRejected); err != nil {
			if errors.Is(err, store.ErrNotPending) {
				return nil, s.alreadyResolved(ctx, token)
			}
			return nil, internal("Failed to update invitation", err)
		}
		return nil, errf(CodeExpired, "This invitation has expired")
	}

	if action == "reject" {
		if err := s.invitations.MarkStatus(ctx, token, models.InvitationRejected); err != nil {
			if errors.Is(err, store.ErrNotPending) {
				return nil, s.alreadyResolved(ctx, token)
			}
			return nil, internal("Failed to update invitation", err)
		}
		return &RespondResult{Message: "Invitation rejected"}, nil
	}

	project, err := s.projects.GetByID(ctx, invitation.ProjectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch project", err)
	}

	// Race guard: the invitee may have been added directly in the meantime.
	// The invitation is still marked accepted; no duplicate membership.
	if project.IsMember(userEmail) {
		if err := s.invitations.MarkStatus(ctx, token, models.InvitationAccepted); err != nil && !errors.Is(err, store.ErrNotPending) {
			return nil, internal("Failed to update invitation", err)
		}
		return nil, errf(CodeConflict, "You are already a member of this project")
	}

	member := models.Member{UserID: userEmail, Role: models.RoleMember, AddedAt: s.now()}
	if err := s.invitations.AcceptAndJoin(ctx, token, invitation.ProjectID, member); err != nil {
		if errors.Is(err, store.ErrNotPending) {
			return nil, s.alreadyResolved(ctx, token)
		}
		return nil, internal("Failed to accept invitation", err)
	}

	return &RespondResult{
		Message: "Invitation accepted successfully",
		Project: &ProjectRef{ID: project.ID, Name: project.Name},
	}, nil
}

// alreadyResolved re-reads the invitation after losing a conditional update
// so the error message echoes the winner's terminal state.
func (s *InvitationService) alreadyResolved(ctx context.Context, token string) *Error {
	status := "resolved"
	if inv, err := s.invitations.GetByToken(ctx, token); err == nil {
		status = inv.Status
	}
	return errf(CodeAlreadyResolved, "This invitation has already been %s", status)
}
