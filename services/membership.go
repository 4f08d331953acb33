package services

import (
	"context"
	"errors"
	"log"
	"time"

	"eventura-api/models"
	"eventura-api/store"
)

// MembershipService keeps project.members and user.projects mutual inverses
// on every membership-changing event.
type MembershipService struct {
	projects store.ProjectStore
	users    store.UserStore
}

func NewMembershipService(projects store.ProjectStore, users store.UserStore) *MembershipService {
	return &MembershipService{projects: projects, users: users}
}

// AddMember is idempotent: adding an existing member reports added=false and
// changes nothing. The user-side update is skipped silently when no user
// record exists yet (the user may not have signed in).
func (s *MembershipService) AddMember(ctx context.Context, projectID, email, role string) (bool, error) {
	member := models.Member{UserID: email, Role: role, AddedAt: time.Now()}
	added, err := s.projects.InsertMember(ctx, projectID, member)
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}

	if err := s.users.AppendProject(ctx, email, projectID); err != nil {
		return true, err
	}
	return true, nil
}

// RemoveMember removes both sides of the relationship. Removing a
// non-member is not an error.
func (s *MembershipService) RemoveMember(ctx context.Context, projectID, email string) error {
	if err := s.projects.DeleteMember(ctx, projectID, email); err != nil {
		return err
	}
	return s.users.RemoveProject(ctx, email, projectID)
}

// Assign adds a member directly, bypassing the invitation flow. Owner only,
// and the target must already have a user record.
func (s *MembershipService) Assign(ctx context.Context, requesterEmail, projectID, targetEmail string) (*models.Member, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch project", err)
	}

	if project.OwnerEmail != requesterEmail {
		return nil, errf(CodeForbidden, "Only the project owner can assign members")
	}

	if _, err := s.users.FindByEmail(ctx, targetEmail); errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "User not found")
	} else if err != nil {
		return nil, internal("Failed to fetch user", err)
	}

	if project.IsMember(targetEmail) {
		return nil, errf(CodeConflict, "User is already a member of this project")
	}

	if _, err := s.AddMember(ctx, projectID, targetEmail, models.RoleMember); err != nil {
		return nil, internal("Failed to assign user to project", err)
	}

	return &models.Member{UserID: targetEmail, Role: models.RoleMember, AddedAt: time.Now()}, nil
}

// Remove removes a member. Owner only; removing a non-member succeeds.
func (s *MembershipService) Remove(ctx context.Context, requesterEmail, projectID, targetEmail string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return internal("Failed to fetch project", err)
	}

	if project.OwnerEmail != requesterEmail {
		return errf(CodeForbidden, "Only the project owner can remove members")
	}

	if err := s.RemoveMember(ctx, projectID, targetEmail); err != nil {
		return internal("Failed to remove user from project", err)
	}
	return nil
}

// EnsureAssignees grants membership to every task assignee in the incoming
// subgroup tree so assignees can see the board. Best effort: failures are
// logged and never block the task update.
func (s *MembershipService) EnsureAssignees(ctx context.Context, projectID string, subgroups []models.Subgroup) {
	seen := map[string]bool{}
	for _, sg := range subgroups {
		for _, task := range sg.Tasks {
			if task.AssignedTo == "" || seen[task.AssignedTo] {
				continue
			}
			seen[task.AssignedTo] = true
			if _, err := s.AddMember(ctx, projectID, task.AssignedTo, models.RoleMember); err != nil {
				log.Printf("⚠️ Failed to grant membership to assignee %s on project %s: %v", task.AssignedTo, projectID, err)
			}
		}
	}
}
