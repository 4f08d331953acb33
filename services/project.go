package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"eventura-api/models"
	"eventura-api/store"
)

type ProjectService struct {
	projects   store.ProjectStore
	users      store.UserStore
	membership *MembershipService
}

func NewProjectService(projects store.ProjectStore, users store.UserStore, membership *MembershipService) *ProjectService {
	return &ProjectService{projects: projects, users: users, membership: membership}
}

// Create seeds the project with the owner as its first member and records
// the project on the owner's user record.
func (s *ProjectService) Create(ctx context.Context, ownerEmail, name, description string) (*models.Project, error) {
	if name == "" {
		name = "Untitled Project"
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		OwnerEmail:  ownerEmail,
		Members: []models.Member{
			{UserID: ownerEmail, Role: models.RoleOwner, AddedAt: now},
		},
		Subgroups: []models.Subgroup{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, internal("Failed to create project", err)
	}

	if err := s.users.AppendProject(ctx, ownerEmail, project.ID); err != nil {
		return nil, internal("Failed to record project on owner", err)
	}

	return project, nil
}

// ListForUser returns projects the caller owns or belongs to, newest first.
func (s *ProjectService) ListForUser(ctx context.Context, email string) ([]models.Project, error) {
	projects, err := s.projects.ListForUser(ctx, email)
	if err != nil {
		return nil, internal("Failed to fetch projects", err)
	}
	return projects, nil
}

// Get returns the project if the caller owns it or is a member. Anyone else
// sees NotFound rather than Forbidden, hiding the project's existence.
func (s *ProjectService) Get(ctx context.Context, requesterEmail, id string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch project", err)
	}

	if project.OwnerEmail != requesterEmail && !project.IsMember(requesterEmail) {
		return nil, errf(CodeNotFound, "Project not found")
	}

	return project, nil
}

// Update applies a partial patch, owner only. A non-nil Subgroups replaces
// the whole tree; every task assignee in the incoming tree is granted
// membership before the tree is persisted.
func (s *ProjectService) Update(ctx context.Context, requesterEmail, id string, req models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch project", err)
	}

	if project.OwnerEmail != requesterEmail {
		return nil, errf(CodeNotFound, "Project not found")
	}

	patch := store.ProjectPatch{Name: req.Name, Description: req.Description}
	if req.Subgroups != nil {
		if err := validateSubgroups(*req.Subgroups); err != nil {
			return nil, err
		}
		s.membership.EnsureAssignees(ctx, id, *req.Subgroups)
		patch.Subgroups = *req.Subgroups
	}

	updated, err := s.projects.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return nil, internal("Failed to update project", err)
	}

	return updated, nil
}

// Delete removes the project, owner only. Invitations referencing it keep
// their denormalized snapshot, and user records keep the dangling id
// (accepted orphaning; listForUser joins through the project table, so the
// stale id is never served).
func (s *ProjectService) Delete(ctx context.Context, requesterEmail, id string) error {
	project, err := s.projects.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return errf(CodeNotFound, "Project not found")
	}
	if err != nil {
		return internal("Failed to fetch project", err)
	}

	if project.OwnerEmail != requesterEmail {
		return errf(CodeNotFound, "Project not found")
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errf(CodeNotFound, "Project not found")
		}
		return internal("Failed to delete project", err)
	}

	return nil
}

func validateSubgroups(subgroups []models.Subgroup) error {
	for _, sg := range subgroups {
		for _, task := range sg.Tasks {
			switch task.Status {
			case "", models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
			default:
				return errf(CodeBadRequest, "Invalid task status %q", task.Status)
			}
			switch task.Priority {
			case "", models.TaskPriorityHigh, models.TaskPriorityMedium, models.TaskPriorityLow:
			default:
				return errf(CodeBadRequest, "Invalid task priority %q", task.Priority)
			}
		}
	}
	return nil
}
