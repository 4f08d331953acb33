// Package store defines the persistence interfaces consumed by the service
// layer, plus the Postgres implementations. Services are constructed with
// these interfaces at process start; nothing reaches for ambient state.
package store

import (
	"context"
	"errors"

	"eventura-api/models"
)

var (
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePending is returned by Invitations.Create when a pending
	// invitation already exists for the same (projectId, inviteeEmail).
	ErrDuplicatePending = errors.New("pending invitation already exists")
	// ErrNotPending is returned by conditional status transitions when the
	// invitation is no longer in the pending state.
	ErrNotPending = errors.New("invitation is not pending")
)

// ProjectPatch is a partial update; nil fields are left untouched.
// Subgroups replaces the whole tree when non-nil.
type ProjectPatch struct {
	Name        *string
	Description *string
	Subgroups   []models.Subgroup
}

var (
	_ UserStore       = (*PostgresUserStore)(nil)
	_ ProjectStore    = (*PostgresProjectStore)(nil)
	_ InvitationStore = (*PostgresInvitationStore)(nil)
	_ UserStore       = (*MemoryUserStore)(nil)
	_ ProjectStore    = (*MemoryProjectStore)(nil)
	_ InvitationStore = (*MemoryInvitationStore)(nil)
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns the user directory sorted by name.
	List(ctx context.Context) ([]models.User, error)
	// Upsert creates the user on first sign-in or refreshes name/image.
	Upsert(ctx context.Context, email, name, image string) (*models.User, error)
	// AppendProject adds projectID to the user's project list if the user
	// record exists and does not already list it. Missing user is a no-op.
	AppendProject(ctx context.Context, email, projectID string) error
	// RemoveProject removes projectID from the user's project list.
	// Idempotent; missing user or project id is a no-op.
	RemoveProject(ctx context.Context, email, projectID string) error
}

type ProjectStore interface {
	// Create persists the project and its initial owner member row
	// atomically.
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// ListForUser returns projects the email owns or belongs to, newest
	// first.
	ListForUser(ctx context.Context, email string) ([]models.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	// InsertMember adds the member unless an entry for the same email
	// already exists. Reports whether a row was added.
	InsertMember(ctx context.Context, projectID string, m models.Member) (bool, error)
	// DeleteMember removes the matching member row. Idempotent.
	DeleteMember(ctx context.Context, projectID, email string) error
}

type InvitationStore interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	// ListForInvitee returns invitations addressed to email, newest first.
	ListForInvitee(ctx context.Context, email string) ([]models.Invitation, error)
	HasPending(ctx context.Context, projectID, inviteeEmail string) (bool, error)
	// MarkStatus transitions the invitation out of pending. Exactly one
	// concurrent caller wins; losers get ErrNotPending.
	MarkStatus(ctx context.Context, token, status string) error
	// AcceptAndJoin atomically claims the pending invitation as accepted and
	// adds the member to the project (and to the user's project list, when
	// the user record exists). ErrNotPending if the claim loses.
	AcceptAndJoin(ctx context.Context, token, projectID string, m models.Member) error
	// Delete removes the invitation record outright (rollback after a
	// failed email delivery).
	Delete(ctx context.Context, id string) error
}
