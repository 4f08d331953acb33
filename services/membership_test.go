package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventura-api/models"
)

func TestAddMemberIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	added, err := env.membership.AddMember(ctx, project.ID, "bob@x.com", models.RoleMember)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = env.membership.AddMember(ctx, project.ID, "bob@x.com", models.RoleMember)
	require.NoError(t, err)
	assert.False(t, added)

	stored, err := env.mem.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, 2) // owner + bob, no duplicates

	bob, err := env.mem.Users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{project.ID}, bob.Projects)
}

func TestAddMemberWithoutUserRecord(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	// ghost@x.com has never signed in: membership proceeds on the project
	// side only.
	added, err := env.membership.AddMember(ctx, project.ID, "ghost@x.com", models.RoleMember)
	require.NoError(t, err)
	assert.True(t, added)

	stored, err := env.mem.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsMember("ghost@x.com"))

	// Signing in later does not backfill user.projects.
	env.signIn(t, "ghost@x.com", "Ghost")
	ghost, err := env.mem.Users.FindByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Empty(t, ghost.Projects)
}

func TestRemoveMemberIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	_, err := env.membership.AddMember(ctx, project.ID, "bob@x.com", models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, env.membership.RemoveMember(ctx, project.ID, "bob@x.com"))
	require.NoError(t, env.membership.RemoveMember(ctx, project.ID, "bob@x.com"))

	stored, err := env.mem.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsMember("bob@x.com"))

	bob, err := env.mem.Users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Empty(t, bob.Projects)
}

func TestAssignRequiresOwner(t *testing.T) {
	env := newTestEnv()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	_, err := env.membership.Assign(context.Background(), "bob@x.com", project.ID, "bob@x.com")
	requireCode(t, err, CodeForbidden)
}

func TestAssignRequiresUserRecord(t *testing.T) {
	env := newTestEnv()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	_, err := env.membership.Assign(context.Background(), "owner@x.com", project.ID, "ghost@x.com")
	requireCode(t, err, CodeNotFound)
	assert.EqualError(t, err, "User not found")
}

func TestAssignExistingMember(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	_, err := env.membership.Assign(ctx, "owner@x.com", project.ID, "bob@x.com")
	require.NoError(t, err)

	_, err = env.membership.Assign(ctx, "owner@x.com", project.ID, "bob@x.com")
	requireCode(t, err, CodeConflict)
}

func TestAssignMissingProject(t *testing.T) {
	env := newTestEnv()

	_, err := env.membership.Assign(context.Background(), "owner@x.com", "missing-id", "bob@x.com")
	requireCode(t, err, CodeNotFound)
}

func TestRemoveRequiresOwner(t *testing.T) {
	env := newTestEnv()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	err := env.membership.Remove(context.Background(), "bob@x.com", project.ID, "owner@x.com")
	requireCode(t, err, CodeForbidden)
}

func TestRemoveNonMemberSucceeds(t *testing.T) {
	env := newTestEnv()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	err := env.membership.Remove(context.Background(), "owner@x.com", project.ID, "stranger@x.com")
	require.NoError(t, err)
}

func TestEnsureAssigneesGrantsMembership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "carol@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	subgroups := []models.Subgroup{
		{ID: "sg1", Title: "Phase 1", Tasks: []models.Task{
			{ID: "t1", Text: "design", AssignedTo: "carol@x.com", Status: models.TaskStatusTodo},
			{ID: "t2", Text: "review", AssignedTo: ""},
			{ID: "t3", Text: "ship", AssignedTo: "carol@x.com"},
		}},
	}

	env.membership.EnsureAssignees(ctx, project.ID, subgroups)
	// Running again must not duplicate membership or fail the update path.
	env.membership.EnsureAssignees(ctx, project.ID, subgroups)

	stored, err := env.mem.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, 2)
	assert.True(t, stored.IsMember("carol@x.com"))

	carol, err := env.mem.Users.FindByEmail(ctx, "carol@x.com")
	require.NoError(t, err)
	assert.Contains(t, carol.Projects, project.ID)
}

func TestMembersAreMutualInverses(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	p1 := env.createProject(t, "owner@x.com", "One")
	p2 := env.createProject(t, "owner@x.com", "Two")

	_, err := env.membership.AddMember(ctx, p1.ID, "bob@x.com", models.RoleMember)
	require.NoError(t, err)
	_, err = env.membership.AddMember(ctx, p2.ID, "bob@x.com", models.RoleMember)
	require.NoError(t, err)

	bob, err := env.mem.Users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, bob.Projects)

	require.NoError(t, env.membership.RemoveMember(ctx, p1.ID, "bob@x.com"))

	bob, err = env.mem.Users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID}, bob.Projects)

	stored, err := env.mem.Projects.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsMember("bob@x.com"))
}
