package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventura-api/models"
)

func TestCreateProjectDefaults(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")

	project, err := env.projects.Create(ctx, "owner@x.com", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled Project", project.Name)
	assert.Empty(t, project.Subgroups)

	require.Len(t, project.Members, 1)
	assert.Equal(t, "owner@x.com", project.Members[0].UserID)
	assert.Equal(t, models.RoleOwner, project.Members[0].Role)

	owner, err := env.mem.Users.FindByEmail(ctx, "owner@x.com")
	require.NoError(t, err)
	assert.Contains(t, owner.Projects, project.ID)
}

func TestListForUserIncludesMemberships(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "alice@x.com", "")
	env.signIn(t, "bob@x.com", "")

	owned := env.createProject(t, "alice@x.com", "Owned")
	time.Sleep(2 * time.Millisecond)
	joined := env.createProject(t, "bob@x.com", "Joined")
	_, err := env.membership.Assign(ctx, "bob@x.com", joined.ID, "alice@x.com")
	require.NoError(t, err)

	projects, err := env.projects.ListForUser(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	// Newest-created first.
	assert.Equal(t, joined.ID, projects[0].ID)
	assert.Equal(t, owned.ID, projects[1].ID)
}

func TestGetHiddenFromNonMembers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	_, err := env.projects.Get(ctx, "bob@x.com", project.ID)
	requireCode(t, err, CodeNotFound)

	_, err = env.membership.Assign(ctx, "owner@x.com", project.ID, "bob@x.com")
	require.NoError(t, err)

	got, err := env.projects.Get(ctx, "bob@x.com", project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestUpdateIsOwnerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")
	_, err := env.membership.Assign(ctx, "owner@x.com", project.ID, "bob@x.com")
	require.NoError(t, err)

	name := "Hijacked"
	_, err = env.projects.Update(ctx, "bob@x.com", project.ID, models.UpdateProjectRequest{Name: &name})
	requireCode(t, err, CodeNotFound)
}

func TestUpdateReplacesSubgroupsWholesale(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	first := []models.Subgroup{{ID: "sg1", Title: "Old", Tasks: []models.Task{}}}
	_, err := env.projects.Update(ctx, "owner@x.com", project.ID, models.UpdateProjectRequest{Subgroups: &first})
	require.NoError(t, err)

	second := []models.Subgroup{{ID: "sg2", Title: "New", Tasks: []models.Task{}}}
	updated, err := env.projects.Update(ctx, "owner@x.com", project.ID, models.UpdateProjectRequest{Subgroups: &second})
	require.NoError(t, err)

	require.Len(t, updated.Subgroups, 1)
	assert.Equal(t, "sg2", updated.Subgroups[0].ID)
}

func TestUpdatePartialPatchLeavesOtherFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	desc := "shipping soon"
	updated, err := env.projects.Update(ctx, "owner@x.com", project.ID, models.UpdateProjectRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Launch", updated.Name)
	assert.Equal(t, "shipping soon", updated.Description)
}

func TestUpdateGrantsMembershipToAssignees(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "carol@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	subgroups := []models.Subgroup{
		{ID: "sg1", Title: "Sprint", Tasks: []models.Task{
			{ID: "t1", Text: "wire api", AssignedTo: "carol@x.com", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityHigh},
		}},
	}
	updated, err := env.projects.Update(ctx, "owner@x.com", project.ID, models.UpdateProjectRequest{Subgroups: &subgroups})
	require.NoError(t, err)

	assert.True(t, updated.IsMember("carol@x.com"))
}

func TestUpdateRejectsInvalidTaskEnums(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	bad := []models.Subgroup{{ID: "sg1", Title: "Sprint", Tasks: []models.Task{
		{ID: "t1", Text: "x", Status: "blocked"},
	}}}
	_, err := env.projects.Update(ctx, "owner@x.com", project.ID, models.UpdateProjectRequest{Subgroups: &bad})
	requireCode(t, err, CodeBadRequest)

	bad[0].Tasks[0].Status = ""
	bad[0].Tasks[0].Priority = "urgent"
	_, err = env.projects.Update(ctx, "owner@x.com", project.ID, models.UpdateProjectRequest{Subgroups: &bad})
	requireCode(t, err, CodeBadRequest)
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.signIn(t, "owner@x.com", "")
	env.signIn(t, "bob@x.com", "")
	project := env.createProject(t, "owner@x.com", "Launch")

	err := env.projects.Delete(ctx, "bob@x.com", project.ID)
	requireCode(t, err, CodeNotFound)

	require.NoError(t, env.projects.Delete(ctx, "owner@x.com", project.ID))

	_, err = env.projects.Get(ctx, "owner@x.com", project.ID)
	requireCode(t, err, CodeNotFound)

	// Delete does not cascade into user records: the dangling id stays on
	// the owner, but listForUser no longer serves the project.
	owner, err := env.mem.Users.FindByEmail(ctx, "owner@x.com")
	require.NoError(t, err)
	assert.Contains(t, owner.Projects, project.ID)

	projects, err := env.projects.ListForUser(ctx, "owner@x.com")
	require.NoError(t, err)
	assert.Empty(t, projects)
}
