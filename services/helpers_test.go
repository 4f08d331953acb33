package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventura-api/models"
	"eventura-api/store"
)

type sentEmail struct {
	to            string
	inviterName   string
	projectName   string
	token         string
	expiresInDays int
}

type fakeEmailSender struct {
	fail bool
	sent []sentEmail
}

func (f *fakeEmailSender) SendInvitation(to, inviterName, projectName, token string, expiresInDays int) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, sentEmail{to, inviterName, projectName, token, expiresInDays})
	return nil
}

type testEnv struct {
	mem         *store.Memory
	email       *fakeEmailSender
	membership  *MembershipService
	projects    *ProjectService
	invitations *InvitationService
}

func newTestEnv() *testEnv {
	mem := store.NewMemory()
	email := &fakeEmailSender{}
	membership := NewMembershipService(mem.Projects, mem.Users)
	return &testEnv{
		mem:         mem,
		email:       email,
		membership:  membership,
		projects:    NewProjectService(mem.Projects, mem.Users, membership),
		invitations: NewInvitationService(mem.Invitations, mem.Projects, mem.Users, email),
	}
}

// setNow pins the lifecycle engine's clock.
func (e *testEnv) setNow(t time.Time) {
	e.invitations.now = func() time.Time { return t }
}

func (e *testEnv) signIn(t *testing.T, email, name string) *models.User {
	t.Helper()
	user, err := e.mem.Users.Upsert(context.Background(), email, name, "")
	require.NoError(t, err)
	return user
}

func (e *testEnv) createProject(t *testing.T, owner, name string) *models.Project {
	t.Helper()
	project, err := e.projects.Create(context.Background(), owner, name, "")
	require.NoError(t, err)
	return project
}

// sendInvitation sends and returns the stored invitation (token included).
func (e *testEnv) sendInvitation(t *testing.T, owner, projectID, invitee string) *models.Invitation {
	t.Helper()
	result, err := e.invitations.Send(context.Background(), owner, "", projectID, invitee)
	require.NoError(t, err)

	invs, err := e.mem.Invitations.ListForInvitee(context.Background(), invitee)
	require.NoError(t, err)
	for i := range invs {
		if invs[i].ID == result.ID {
			return &invs[i]
		}
	}
	t.Fatalf("invitation %s not found after send", result.ID)
	return nil
}

func requireCode(t *testing.T, err error, code Code) {
	t.Helper()
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, code, svcErr.Code)
}
