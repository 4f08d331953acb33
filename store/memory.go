package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventura-api/models"
)

// Memory bundles in-memory implementations of the three stores sharing one
// state, mirroring the conditional-update contract of the Postgres stores.
// It backs the service and handler tests.
type Memory struct {
	Users       *MemoryUserStore
	Projects    *MemoryProjectStore
	Invitations *MemoryInvitationStore
}

type memoryState struct {
	mu          sync.Mutex
	users       map[string]*models.User       // keyed by email
	projects    map[string]*models.Project    // keyed by id
	invitations map[string]*models.Invitation // keyed by token
}

func NewMemory() *Memory {
	state := &memoryState{
		users:       make(map[string]*models.User),
		projects:    make(map[string]*models.Project),
		invitations: make(map[string]*models.Invitation),
	}
	return &Memory{
		Users:       &MemoryUserStore{state: state},
		Projects:    &MemoryProjectStore{state: state},
		Invitations: &MemoryInvitationStore{state: state},
	}
}

type MemoryUserStore struct {
	state *memoryState
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	user, ok := s.state.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	copied.Projects = append([]string(nil), user.Projects...)
	return &copied, nil
}

func (s *MemoryUserStore) List(ctx context.Context) ([]models.User, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	users := []models.User{}
	for _, u := range s.state.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *MemoryUserStore) Upsert(ctx context.Context, email, name, image string) (*models.User, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	user, ok := s.state.users[email]
	if !ok {
		user = &models.User{
			ID:        uuid.New().String(),
			Email:     email,
			Projects:  []string{},
			CreatedAt: time.Now(),
		}
		s.state.users[email] = user
	}
	if name != "" {
		user.Name = name
	}
	if image != "" {
		user.Image = image
	}
	user.UpdatedAt = time.Now()

	copied := *user
	copied.Projects = append([]string(nil), user.Projects...)
	return &copied, nil
}

func (s *MemoryUserStore) AppendProject(ctx context.Context, email, projectID string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.appendUserProject(email, projectID)
	return nil
}

func (s *MemoryUserStore) RemoveProject(ctx context.Context, email, projectID string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	user, ok := s.state.users[email]
	if !ok {
		return nil
	}
	kept := user.Projects[:0]
	for _, id := range user.Projects {
		if id != projectID {
			kept = append(kept, id)
		}
	}
	user.Projects = kept
	return nil
}

func (st *memoryState) appendUserProject(email, projectID string) {
	user, ok := st.users[email]
	if !ok {
		return
	}
	for _, id := range user.Projects {
		if id == projectID {
			return
		}
	}
	user.Projects = append(user.Projects, projectID)
}

type MemoryProjectStore struct {
	state *memoryState
}

func (s *MemoryProjectStore) Create(ctx context.Context, p *models.Project) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	copied := cloneProject(p)
	s.state.projects[p.ID] = &copied
	return nil
}

func (s *MemoryProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	p, ok := s.state.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := cloneProject(p)
	return &copied, nil
}

func (s *MemoryProjectStore) ListForUser(ctx context.Context, email string) ([]models.Project, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	projects := []models.Project{}
	for _, p := range s.state.projects {
		if p.OwnerEmail == email || p.IsMember(email) {
			projects = append(projects, cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *MemoryProjectStore) Update(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	p, ok := s.state.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Subgroups != nil {
		p.Subgroups = append([]models.Subgroup(nil), patch.Subgroups...)
	}
	p.UpdatedAt = time.Now()

	copied := cloneProject(p)
	return &copied, nil
}

func (s *MemoryProjectStore) Delete(ctx context.Context, id string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, ok := s.state.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.state.projects, id)
	return nil
}

func (s *MemoryProjectStore) InsertMember(ctx context.Context, projectID string, m models.Member) (bool, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.insertMember(projectID, m)
}

func (s *MemoryProjectStore) DeleteMember(ctx context.Context, projectID, email string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	p, ok := s.state.projects[projectID]
	if !ok {
		return nil
	}
	kept := p.Members[:0]
	for _, m := range p.Members {
		if m.UserID != email {
			kept = append(kept, m)
		}
	}
	p.Members = kept
	return nil
}

func (st *memoryState) insertMember(projectID string, m models.Member) (bool, error) {
	p, ok := st.projects[projectID]
	if !ok {
		return false, ErrNotFound
	}
	if p.IsMember(m.UserID) {
		return false, nil
	}
	p.Members = append(p.Members, m)
	return true, nil
}

type MemoryInvitationStore struct {
	state *memoryState
}

func (s *MemoryInvitationStore) Create(ctx context.Context, inv *models.Invitation) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for _, existing := range s.state.invitations {
		if existing.ProjectID == inv.ProjectID &&
			existing.InviteeEmail == inv.InviteeEmail &&
			existing.Status == models.InvitationPending {
			return ErrDuplicatePending
		}
	}
	copied := *inv
	s.state.invitations[inv.Token] = &copied
	return nil
}

func (s *MemoryInvitationStore) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	inv, ok := s.state.invitations[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (s *MemoryInvitationStore) ListForInvitee(ctx context.Context, email string) ([]models.Invitation, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	invitations := []models.Invitation{}
	for _, inv := range s.state.invitations {
		if inv.InviteeEmail == email {
			invitations = append(invitations, *inv)
		}
	}
	sort.Slice(invitations, func(i, j int) bool {
		return invitations[i].CreatedAt.After(invitations[j].CreatedAt)
	})
	return invitations, nil
}

func (s *MemoryInvitationStore) HasPending(ctx context.Context, projectID, inviteeEmail string) (bool, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for _, inv := range s.state.invitations {
		if inv.ProjectID == projectID && inv.InviteeEmail == inviteeEmail && inv.Status == models.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryInvitationStore) MarkStatus(ctx context.Context, token, status string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.markStatus(token, status)
}

func (s *MemoryInvitationStore) AcceptAndJoin(ctx context.Context, token, projectID string, m models.Member) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if err := s.state.markStatus(token, models.InvitationAccepted); err != nil {
		return err
	}
	if _, err := s.state.insertMember(projectID, m); err != nil {
		return err
	}
	s.state.appendUserProject(m.UserID, projectID)
	return nil
}

func (s *MemoryInvitationStore) Delete(ctx context.Context, id string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for token, inv := range s.state.invitations {
		if inv.ID == id {
			delete(s.state.invitations, token)
			return nil
		}
	}
	return nil
}

func (st *memoryState) markStatus(token, status string) error {
	inv, ok := st.invitations[token]
	if !ok || inv.Status != models.InvitationPending {
		return ErrNotPending
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	return nil
}

func cloneProject(p *models.Project) models.Project {
	copied := *p
	copied.Members = append([]models.Member(nil), p.Members...)
	copied.Subgroups = make([]models.Subgroup, len(p.Subgroups))
	for i, sg := range p.Subgroups {
		copied.Subgroups[i] = sg
		copied.Subgroups[i].Tasks = append([]models.Task(nil), sg.Tasks...)
	}
	return copied
}
