package models

import "time"

// Member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Task status values ("" means unset)
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
)

// Task priority values ("" means unset)
const (
	TaskPriorityHigh   = "high"
	TaskPriorityMedium = "medium"
	TaskPriorityLow    = "low"
)

// Member records a user's access to a project. UserID is the user's email.
type Member struct {
	UserID  string    `json:"userId"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

type Task struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	AssignedTo string     `json:"assignedTo"`
	Deadline   *time.Time `json:"deadline"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	Comment    string     `json:"comment"`
}

type Subgroup struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tasks     []Task    `json:"tasks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project owns its subgroup/task tree outright; the tree is replaced
// wholesale on update (last writer wins at the array level).
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerEmail  string     `json:"userId"`
	Members     []Member   `json:"members"`
	Subgroups   []Subgroup `json:"subgroups"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsMember reports whether email appears in Members (case-sensitive).
func (p *Project) IsMember(email string) bool {
	for _, m := range p.Members {
		if m.UserID == email {
			return true
		}
	}
	return false
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectRequest carries a partial patch; nil fields are left as-is.
type UpdateProjectRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Subgroups   *[]Subgroup `json:"subgroups"`
}

type AssignMemberRequest struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
}
