package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"eventura-api/models"
	"eventura-api/utils"
)

type PostgresProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *PostgresProjectStore {
	return &PostgresProjectStore{db: db}
}

// Create inserts the project and its owner member row in one transaction so
// a project is never visible without its owner in members.
func (s *PostgresProjectStore) Create(ctx context.Context, p *models.Project) error {
	subgroupsJSON, err := json.Marshal(p.Subgroups)
	if err != nil {
		return err
	}

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO projects (id, name, description, owner_email, subgroups, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.Name, p.Description, p.OwnerEmail, subgroupsJSON, p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}

		for _, m := range p.Members {
			memberQuery := `
				INSERT INTO project_members (project_id, user_email, role, added_at)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, memberQuery, p.ID, m.UserID, m.Role, m.AddedAt); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *PostgresProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, owner_email, subgroups, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var p models.Project
	var subgroupsJSON []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.OwnerEmail, &subgroupsJSON,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(subgroupsJSON, &p.Subgroups); err != nil {
		return nil, err
	}

	members, err := s.getMembers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Members = members

	return &p, nil
}

func (s *PostgresProjectStore) ListForUser(ctx context.Context, email string) ([]models.Project, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.owner_email, p.subgroups, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_members pm ON p.id = pm.project_id
		WHERE p.owner_email = $1 OR pm.user_email = $1
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		var subgroupsJSON []byte
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerEmail, &subgroupsJSON,
			&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(subgroupsJSON, &p.Subgroups); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		members, err := s.getMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Members = members
	}

	return projects, nil
}

// Update applies a partial patch. The subgroup tree is replaced wholesale
// (last writer wins), matching the single-document write the UI performs.
func (s *PostgresProjectStore) Update(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	var subgroupsJSON []byte
	if patch.Subgroups != nil {
		var err error
		subgroupsJSON, err = json.Marshal(patch.Subgroups)
		if err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE projects
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    subgroups = COALESCE($4::jsonb, subgroups),
		    updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, patch.Name, patch.Description, subgroupsJSON, time.Now())
	if err != nil {
		return nil, err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

// Delete removes the project and (via FK cascade) its member rows.
// Invitations and user records are left alone.
func (s *PostgresProjectStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// InsertMember relies on the (project_id, user_email) unique constraint for
// idempotence under concurrent adds.
func (s *PostgresProjectStore) InsertMember(ctx context.Context, projectID string, m models.Member) (bool, error) {
	query := `
		INSERT INTO project_members (project_id, user_email, role, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_email) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, projectID, m.UserID, m.Role, m.AddedAt)
	if err != nil {
		return false, err
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func (s *PostgresProjectStore) DeleteMember(ctx context.Context, projectID, email string) error {
	query := `DELETE FROM project_members WHERE project_id = $1 AND user_email = $2`
	_, err := s.db.ExecContext(ctx, query, projectID, email)
	return err
}

func (s *PostgresProjectStore) getMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	query := `
		SELECT user_email, role, added_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY added_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
