package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"eventura-api/models"
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, image, projects, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	var name, image sql.NullString
	var projectsJSON []byte
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &name, &image, &projectsJSON,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.Name = name.String
	user.Image = image.String
	if err := json.Unmarshal(projectsJSON, &user.Projects); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, email, name, image
		FROM users
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		var name, image sql.NullString
		if err := rows.Scan(&user.ID, &user.Email, &name, &image); err != nil {
			return nil, err
		}
		user.Name = name.String
		user.Image = image.String
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *PostgresUserStore) Upsert(ctx context.Context, email, name, image string) (*models.User, error) {
	query := `
		INSERT INTO users (email, name, image)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			image = COALESCE(NULLIF(EXCLUDED.image, ''), users.image),
			updated_at = NOW()
		RETURNING id, email, name, image, projects, created_at, updated_at
	`

	var user models.User
	var dbName, dbImage sql.NullString
	var projectsJSON []byte
	err := s.db.QueryRowContext(ctx, query, email, name, image).Scan(
		&user.ID, &user.Email, &dbName, &dbImage, &projectsJSON,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Name = dbName.String
	user.Image = dbImage.String
	if err := json.Unmarshal(projectsJSON, &user.Projects); err != nil {
		return nil, err
	}

	return &user, nil
}

// AppendProject is a conditional single-statement update: no row is touched
// when the user does not exist or already lists the project.
func (s *PostgresUserStore) AppendProject(ctx context.Context, email, projectID string) error {
	query := `
		UPDATE users
		SET projects = projects || to_jsonb($2::text), updated_at = NOW()
		WHERE email = $1 AND NOT (projects ? $2)
	`
	_, err := s.db.ExecContext(ctx, query, email, projectID)
	return err
}

func (s *PostgresUserStore) RemoveProject(ctx context.Context, email, projectID string) error {
	query := `
		UPDATE users
		SET projects = projects - $2, updated_at = NOW()
		WHERE email = $1
	`
	_, err := s.db.ExecContext(ctx, query, email, projectID)
	return err
}
