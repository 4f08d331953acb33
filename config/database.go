package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255),
			image TEXT,
			projects JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT 'Untitled Project',
			description TEXT NOT NULL DEFAULT '',
			owner_email VARCHAR(255) NOT NULL,
			subgroups JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS project_members (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			project_id UUID REFERENCES projects(id) ON DELETE CASCADE,
			user_email VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'member',
			added_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(project_id, user_email)
		)`,

		// project_id has no FK on purpose: invitations keep a denormalized
		// snapshot and survive project deletion.
		`CREATE TABLE IF NOT EXISTS invitations (
			id UUID PRIMARY KEY,
			project_id VARCHAR(255) NOT NULL,
			project_name VARCHAR(255) NOT NULL,
			inviter_email VARCHAR(255) NOT NULL,
			inviter_name VARCHAR(255),
			invitee_email VARCHAR(255) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			token VARCHAR(255) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		// At most one pending invitation per (project, invitee), enforced
		// even under concurrent sends.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_single_pending
			ON invitations(project_id, invitee_email) WHERE status = 'pending'`,

		`CREATE INDEX IF NOT EXISTS idx_projects_owner_email ON projects(owner_email)`,
		`CREATE INDEX IF NOT EXISTS idx_project_members_project_id ON project_members(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_project_members_user_email ON project_members(user_email)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_invitee_email ON invitations(invitee_email)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_token ON invitations(token)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
